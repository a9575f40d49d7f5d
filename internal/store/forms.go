package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/semanticsaas/talentctl/internal/errs"
	"github.com/semanticsaas/talentctl/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// TalentForm is the client-side fast path for talent submissions: presence
// and format checks only, rejected before any network call. Server-side
// validation remains authoritative.
type TalentForm struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"required,email"`
}

// Validate reports the first failing field as a validation error.
func (f TalentForm) Validate() error {
	return describe(validate.Struct(f))
}

// UserForm is the client-side fast path for account submissions.
type UserForm struct {
	Username  string `validate:"required"`
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	// Password is required on create only; updates may leave it empty.
	Password   string `validate:"omitempty,min=8"`
	NewAccount bool   `validate:"-"`
	Roles      []string
	CustomerID int64
	Enabled    bool
}

// Validate reports the first failing field as a validation error.
func (f UserForm) Validate() error {
	if f.NewAccount && f.Password == "" {
		return fmt.Errorf("%w: password is required", errs.ErrValidation)
	}
	return describe(validate.Struct(f))
}

// User builds the submission payload. Roles are normalized here, at the
// ingestion boundary.
func (f UserForm) User() model.User {
	return model.User{
		CustomerID: f.CustomerID,
		Username:   f.Username,
		Email:      f.Email,
		Password:   f.Password,
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Enabled:    f.Enabled,
		Roles:      model.NormalizeRoles(f.Roles),
	}
}

// describe converts validator output into one user-presentable message
// wrapping the validation sentinel.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", errs.ErrValidation, field)
	case "email":
		return fmt.Errorf("%w: %s must be a valid email address", errs.ErrValidation, field)
	case "min":
		return fmt.Errorf("%w: %s must be at least %s characters", errs.ErrValidation, field, fe.Param())
	default:
		return fmt.Errorf("%w: %s is invalid", errs.ErrValidation, field)
	}
}
