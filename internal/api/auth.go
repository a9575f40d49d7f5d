package api

import (
	"context"
	"net/http"

	"github.com/semanticsaas/talentctl/internal/model"
)

// LoginResult is the flat login response: the issued token plus the
// identity fields.
type LoginResult struct {
	Token string `json:"token"`
	model.Identity
}

// RegisterRequest signs a new customer up together with its admin user.
type RegisterRequest struct {
	CompanyName string `json:"companyName" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// Ack is the generic {success,message} response envelope.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Login exchanges credentials for a token and identity. It does not touch
// the token store; persisting the session is the session store's call.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	out.Roles = model.NormalizeRoles(out.Roles)
	return &out, nil
}

// Register creates a customer account with an initial admin user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*Ack, error) {
	var out Ack
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CurrentIdentity validates the persisted token and returns the identity it
// belongs to.
func (c *Client) CurrentIdentity(ctx context.Context) (*model.Identity, error) {
	var out model.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	out.Roles = model.NormalizeRoles(out.Roles)
	return &out, nil
}
