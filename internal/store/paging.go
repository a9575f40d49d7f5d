package store

import (
	"fmt"

	"github.com/semanticsaas/talentctl/internal/errs"
)

// checkPaging rejects malformed page requests before any network call.
func checkPaging(page, size int) error {
	if page < 0 {
		return fmt.Errorf("%w: page must be >= 0, got %d", errs.ErrValidation, page)
	}
	if size <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", errs.ErrValidation, size)
	}
	return nil
}
