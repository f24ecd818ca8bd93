package middleware

import (
	"errors"

	"github.com/danieloks/account-service/internal/domain/entity"
)

// Identity is the resolved caller attached to a request after Auth ran.
type Identity struct {
	ID         string
	Name       string
	Email      string
	Role       entity.Role
	IsVerified bool
}

// Deny reasons produced by the capability checks.
var (
	ErrForbiddenRole   = errors.New("insufficient role")
	ErrNotVerified     = errors.New("email not verified")
	ErrUnauthenticated = errors.New("not authenticated")
)

// CheckRole allows the identity when its role is in the allowed set.
// Pure predicate; the gin wrapper below translates the error to a response.
func CheckRole(id Identity, allowed ...entity.Role) error {
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return ErrForbiddenRole
}

// CheckVerified allows only identities with a verified email address.
func CheckVerified(id Identity) error {
	if !id.IsVerified {
		return ErrNotVerified
	}
	return nil
}
