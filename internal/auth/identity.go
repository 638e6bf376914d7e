package auth

import (
	"context"
	"errors"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

var (
	// ErrInvalidCredentials covers unknown accounts and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidEmail is returned when the provider rejects the address itself.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrUserDisabled is returned for accounts the provider has disabled.
	ErrUserDisabled = errors.New("user disabled")
	// ErrProviderUnavailable wraps transport and unexpected provider failures.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

// IdentityProvider verifies email and password sign-ins.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (domain.Identity, error)
}
