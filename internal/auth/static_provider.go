package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

type staticAccount struct {
	identity     domain.Identity
	passwordHash string
	disabled     bool
}

// StaticProvider signs users in against a fixed set of bcrypt-hashed
// accounts. It backs local development and tests.
type StaticProvider struct {
	accounts map[string]staticAccount
}

// NewStaticProvider parses entries of the form "email:bcrypt-hash" with an
// optional ":disabled" suffix.
func NewStaticProvider(entries []string) (*StaticProvider, error) {
	accounts := make(map[string]staticAccount, len(entries))
	for _, entry := range entries {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("static account %q: want email:hash", entry)
		}
		email := strings.ToLower(parts[0])
		if _, exists := accounts[email]; exists {
			return nil, fmt.Errorf("static account %q listed twice", email)
		}
		if err := checkHash(parts[1]); err != nil {
			return nil, fmt.Errorf("static account %q: %w", email, err)
		}
		account := staticAccount{
			identity: domain.Identity{
				UserID:      "static:" + email,
				Email:       email,
				DisplayName: strings.SplitN(email, "@", 2)[0],
			},
			passwordHash: parts[1],
		}
		if len(parts) == 3 {
			if parts[2] != "disabled" {
				return nil, fmt.Errorf("static account %q: unknown flag %q", email, parts[2])
			}
			account.disabled = true
		}
		accounts[email] = account
	}
	return &StaticProvider{accounts: accounts}, nil
}

// SignIn implements IdentityProvider.
func (p *StaticProvider) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	account, ok := p.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if err := ComparePassword(account.passwordHash, password); err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if account.disabled {
		return domain.Identity{}, ErrUserDisabled
	}
	return account.identity, nil
}
