package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-dashboard/internal/auth"
	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-dashboard/pkg/util/errorutil"
)

// MinPasswordLength is the shortest password the login form accepts.
const MinPasswordLength = 6

// Messages shown to users on failed sign-in.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgInvalidEmail       = "Please enter a valid email address."
	MsgUserDisabled       = "This account has been disabled."
	MsgUnexpected         = "An unexpected error occurred. Please try again."
)

// SessionCloser releases per-session state when a user signs out.
type SessionCloser interface {
	Abandon(sessionID string)
}

// AuthService coordinates login and logout flows.
type AuthService struct {
	identity auth.IdentityProvider
	tokenMgr *auth.TokenManager
	sessions SessionCloser
	logger   *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Identity     auth.IdentityProvider
	TokenManager *auth.TokenManager
	Sessions     SessionCloser
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		identity: deps.Identity,
		tokenMgr: deps.TokenManager,
		sessions: deps.Sessions,
		logger:   logger,
	}
}

// Login checks the form, asks the identity provider, and issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if err := validateLogin(email, password); err != nil {
		return domain.Session{}, err
	}

	identity, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Info("sign-in rejected", zap.String("email", email), zap.Error(err))
		return domain.Session{}, signInError(err)
	}

	session, err := s.tokenMgr.IssueSession(identity)
	if err != nil {
		return domain.Session{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("signed in", zap.String("user_id", identity.UserID), zap.String("session_id", session.ID))
	return session, nil
}

// Logout drops the session's pending trend analyses. Tokens are stateless
// and stay valid until they expire.
func (s *AuthService) Logout(_ context.Context, sessionID string) error {
	if s.sessions != nil {
		s.sessions.Abandon(sessionID)
	}
	return nil
}

func validateLogin(email, password string) error {
	details := map[string]any{}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details["email"] = "Invalid email address."
	}
	if len(password) < MinPasswordLength {
		details["password"] = "Password must be at least 6 characters."
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid login form", details)
	}
	return nil
}

func signInError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apperrors.NewUnauthorized(MsgInvalidCredentials)
	case errors.Is(err, auth.ErrInvalidEmail):
		return apperrors.NewValidationError(MsgInvalidEmail, nil)
	case errors.Is(err, auth.ErrUserDisabled):
		return apperrors.NewForbidden(MsgUserDisabled)
	}
	return apperrors.NewIdentityUnavailable(MsgUnexpected, err)
}
