package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse describes the signed-in user.
type UserResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}

// LoginResponse returns the session token.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// NewLoginResponse converts a session.
func NewLoginResponse(s domain.Session) LoginResponse {
	return LoginResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User: UserResponse{
			ID:          s.Identity.UserID,
			Email:       s.Identity.Email,
			DisplayName: s.Identity.DisplayName,
		},
	}
}
