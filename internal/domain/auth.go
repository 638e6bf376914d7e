package domain

import "time"

// Identity is an account confirmed by the identity provider.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// Session is a signed-in dashboard session.
type Session struct {
	ID        string
	Identity  Identity
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
