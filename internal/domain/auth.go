package domain

import "time"

// AuthClaims represents the identity decoded from a verified token and
// attached to the request context by the auth middleware.
type AuthClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IssuedAt int64  `json:"issued_at"`
	Expires  int64  `json:"expires"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult represents a successful login: the signed token plus the
// authenticated user.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}
