package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/lwalter/authgate/internal/domain/user"
)

// SignupRequest represents the input for user registration
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the input for an authentication attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult represents a successful login or refresh. The refresh token is
// handed to the transport layer exactly once, for cookie delivery; it is
// never serialized into the response body.
type LoginResult struct {
	User         *user.Profile `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"-"`
}

// SessionInfo is the audit view of an active session. It carries provenance
// and lifetime but never the token value.
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Identity is the authenticated caller attached to the request context
type Identity struct {
	UserID string
	Email  string
	Role   user.Role
}

// IsAdmin reports whether the identity carries the ADMIN role
func (i *Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}
