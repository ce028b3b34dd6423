package authgate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind tells access and refresh tokens apart
type TokenKind string

const (
	// TokenKindAccess marks short-lived tokens that authorize API calls
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh marks long-lived tokens that can only mint new access tokens
	TokenKindRefresh TokenKind = "refresh"
)

// Claims is the payload carried by both token kinds. Refresh tokens omit the
// role so permissions are always re-read when a new access token is minted.
type Claims struct {
	jwt.RegisteredClaims
	UID       string    `json:"user_uid,omitempty"`
	UserEmail string    `json:"email,omitempty"`
	UserRole  UserRole  `json:"role,omitempty"`
	Kind      TokenKind `json:"issued_for,omitempty"`
}

// Subject returns the subject claim
func (c *Claims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *Claims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the user email
func (c *Claims) Email() string {
	return c.UserEmail
}

// Role returns the global role
func (c *Claims) Role() string {
	return string(c.UserRole)
}

// TokenID returns the unique token id (jti)
func (c *Claims) TokenID() string {
	return c.RegisteredClaims.ID
}

// IsAccess reports whether this is an access token
func (c *Claims) IsAccess() bool {
	return c.Kind == TokenKindAccess
}

// IsRefresh reports whether this is a refresh token
func (c *Claims) IsRefresh() bool {
	return c.Kind == TokenKindRefresh
}

// HasRole checks if the user has a specific role
func (c *Claims) HasRole(role string) bool {
	return string(c.UserRole) == role
}

// IsAtLeast checks if the user's role is at least the minimum required role
func (c *Claims) IsAtLeast(minRole string) bool {
	return c.UserRole.IsAtLeast(UserRole(minRole))
}

// Expires returns the expiration time
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
