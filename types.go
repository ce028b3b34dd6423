package authgate

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// TokenPair is the result of a successful login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenService issues and validates the JWT pair
type TokenService interface {
	IssueAccessToken(identity Identity) (string, error)
	IssueRefreshToken(identity Identity) (string, error)
	IssuePair(identity Identity) (*TokenPair, error)
	Validate(tokenString string) (*Claims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// RevocationStore is the token id blocklist. Revoke is idempotent and entries
// expire on their own after retainFor.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, retainFor time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	IsVerified   *bool
	PasswordHash *string
}

// UserProvider is the durable user store the session engine depends on.
// Lookups that come back empty fail with ErrUserNotFound.
type UserProvider interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User, patch UserPatch) (*User, error)
}

// MailSender delivers account emails. Delivery failures are the caller's to
// handle; the engine never blocks a flow on mail transport.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
