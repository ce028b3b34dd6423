package authgate

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Auther orchestrates the session lifecycle: login, refresh, logout, and the
// email action tokens used by verification and password reset flows.
type Auther struct {
	users       UserProvider
	revocations RevocationStore
	tokens      TokenService
	emailTokens *EmailTokenService
	logger      Logger
}

// NewAuthenticator returns a new Auther wired from the given config
func NewAuthenticator(users UserProvider, revocations RevocationStore, cfg Config) (*Auther, error) {
	if users == nil {
		return nil, errors.New("user provider is required", errors.CategoryBadInput)
	}

	if revocations == nil {
		return nil, errors.New("revocation store is required", errors.CategoryBadInput)
	}

	tokens, err := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetSigningMethod(),
		cfg.GetAccessTokenExpiration(),
		cfg.GetRefreshTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)
	if err != nil {
		return nil, err
	}

	emailTokens, err := NewEmailTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetEmailTokenExpiration(),
	)
	if err != nil {
		return nil, err
	}

	return &Auther{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		emailTokens: emailTokens,
		logger:      defLogger{},
	}, nil
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService swaps the session token codec
func (s *Auther) WithTokenService(tokens TokenService) *Auther {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithEmailTokenService swaps the email action token codec
func (s *Auther) WithEmailTokenService(emailTokens *EmailTokenService) *Auther {
	if emailTokens != nil {
		s.emailTokens = emailTokens
	}
	return s
}

// TokenService returns the token codec used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies credentials and mints a token pair. The verification check
// runs before the password check so an unverified account surfaces as such
// instead of hiding behind invalid credentials. Unknown email and wrong
// password both come back as ErrInvalidCredentials.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, *User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) && richErr.TextCode == TextCodeUserNotFound {
			s.logger.Debug("login for unknown email")
			return nil, nil, ErrInvalidCredentials
		}
		s.logger.Error("login user lookup failed", "error", err)
		return nil, nil, err
	}

	if !user.IsVerified {
		return nil, nil, ErrAccountNotVerified
	}

	if !VerifyPassword(password, user.PasswordHash) {
		s.logger.Debug("login password mismatch", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(userIdentity{user})
	if err != nil {
		s.logger.Error("login token issuance failed", "error", err)
		return nil, nil, err
	}

	s.logger.Info("login successful", "user_id", user.ID)
	return pair, user, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
// The refresh token itself is left untouched and stays usable until it
// expires or is revoked.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Validate(refreshToken)
	if err != nil {
		return "", err
	}

	if !claims.IsRefresh() {
		return "", ErrRefreshTokenRequired
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrRevokedToken
	}

	// Refresh claims carry no role, so the minted access token re-reads it
	// from the stored user rather than trusting the bearer.
	user, err := s.users.FindByID(ctx, claims.UserID())
	if err != nil {
		s.logger.Error("refresh user lookup failed", "error", err)
		return "", err
	}

	access, err := s.tokens.IssueAccessToken(userIdentity{user})
	if err != nil {
		return "", err
	}

	s.logger.Debug("access token refreshed", "user_id", claims.UserID())
	return access, nil
}

// Logout revokes the token's id for its remaining lifetime. Revoking an
// already revoked or already expired token is a no-op.
func (s *Auther) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.TokenID() == "" {
		return ErrInvalidToken
	}

	retain := time.Until(claims.Expires())
	return s.revocations.Revoke(ctx, claims.TokenID(), retain)
}

// LogoutTokenID revokes a bare token id when the claims are not at hand.
// The blocklist entry is retained for the access TTL, the longest a live
// access token could still have ahead of it.
func (s *Auther) LogoutTokenID(ctx context.Context, tokenID string) error {
	return s.revocations.Revoke(ctx, tokenID, s.tokens.AccessTTL())
}

// IssueEmailActionToken signs a token for verification or reset links
func (s *Auther) IssueEmailActionToken(email string) (string, error) {
	return s.emailTokens.Issue(email)
}

// ResolveEmailActionToken returns the email behind a link token, or
// ErrInvalidToken for anything expired or tampered
func (s *Auther) ResolveEmailActionToken(token string) (string, error) {
	return s.emailTokens.Resolve(token)
}

// userIdentity adapts a stored User to the Identity interface
type userIdentity struct {
	user *User
}

func (i userIdentity) ID() string       { return i.user.ID.String() }
func (i userIdentity) Username() string { return i.user.Username }
func (i userIdentity) Email() string    { return i.user.Email }
func (i userIdentity) Role() string     { return string(i.user.Role) }
