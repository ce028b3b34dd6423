package authgate

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// defaultEmailTokenSalt keys email action tokens apart from session tokens
// signed with the same base secret.
const defaultEmailTokenSalt = "email-configuration"

type emailTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// EmailTokenService signs the single-purpose tokens embedded in account
// verification and password reset links. The signing key is derived from the
// base secret and a salt, so an email action token can never pass for a
// session token and vice versa.
type EmailTokenService struct {
	signingKey []byte
	ttl        time.Duration
	logger     Logger
}

// EmailTokenOption configures an EmailTokenService
type EmailTokenOption func(*emailTokenOptions)

type emailTokenOptions struct {
	salt   string
	logger Logger
}

// WithEmailTokenSalt overrides the key derivation salt
func WithEmailTokenSalt(salt string) EmailTokenOption {
	return func(o *emailTokenOptions) {
		if salt != "" {
			o.salt = salt
		}
	}
}

// WithEmailTokenLogger sets the logger
func WithEmailTokenLogger(logger Logger) EmailTokenOption {
	return func(o *emailTokenOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEmailTokenService creates a codec for email action tokens valid for ttl
func NewEmailTokenService(baseSecret []byte, ttl time.Duration, opts ...EmailTokenOption) (*EmailTokenService, error) {
	if len(baseSecret) == 0 {
		return nil, errors.New("base secret must not be empty", errors.CategoryBadInput)
	}

	if ttl <= 0 {
		return nil, errors.New("email token TTL must be positive", errors.CategoryBadInput)
	}

	options := &emailTokenOptions{
		salt:   defaultEmailTokenSalt,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	return &EmailTokenService{
		signingKey: deriveKey(baseSecret, options.salt),
		ttl:        ttl,
		logger:     options.logger,
	}, nil
}

// Issue signs a token binding the email for the configured validity window
func (s *EmailTokenService) Issue(email string) (string, error) {
	if email == "" {
		return "", ErrNoEmptyString
	}

	now := time.Now()
	claims := &emailTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign email action token")
	}

	return signed, nil
}

// Resolve returns the email a token was issued for. Every failure, expired,
// tampered, or cross-purpose, reads as ErrInvalidToken so callers cannot tell
// the cases apart.
func (s *EmailTokenService) Resolve(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &emailTokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.signingKey, nil
	})

	if err != nil {
		s.logger.Debug("email action token rejected", "error", err)
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*emailTokenClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}

func deriveKey(secret []byte, salt string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(salt))
	return mac.Sum(nil)
}
