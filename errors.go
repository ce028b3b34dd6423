package authgate

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidToken           = "invalid_token"
	TextCodeRevokedToken           = "revoked_token"
	TextCodeAccessTokenRequired    = "access_token_required"
	TextCodeRefreshTokenRequired   = "refresh_token_required"
	TextCodeInvalidCredentials     = "invalid_credentials"
	TextCodeAccountNotVerified     = "account_not_verified"
	TextCodeUserAlreadyExists      = "user_already_exists"
	TextCodeUserNotFound           = "user_not_found"
	TextCodeInsufficientPermission = "insufficient_permissions"
	TextCodePasswordNotMatch       = "password_not_match"
)

// ErrInvalidToken is returned when a token fails signature, structure, or
// expiry checks. Email action token failures collapse into this error too.
var ErrInvalidToken = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrRevokedToken is returned when a token id is found in the blocklist.
var ErrRevokedToken = errors.New("token has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeRevokedToken).
	WithCode(errors.CodeUnauthorized)

// ErrAccessTokenRequired is returned when a refresh token is presented where
// an access token is expected.
var ErrAccessTokenRequired = errors.New("access token required", errors.CategoryAuth).
	WithTextCode(TextCodeAccessTokenRequired).
	WithCode(errors.CodeUnauthorized)

// ErrRefreshTokenRequired is returned when an access token is presented where
// a refresh token is expected.
var ErrRefreshTokenRequired = errors.New("refresh token required", errors.CategoryAuth).
	WithTextCode(TextCodeRefreshTokenRequired).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidCredentials is returned on login when the email is unknown or the
// password does not match. Both cases share one error on purpose.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotVerified is returned on login before the password is checked
// when the account has not completed email verification.
var ErrAccountNotVerified = errors.New("account not verified", errors.CategoryAuth).
	WithTextCode(TextCodeAccountNotVerified).
	WithCode(errors.CodeBadRequest)

// ErrUserAlreadyExists is returned on signup for a taken email.
var ErrUserAlreadyExists = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserAlreadyExists).
	WithCode(errors.CodeConflict)

// ErrUserNotFound is returned when a user lookup comes back empty.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrInsufficientPermission is returned by the role guard.
var ErrInsufficientPermission = errors.New("insufficient permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientPermission).
	WithCode(errors.CodeForbidden)

// ErrPasswordNotMatch is returned when a password confirmation differs from
// the password it confirms.
var ErrPasswordNotMatch = errors.New("password does not match", errors.CategoryValidation).
	WithTextCode(TextCodePasswordNotMatch).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the low-level mismatch from the hasher.
// Callers translate it to ErrInvalidCredentials at the flow boundary.
var ErrMismatchedHashAndPassword = errors.New("hashed password mismatch", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
