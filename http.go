package authgate

import (
	"context"

	"github.com/authgate/authgate/middleware/jwtware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// guardAdapter bridges the Guard to the middleware's mirror interfaces
type guardAdapter struct {
	guard *Guard
}

func (g guardAdapter) RequireAccess(ctx context.Context, token string) (jwtware.AuthClaims, error) {
	claims, err := g.guard.RequireAccess(ctx, token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (g guardAdapter) RequireRefresh(ctx context.Context, token string) (jwtware.AuthClaims, error) {
	claims, err := g.guard.RequireRefresh(ctx, token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// AccessTokenMiddleware protects a route with the access token guard.
// Optional roles narrow it further, any listed role passes.
func AccessTokenMiddleware(guard *Guard, roles ...string) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		Guard:         guardAdapter{guard},
		RequiredRoles: roles,
		ErrorHandler:  WriteErrorResponse,
	})
}

// RefreshTokenMiddleware protects the token refresh route
func RefreshTokenMiddleware(guard *Guard) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		Guard:        guardAdapter{guard},
		Refresh:      true,
		ErrorHandler: WriteErrorResponse,
	})
}

// WriteErrorResponse maps an error to the JSON error body clients get:
// {"message": ..., "error_code": ...} plus the catalog's HTTP status.
// Unknown errors are not leaked, they collapse to a generic 500 body.
func WriteErrorResponse(c router.Context, err error) error {
	richErr := asCatalogError(err)
	return c.JSON(richErr.Code, map[string]any{
		"message":    richErr.Message,
		"error_code": richErr.TextCode,
	})
}

// jwtwareExtract pulls the bearer token from the Authorization header
func jwtwareExtract(ctx router.Context) (string, error) {
	extractors := jwtware.GetExtractors("header:"+router.HeaderAuthorization, "Bearer")
	return jwtware.ExtractRawTokenFromContext(ctx, extractors)
}

func asCatalogError(err error) *errors.Error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return ErrInvalidToken
	}
	if errors.Is(err, jwtware.ErrInsufficientRole) {
		return ErrInsufficientPermission
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode != "" {
		return richErr
	}

	return errors.Wrap(err, errors.CategoryInternal, "Oops! Something went wrong").
		WithTextCode("server_error").
		WithCode(errors.CodeInternal)
}
