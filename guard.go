package authgate

import "context"

// Guard enforces the bearer token checks endpoints depend on. Checks run in a
// fixed order, signature and expiry first, then kind, then revocation, then
// role, and the first failure wins.
type Guard struct {
	tokens      TokenService
	revocations RevocationStore
}

// NewGuard creates a Guard over the given codec and blocklist
func NewGuard(tokens TokenService, revocations RevocationStore) *Guard {
	return &Guard{
		tokens:      tokens,
		revocations: revocations,
	}
}

// RequireAccess admits only valid, unrevoked access tokens
func (g *Guard) RequireAccess(ctx context.Context, token string) (*Claims, error) {
	return g.require(ctx, token, TokenKindAccess)
}

// RequireRefresh admits only valid, unrevoked refresh tokens
func (g *Guard) RequireRefresh(ctx context.Context, token string) (*Claims, error) {
	return g.require(ctx, token, TokenKindRefresh)
}

func (g *Guard) require(ctx context.Context, token string, kind TokenKind) (*Claims, error) {
	claims, err := g.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	if claims.Kind != kind {
		if kind == TokenKindAccess {
			return nil, ErrAccessTokenRequired
		}
		return nil, ErrRefreshTokenRequired
	}

	revoked, err := g.revocations.IsRevoked(ctx, claims.TokenID())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

// RequireRole passes when the claims carry any of the allowed roles
func (g *Guard) RequireRole(claims *Claims, allowed ...string) error {
	if claims == nil {
		return ErrInvalidToken
	}

	for _, role := range allowed {
		if claims.HasRole(role) {
			return nil
		}
	}

	return ErrInsufficientPermission
}

// RequireAtLeast passes when the claims' role meets the minimum level
func (g *Guard) RequireAtLeast(claims *Claims, minRole UserRole) error {
	if claims == nil {
		return ErrInvalidToken
	}

	if !claims.UserRole.IsAtLeast(minRole) {
		return ErrInsufficientPermission
	}

	return nil
}
