// Package authgate implements the token and session lifecycle for a
// password-based authentication service: signup with email verification,
// login issuing short-lived access tokens paired with long-lived refresh
// tokens, a Redis-backed revocation blocklist, password reset flows, and
// role-based access guards.
//
// Token lifecycle:
//   - TokenService signs and validates the JWT pair. Access tokens carry the
//     user's email and role, refresh tokens deliberately omit the role so a
//     stolen refresh token cannot assert permissions on its own. Every token
//     carries a unique id (jti) so it can be revoked individually.
//   - RevocationStore keeps revoked token ids in Redis with a TTL at least as
//     long as the token's remaining lifetime, so entries clean themselves up
//     once the token they block would have expired anyway.
//   - EmailTokenService signs single-purpose tokens embedded in verification
//     and password-reset links. Keys are derived per purpose from the base
//     secret, and every decode failure collapses into ErrInvalidToken.
//
// Guards:
//   - Guard.RequireAccess and Guard.RequireRefresh decode a bearer token and
//     enforce kind and revocation checks in a fixed order. RequireRole layers
//     role checks on top. The middleware/jwtware package adapts the guards to
//     go-router middleware.
package authgate
