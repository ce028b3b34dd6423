package authgate_test

import (
	"context"
	"testing"
	"time"

	"github.com/authgate/authgate"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *authgate.EnvConfig {
	return &authgate.EnvConfig{
		SigningKey:      "test-signing-key",
		SigningMethod:   "HS256",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 48 * time.Hour,
		EmailTokenTTL:   time.Hour,
	}
}

func newTestAuther(t *testing.T, users authgate.UserProvider) (*authgate.Auther, authgate.RevocationStore) {
	t.Helper()

	revocations, _ := newTestRevocations(t)

	auther, err := authgate.NewAuthenticator(users, revocations, testConfig())
	require.NoError(t, err)

	return auther, revocations
}

func verifiedUser(t *testing.T, password string) *authgate.User {
	t.Helper()

	hash, err := authgate.HashPassword(password)
	require.NoError(t, err)

	return &authgate.User{
		ID:           uuid.New(),
		Role:         authgate.RoleAdmin,
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: hash,
		IsVerified:   true,
	}
}

func TestNewAuthenticatorValidation(t *testing.T) {
	revocations, _ := newTestRevocations(t)

	_, err := authgate.NewAuthenticator(nil, revocations, testConfig())
	assert.Error(t, err)

	_, err = authgate.NewAuthenticator(new(MockUserProvider), nil, testConfig())
	assert.Error(t, err)

	cfg := testConfig()
	cfg.SigningKey = ""
	_, err = authgate.NewAuthenticator(new(MockUserProvider), revocations, cfg)
	assert.Error(t, err)
}

func TestLoginSuccess(t *testing.T) {
	user := verifiedUser(t, "password123")

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	auther, _ := newTestAuther(t, users)

	pair, loggedIn, err := auther.Login(context.Background(), user.Email, "password123")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := auther.TokenService().Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID())
	assert.Equal(t, user.Email, claims.Email())
	assert.Equal(t, "admin", claims.Role())
	assert.True(t, claims.IsAccess())

	refresh, err := auther.TokenService().Validate(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refresh.IsRefresh())
	assert.Empty(t, refresh.Role())

	users.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, authgate.ErrUserNotFound)

	auther, _ := newTestAuther(t, users)

	_, _, err := auther.Login(context.Background(), "ghost@example.com", "whatever")
	assert.Equal(t, authgate.ErrInvalidCredentials, err)
}

func TestLoginUnverifiedAccount(t *testing.T) {
	user := verifiedUser(t, "password123")
	user.IsVerified = false

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	auther, _ := newTestAuther(t, users)

	// the verification check fires even with the correct password
	_, _, err := auther.Login(context.Background(), user.Email, "password123")
	assert.Equal(t, authgate.ErrAccountNotVerified, err)
}

func TestLoginWrongPassword(t *testing.T) {
	user := verifiedUser(t, "password123")

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	auther, _ := newTestAuther(t, users)

	_, _, err := auther.Login(context.Background(), user.Email, "wrong-password")
	assert.Equal(t, authgate.ErrInvalidCredentials, err)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	user := verifiedUser(t, "password123")

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	users.On("FindByID", mock.Anything, user.ID.String()).Return(user, nil)

	auther, _ := newTestAuther(t, users)
	ctx := context.Background()

	pair, _, err := auther.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	access, err := auther.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := auther.TokenService().Validate(access)
	require.NoError(t, err)
	assert.True(t, claims.IsAccess())
	assert.Equal(t, "admin", claims.Role())

	// the refresh token is not rotated and stays usable
	_, err = auther.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := verifiedUser(t, "password123")

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	auther, _ := newTestAuther(t, users)
	ctx := context.Background()

	pair, _, err := auther.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	_, err = auther.Refresh(ctx, pair.AccessToken)
	assert.Equal(t, authgate.ErrRefreshTokenRequired, err)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	user := verifiedUser(t, "password123")

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	auther, revocations := newTestAuther(t, users)
	ctx := context.Background()

	pair, _, err := auther.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	claims, err := auther.TokenService().Validate(pair.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, revocations.Revoke(ctx, claims.TokenID(), time.Hour))

	_, err = auther.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, authgate.ErrRevokedToken, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	user := verifiedUser(t, "password123")

	users := new(MockUserProvider)
	users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	auther, revocations := newTestAuther(t, users)
	guard := authgate.NewGuard(auther.TokenService(), revocations)
	ctx := context.Background()

	pair, _, err := auther.Login(ctx, user.Email, "password123")
	require.NoError(t, err)

	claims, err := guard.RequireAccess(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, auther.Logout(ctx, claims))

	_, err = guard.RequireAccess(ctx, pair.AccessToken)
	assert.Equal(t, authgate.ErrRevokedToken, err)

	// logging out the access token leaves the paired refresh token alive
	_, err = guard.RequireRefresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutNilClaims(t *testing.T) {
	users := new(MockUserProvider)
	auther, _ := newTestAuther(t, users)

	err := auther.Logout(context.Background(), nil)
	assert.Equal(t, authgate.ErrInvalidToken, err)
}

func TestLogoutTokenID(t *testing.T) {
	users := new(MockUserProvider)
	auther, revocations := newTestAuther(t, users)
	ctx := context.Background()

	require.NoError(t, auther.LogoutTokenID(ctx, "some-token-id"))

	revoked, err := revocations.IsRevoked(ctx, "some-token-id")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestEmailActionTokenRoundTrip(t *testing.T) {
	users := new(MockUserProvider)
	auther, _ := newTestAuther(t, users)

	token, err := auther.IssueEmailActionToken("tester@example.com")
	require.NoError(t, err)

	email, err := auther.ResolveEmailActionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tester@example.com", email)

	// a session token never resolves as an email action token
	_, err = auther.ResolveEmailActionToken("not.a.valid.token")
	assert.Equal(t, authgate.ErrInvalidToken, err)
}
