package authgate_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/authgate/authgate"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateUsers = `CREATE TABLE users (
    id TEXT NOT NULL PRIMARY KEY,
    user_role TEXT NOT NULL,
    first_name TEXT,
    last_name TEXT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    verified_at TIMESTAMP NULL,
    reseted_at TIMESTAMP NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP NULL
);`

func setupRepositoryManager(t *testing.T) authgate.RepositoryManager {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateUsers)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return authgate.NewRepositoryManager(bunDB)
}

func TestUsersRegisterAppliesDefaults(t *testing.T) {
	repo := setupRepositoryManager(t)
	ctx := context.Background()

	created, err := repo.Users().Register(ctx, &authgate.User{
		Email:        "ada@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, authgate.RoleUser, created.Role)
	assert.Equal(t, "ada", created.Username)
	assert.False(t, created.IsVerified)
}

func TestUsersGetByEmail(t *testing.T) {
	repo := setupRepositoryManager(t)
	ctx := context.Background()

	created, err := repo.Users().Register(ctx, &authgate.User{
		Email:        "ada@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	found, err := repo.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.Users().GetByEmail(ctx, "ghost@example.com")
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersMarkVerified(t *testing.T) {
	repo := setupRepositoryManager(t)
	ctx := context.Background()

	created, err := repo.Users().Register(ctx, &authgate.User{
		Email:        "ada@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.False(t, created.IsVerified)

	require.NoError(t, repo.Users().MarkVerified(ctx, created.ID))

	found, err := repo.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
	assert.NotNil(t, found.VerifiedAt)
}

func TestUsersMarkVerifiedUnknownID(t *testing.T) {
	repo := setupRepositoryManager(t)

	user := &authgate.User{Email: "ghost@example.com"}
	err := repo.Users().MarkVerified(context.Background(), user.ID)
	require.Error(t, err)
	assert.True(t, repository.IsRecordNotFound(err))
}

func TestUsersResetPassword(t *testing.T) {
	repo := setupRepositoryManager(t)
	ctx := context.Background()

	created, err := repo.Users().Register(ctx, &authgate.User{
		Email:        "ada@example.com",
		PasswordHash: "old-hash",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Users().ResetPassword(ctx, created.ID, "new-hash"))

	found, err := repo.Users().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.PasswordHash)
	assert.NotNil(t, found.ResetedAt)
}

func TestUserProviderCreateDuplicateEmail(t *testing.T) {
	repo := setupRepositoryManager(t)
	provider := authgate.NewRepositoryUserProvider(repo, nil)
	ctx := context.Background()

	_, err := provider.Create(ctx, &authgate.User{
		Email:        "ada@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	_, err = provider.Create(ctx, &authgate.User{
		Email:        "ada@example.com",
		Username:     "ada2",
		PasswordHash: "hash",
	})
	assert.Equal(t, authgate.ErrUserAlreadyExists, err)
}

func TestUserProviderFindTranslatesNotFound(t *testing.T) {
	repo := setupRepositoryManager(t)
	provider := authgate.NewRepositoryUserProvider(repo, nil)

	_, err := provider.FindByEmail(context.Background(), "ghost@example.com")
	assert.Equal(t, authgate.ErrUserNotFound, err)
}

func TestUserProviderUpdateAppliesPatch(t *testing.T) {
	repo := setupRepositoryManager(t)
	provider := authgate.NewRepositoryUserProvider(repo, nil)
	ctx := context.Background()

	created, err := provider.Create(ctx, &authgate.User{
		Email:        "ada@example.com",
		PasswordHash: "old-hash",
	})
	require.NoError(t, err)

	verified := true
	newHash := "new-hash"
	updated, err := provider.Update(ctx, created, authgate.UserPatch{
		IsVerified:   &verified,
		PasswordHash: &newHash,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
	assert.Equal(t, "new-hash", updated.PasswordHash)

	found, err := provider.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
	assert.Equal(t, "new-hash", found.PasswordHash)
}
