package authgate

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryUserProvider adapts the bun-backed repositories to the
// UserProvider interface the session engine depends on. Storage specific
// not-found errors are translated to ErrUserNotFound at this boundary.
type RepositoryUserProvider struct {
	repo   RepositoryManager
	logger Logger
}

var _ UserProvider = (*RepositoryUserProvider)(nil)

// NewRepositoryUserProvider creates a provider over the repository manager
func NewRepositoryUserProvider(repo RepositoryManager, logger Logger) *RepositoryUserProvider {
	if logger == nil {
		logger = defLogger{}
	}
	return &RepositoryUserProvider{
		repo:   repo,
		logger: logger,
	}
}

func (p *RepositoryUserProvider) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := p.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, p.translate(err)
	}
	return user, nil
}

func (p *RepositoryUserProvider) FindByID(ctx context.Context, id string) (*User, error) {
	user, err := p.repo.Users().GetByID(ctx, id)
	if err != nil {
		return nil, p.translate(err)
	}
	return user, nil
}

// Create registers a user after an in-transaction uniqueness check, so two
// racing signups for the same email cannot both pass.
func (p *RepositoryUserProvider) Create(ctx context.Context, user *User) (*User, error) {
	var created *User

	err := p.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := p.repo.Users().GetByEmailTx(ctx, tx, user.Email); err == nil {
			return ErrUserAlreadyExists
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check user uniqueness")
		}

		record, err := p.repo.Users().RegisterTx(ctx, tx, user)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create user")
		}

		created = record
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user creation transaction failed")
	}

	return created, nil
}

// Update applies a partial update. Nil patch fields are left untouched.
func (p *RepositoryUserProvider) Update(ctx context.Context, user *User, patch UserPatch) (*User, error) {
	if user == nil {
		return nil, ErrUserNotFound
	}

	err := p.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if patch.IsVerified != nil && *patch.IsVerified {
			if err := p.repo.Users().MarkVerifiedTx(ctx, tx, user.ID); err != nil {
				return err
			}
			user.MarkVerified()
		}

		if patch.PasswordHash != nil {
			if err := p.repo.Users().ResetPasswordTx(ctx, tx, user.ID, *patch.PasswordHash); err != nil {
				return err
			}
			user.PasswordHash = *patch.PasswordHash
		}

		return nil
	})

	if err != nil {
		return nil, p.translate(err)
	}

	return user, nil
}

func (p *RepositoryUserProvider) translate(err error) error {
	if repository.IsRecordNotFound(err) {
		return ErrUserNotFound
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "user storage error")
}
