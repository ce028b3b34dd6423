package authgate

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"
)

// revocationKeyPrefix namespaces blocklist entries in a shared Redis
const revocationKeyPrefix = "authgate:revoked:"

// RedisRevocationStore keeps revoked token ids in Redis. Entries carry a TTL
// at least as long as the token's remaining lifetime so the blocklist cleans
// itself up, no sweeper needed.
type RedisRevocationStore struct {
	client redis.UniversalClient
	prefix string
	logger Logger
}

// RevocationOption configures a RedisRevocationStore
type RevocationOption func(*RedisRevocationStore)

// WithRevocationPrefix overrides the key namespace
func WithRevocationPrefix(prefix string) RevocationOption {
	return func(s *RedisRevocationStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRevocationLogger sets the logger
func WithRevocationLogger(logger Logger) RevocationOption {
	return func(s *RedisRevocationStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewRedisRevocationStore creates a blocklist backed by the given client
func NewRedisRevocationStore(client redis.UniversalClient, opts ...RevocationOption) *RedisRevocationStore {
	store := &RedisRevocationStore{
		client: client,
		prefix: revocationKeyPrefix,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}

	return store
}

var _ RevocationStore = (*RedisRevocationStore)(nil)

// Revoke adds a token id to the blocklist for retainFor. Revoking an already
// revoked id refreshes its TTL, which keeps the call idempotent. A token that
// already expired needs no entry at all.
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, retainFor time.Duration) error {
	if tokenID == "" {
		return ErrNoEmptyString
	}

	if retainFor <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, s.prefix+tokenID, "", retainFor).Err(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to revoke token")
	}

	s.logger.Debug("token revoked", "token_id", tokenID, "retain_for", retainFor)
	return nil
}

// IsRevoked reports whether a token id is in the blocklist
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, ErrNoEmptyString
	}

	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check token revocation")
	}

	return n > 0, nil
}
