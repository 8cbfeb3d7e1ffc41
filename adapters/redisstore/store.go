// Package redisstore keeps the token deny-list in Redis. Entries carry a TTL
// matching the revoked token's remaining lifetime, so Redis evicts them on
// its own once the token would have expired anyway.
package redisstore

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/redis/go-redis/v9"

	"github.com/quizapp/go-auth"
)

// DefaultKeyPrefix namespaces deny-list keys in a shared Redis.
const DefaultKeyPrefix = "auth:revoked:"

// Store implements auth.RevocationStore on top of a Redis client.
type Store struct {
	client    redis.UniversalClient
	keyPrefix string
}

// Option customizes the store.
type Option func(*Store)

// WithKeyPrefix overrides the key namespace.
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// New creates a deny-list store over the given client.
func New(client redis.UniversalClient, opts ...Option) *Store {
	store := &Store{
		client:    client,
		keyPrefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (s *Store) key(jti string) string {
	return s.keyPrefix + jti
}

// Exists reports whether the token identifier is on the deny-list.
func (s *Store) Exists(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token deny-list")
	}
	return n > 0, nil
}

// Insert adds the token identifier with a TTL covering its remaining
// lifetime. Tokens already past expiry get a minimal TTL so the entry
// still lands and promptly evicts.
func (s *Store) Insert(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := s.client.Set(ctx, s.key(jti), "1", ttl).Err(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert token into deny-list")
	}
	return nil
}

// DeleteExpiredBefore is a no-op, Redis evicts entries via TTL.
func (s *Store) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

var _ auth.RevocationStore = (*Store)(nil)
