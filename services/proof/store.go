// File: services/proof/store.go
package proof

import (
	"context"
	"errors"

	"haulaway/utils"

	"github.com/go-redis/redis/v8"
)

// Store is the persisted proof-URL cache keyed by order id. Writes are
// last-writer-wins; every writer follows the same precedence order so this is
// safe.
type Store interface {
	GetProofURL(ctx context.Context, orderID string) (string, error)
	SetProofURL(ctx context.Context, orderID, url string) error
}

// RedisStore implements Store on the process-wide key-value cache. Entries
// have no TTL: a proof URL stays valid for the life of the record.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetProofURL(ctx context.Context, orderID string) (string, error) {
	url, err := s.client.Get(ctx, utils.ProofCachePrefix+orderID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *RedisStore) SetProofURL(ctx context.Context, orderID, url string) error {
	return s.client.Set(ctx, utils.ProofCachePrefix+orderID, url, 0).Err()
}
