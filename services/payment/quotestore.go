package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"haulaway/models"
	"haulaway/utils"

	"github.com/go-redis/redis/v8"
)

// RedisQuoteStore holds quotes in the session cache with a TTL. Expiry is the
// abandonment cleanup: a checkout the user never completes simply ages out.
type RedisQuoteStore struct {
	client *redis.Client
}

func NewRedisQuoteStore(client *redis.Client) *RedisQuoteStore {
	return &RedisQuoteStore{client: client}
}

func (s *RedisQuoteStore) Hold(ctx context.Context, q models.Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}
	if err := s.client.Set(ctx, utils.QuoteCachePrefix+q.OrderID, data, utils.QuoteTTL).Err(); err != nil {
		return fmt.Errorf("failed to store quote: %w", err)
	}
	return nil
}

func (s *RedisQuoteStore) Get(ctx context.Context, orderID string) (*models.Quote, error) {
	data, err := s.client.Get(ctx, utils.QuoteCachePrefix+orderID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q models.Quote
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return nil, fmt.Errorf("failed to parse held quote: %w", err)
	}
	return &q, nil
}

func (s *RedisQuoteStore) Discard(ctx context.Context, orderID string) error {
	return s.client.Del(ctx, utils.QuoteCachePrefix+orderID).Err()
}
