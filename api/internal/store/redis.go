package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis so several bot instances can share
// them. Entries have no TTL: a key lives until /forget_key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func apiKeyKey(userID int64) string {
	return fmt.Sprintf("session:key:%d", userID)
}

func pendingKey(userID int64) string {
	return fmt.Sprintf("session:pending:%d", userID)
}

func (s *RedisStore) SetKey(ctx context.Context, userID int64, apiKey string) error {
	return s.client.Set(ctx, apiKeyKey(userID), apiKey, 0).Err()
}

func (s *RedisStore) GetKey(ctx context.Context, userID int64) (string, error) {
	val, err := s.client.Get(ctx, apiKeyKey(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisStore) DeleteKey(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, apiKeyKey(userID)).Err()
}

func (s *RedisStore) MarkPending(ctx context.Context, userID int64) error {
	return s.client.Set(ctx, pendingKey(userID), "1", 0).Err()
}

func (s *RedisStore) ClearPending(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, pendingKey(userID)).Err()
}

func (s *RedisStore) IsPending(ctx context.Context, userID int64) (bool, error) {
	n, err := s.client.Exists(ctx, pendingKey(userID)).Result()
	return n > 0, err
}
