// internal/store/redis.go
// Redis-backed local store.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "amoretrack:collection:"

// RedisStore persists each collection under a prefixed key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, collection string) ([]byte, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+collection).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	return payload, nil
}

func (s *RedisStore) Set(ctx context.Context, collection string, payload []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+collection, payload, 0).Err(); err != nil {
		// Redis reports maxmemory exhaustion as an OOM command error.
		if strings.Contains(err.Error(), "OOM") {
			return fmt.Errorf("writing collection %s: %w", collection, ErrQuotaExceeded)
		}
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	return nil
}
