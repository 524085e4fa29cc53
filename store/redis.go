package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs the ledger with Redis string keys. Keys already carry
// their domain prefixes (event:, ticket:), so values map one-to-one onto
// Redis keys with no extra namespacing.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	v, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		panic(fmt.Errorf("redis get %s: %w", key, err))
	}
	return v, true
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		panic(fmt.Errorf("redis set %s: %w", key, err))
	}
}

func (s *RedisStore) Contains(ctx context.Context, key string) bool {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		panic(fmt.Errorf("redis exists %s: %w", key, err))
	}
	return n > 0
}

func (s *RedisStore) Swap(ctx context.Context, keyA, keyB string) {
	va, okA := s.Get(ctx, keyA)
	vb, okB := s.Get(ctx, keyB)

	if okB {
		s.Put(ctx, keyA, vb)
	} else {
		s.del(ctx, keyA)
	}
	if okA {
		s.Put(ctx, keyB, va)
	} else {
		s.del(ctx, keyB)
	}
}

func (s *RedisStore) KeysWithPrefix(ctx context.Context, prefix string) []string {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		panic(fmt.Errorf("redis scan %s*: %w", prefix, err))
	}
	return keys
}

func (s *RedisStore) del(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		panic(fmt.Errorf("redis del %s: %w", key, err))
	}
}
