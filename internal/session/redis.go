// ABOUTME: Redis-backed session storage
// ABOUTME: Lets several machines or CI runners share one session record

package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists the record under <prefix>auth-storage
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a client and checks connectivity
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisStorage wraps an existing client. Close closes the client.
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

func (r *RedisStorage) key() string {
	return r.prefix + StorageKey
}

func (r *RedisStorage) Load(ctx context.Context) (*Persisted, error) {
	result, err := r.client.Get(ctx, r.key()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var p Persisted
	if err := json.Unmarshal([]byte(result), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RedisStorage) Save(ctx context.Context, p Persisted) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(), payload, 0).Err()
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}

func (r *RedisStorage) Close() error {
	return r.client.Close()
}
