package properties

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "renamer"

// RedisBackend stores each property as a plain string key renamer:{scope}:{key}.
type RedisBackend struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisClient dials and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}
	return client, nil
}

func NewRedisBackend(client *redis.Client, logger *slog.Logger) *RedisBackend {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisBackend{client: client, logger: logger}
}

func redisKey(scope, key string) string {
	return redisKeyPrefix + ":" + scope + ":" + key
}

func (b *RedisBackend) Get(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := b.client.Get(ctx, redisKey(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		b.logger.Error("redis get failed", "scope", scope, "key", key, "error", err)
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes without expiry; marks are never removed.
func (b *RedisBackend) Set(ctx context.Context, scope, key, value string) error {
	if err := b.client.Set(ctx, redisKey(scope, key), value, 0).Err(); err != nil {
		b.logger.Error("redis set failed", "scope", scope, "key", key, "error", err)
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
