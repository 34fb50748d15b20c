package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vindepemarte/Kiro-App-1-sub000/pkg/config"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Ledger reserves idempotency keys so side-effect sends happen at most once.
type Ledger interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLedger implements Ledger on Redis SETNX with TTL, shared across
// processes.
type RedisLedger struct {
	client *redis.Client
	prefix string
}

// NewRedisLedger creates a ledger namespaced under prefix.
func NewRedisLedger(client *redis.Client, prefix string) *RedisLedger {
	return &RedisLedger{client: client, prefix: prefix}
}

// Reserve claims key for ttl; false means another send already claimed it.
func (l *RedisLedger) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.prefix+":"+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("ledger reserve failed: %w", err)
	}
	return ok, nil
}
