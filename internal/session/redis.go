package session

import (
	"context"
	"fmt"
	"time"

	"frontdesk/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisPersistence keeps the session entries in Redis under a shared
// prefix, with a TTL so abandoned sessions expire on their own.
type RedisPersistence struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisPersistence(client *redis.Client, ttl time.Duration) *RedisPersistence {
	return &RedisPersistence{client: client, ttl: ttl}
}

func (p *RedisPersistence) Get(key string) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("redis client is nil")
	}
	val, err := p.client.Get(context.Background(), p.storageKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session entry from redis: %w", err)
	}
	return val, nil
}

func (p *RedisPersistence) Set(key, value string) error {
	if p.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := p.client.Set(context.Background(), p.storageKey(key), value, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session entry in redis: %w", err)
	}
	return nil
}

func (p *RedisPersistence) Delete(key string) error {
	if p.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := p.client.Del(context.Background(), p.storageKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session entry from redis: %w", err)
	}
	return nil
}

func (p *RedisPersistence) storageKey(key string) string {
	return fmt.Sprintf("session:%s", key)
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
