package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache простой read-through кэш поверх Redis с JSON-сериализацией
// Используется интеграционными клиентами для кэширования редко меняющихся
// справочных данных (каталог объектов)
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кэш с заданным TTL
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get читает значение по ключу и анмаршалит его в dest
// Возвращает false, если ключа нет (cache miss)
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("rediscache: get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("rediscache: unmarshal %q: %w", key, err)
	}

	return true, nil
}

// Set сохраняет значение по ключу с TTL кэша
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("rediscache: marshal %q: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("rediscache: set %q: %w", key, err)
	}

	return nil
}

// Delete удаляет ключ из кэша
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("rediscache: delete %q: %w", key, err)
	}
	return nil
}
