package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda a resposta pronta de um bilhete no Redis
type Cache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *Cache { return &Cache{R: r, TTL: ttl} }

func keyTicket(id string) string { return "lotto:ticket:" + id }

// Get preenche dst com o valor em cache; false quando a chave não existe
func (c *Cache) Get(ctx context.Context, id string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyTicket(id)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) Set(ctx context.Context, id string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.R.Set(ctx, keyTicket(id), b, c.TTL).Err()
}
