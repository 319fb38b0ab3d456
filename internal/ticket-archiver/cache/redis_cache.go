package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

// RedisCache guarda o último evento arquivado de cada bilhete
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis do evento arquivado
func key(ticketID string) string { return "lotto:archived:" + ticketID }

// SetArchived grava o evento arquivado com TTL definido
func (r *RedisCache) SetArchived(ctx context.Context, e events.TicketGenerated) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(e.TicketID), b, r.TTL).Err()
}
