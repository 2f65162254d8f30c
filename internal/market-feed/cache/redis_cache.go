package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// RedisCache encapsula o cache das odds correntes por mercado
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

// key gera a chave Redis para as odds correntes de um mercado
func key(marketID uint32) string { return fmt.Sprintf("market:odds:current:%d", marketID) }

// SetCurrent armazena o snapshot de odds de um mercado com TTL definido
func (r *RedisCache) SetCurrent(ctx context.Context, o events.MarketOdds) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(o.MarketID), b, r.TTL).Err()
}

// GetCurrent lê o snapshot corrente de um mercado; false se não cacheado
func (r *RedisCache) GetCurrent(ctx context.Context, marketID uint32) (events.MarketOdds, bool, error) {
	b, err := r.Client.Get(ctx, key(marketID)).Bytes()
	if err == redis.Nil {
		return events.MarketOdds{}, false, nil
	}
	if err != nil {
		return events.MarketOdds{}, false, err
	}
	var o events.MarketOdds
	if err := json.Unmarshal(b, &o); err != nil {
		return events.MarketOdds{}, false, err
	}
	return o, true, nil
}
