package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/prediction-market-poc/internal/market-service/engine"
)

// Instance é o nível barato de armazenamento (configuração singleton e
// contador de ids), guardado no Redis sem TTL.
type Instance struct {
	R *redis.Client
}

func NewInstance(r *redis.Client) *Instance { return &Instance{R: r} }

// key gera a chave Redis para uma DataKey do engine
func key(k engine.DataKey) string { return "engine:" + k.String() }

func (s *Instance) InstanceGet(ctx context.Context, k engine.DataKey) ([]byte, bool, error) {
	b, err := s.R.Get(ctx, key(k)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Instance) InstanceSet(ctx context.Context, k engine.DataKey, val []byte) error {
	return s.R.Set(ctx, key(k), val, 0).Err()
}

func (s *Instance) InstanceHas(ctx context.Context, k engine.DataKey) (bool, error) {
	n, err := s.R.Exists(ctx, key(k)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
