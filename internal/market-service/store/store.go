package store

import (
	"database/sql"

	"github.com/redis/go-redis/v9"
)

// Store compõe os dois níveis de durabilidade do engine:
// configuração de instância no Redis, registros por entidade no Postgres.
type Store struct {
	*Instance
	*Persistent
}

func New(rdb *redis.Client, db *sql.DB) *Store {
	return &Store{
		Instance:   NewInstance(rdb),
		Persistent: NewPersistent(db),
	}
}
