package store

import (
	"context"
	"database/sql"

	"github.com/radieske/prediction-market-poc/internal/market-service/engine"
)

// Persistent é o nível durável de armazenamento (mercados e stakes),
// uma tabela chave-valor no Postgres com upsert por chave.
type Persistent struct {
	DB *sql.DB
}

func NewPersistent(db *sql.DB) *Persistent { return &Persistent{DB: db} }

func (p *Persistent) PersistentGet(ctx context.Context, k engine.DataKey) ([]byte, bool, error) {
	var v []byte
	err := p.DB.QueryRowContext(ctx, `SELECT v FROM engine_records WHERE k=$1`, k.String()).Scan(&v)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// PersistentSet insere ou atualiza o registro; ON CONFLICT garante
// atomicidade por chave, sem duplicidade.
func (p *Persistent) PersistentSet(ctx context.Context, k engine.DataKey, val []byte) error {
	const q = `
		INSERT INTO engine_records (k, v, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (k) DO UPDATE SET
		  v          = EXCLUDED.v,
		  updated_at = EXCLUDED.updated_at
	`
	_, err := p.DB.ExecContext(ctx, q, k.String(), val)
	return err
}

func (p *Persistent) PersistentHas(ctx context.Context, k engine.DataKey) (bool, error) {
	var one int
	err := p.DB.QueryRowContext(ctx, `SELECT 1 FROM engine_records WHERE k=$1`, k.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
