package repository

import (
	"context"
	"database/sql"

	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// PostgresRepo persiste as odds derivadas dos mercados
// DB: conexão com o banco de dados
type PostgresRepo struct {
	DB *sql.DB
}

// NewPostgresRepo retorna uma instância de repositório Postgres
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{DB: db}
}

// UpsertCurrent insere ou atualiza as odds correntes na tabela market_odds_current
// Utiliza ON CONFLICT para garantir atomicidade e evitar duplicidade por market_id
func (r *PostgresRepo) UpsertCurrent(ctx context.Context, o events.MarketOdds) error {
	const q = `
		INSERT INTO market_odds_current
		  (market_id, yes_pool, no_pool, yes_bps, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5)
		ON CONFLICT (market_id) DO UPDATE SET
		  yes_pool  = EXCLUDED.yes_pool,
		  no_pool   = EXCLUDED.no_pool,
		  yes_bps   = EXCLUDED.yes_bps,
		  updated_at= EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, q,
		o.MarketID, o.YesPool, o.NoPool, o.YesBps, o.UpdatedAt,
	)
	return err
}

// InsertHistory insere um snapshot no histórico de odds (market_odds_history)
func (r *PostgresRepo) InsertHistory(ctx context.Context, o events.MarketOdds) error {
	const q = `
		INSERT INTO market_odds_history
		  (market_id, yes_pool, no_pool, yes_bps, updated_at)
		VALUES
		  ($1,$2,$3,$4,$5)
	`
	_, err := r.DB.ExecContext(ctx, q,
		o.MarketID, o.YesPool, o.NoPool, o.YesBps, o.UpdatedAt,
	)
	return err
}
