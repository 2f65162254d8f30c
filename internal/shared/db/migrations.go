package db

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS engine_records (
    k          TEXT PRIMARY KEY,
    v          BYTEA NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS treasury_accounts (
    id      UUID PRIMARY KEY,
    owner   TEXT NOT NULL,
    asset   TEXT NOT NULL,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    version BIGINT NOT NULL DEFAULT 1,
    UNIQUE (owner, asset)
);

CREATE TABLE IF NOT EXISTS treasury_ledger (
    id             BIGSERIAL PRIMARY KEY,
    account_id     UUID NOT NULL REFERENCES treasury_accounts(id),
    operation_type TEXT NOT NULL,
    amount         BIGINT NOT NULL,
    description    TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS market_odds_current (
    market_id  BIGINT PRIMARY KEY,
    yes_pool   BIGINT NOT NULL,
    no_pool    BIGINT NOT NULL,
    yes_bps    INT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS market_odds_history (
    id         BIGSERIAL PRIMARY KEY,
    market_id  BIGINT NOT NULL,
    yes_pool   BIGINT NOT NULL,
    no_pool    BIGINT NOT NULL,
    yes_bps    INT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_market_odds_history_market
    ON market_odds_history (market_id, updated_at);
`

// Migrate aplica o esquema; idempotente via IF NOT EXISTS.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
