package events

import "time"

// Snapshot de odds derivado dos pools de um mercado, produzido pelo
// market-feed-worker a partir dos eventos bet_placed e distribuído
// via cache/pub-sub para os clientes.
type MarketOdds struct {
	MarketID  uint32    `json:"market_id"`
	YesPool   int64     `json:"yes_pool"`
	NoPool    int64     `json:"no_pool"`
	YesBps    uint32    `json:"yes_bps"` // fração YES em basis points
	UpdatedAt time.Time `json:"updated_at"`
}
