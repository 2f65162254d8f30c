package events

type BetPlaced struct {
	MarketID uint32 `json:"market_id"`
	User     string `json:"user"`
	Side     string `json:"side"` // "yes" | "no"
	Amount   int64  `json:"amount"`
	YesPool  int64  `json:"yes_pool"` // snapshot dos pools após a aposta
	NoPool   int64  `json:"no_pool"`
	TsUnixMs int64  `json:"ts_unix_ms"`
}
