package topics

const (
	// Ciclo de vida do engine/mercados
	EngineInit     = "engine_init"
	MarketCreated  = "market_created"
	MarketResolved = "market_resolved"

	// Apostas e pagamentos
	BetPlaced     = "bet_placed"
	PayoutClaimed = "payout_claimed"

	// DLQs
	BetPlacedDLQ = "bet_placed_dlq"
)
