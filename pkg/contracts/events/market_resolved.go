package events

import "time"

// Evento emitido quando o resolver declara o desfecho de um mercado.
type MarketResolved struct {
	MarketID uint32    `json:"market_id"`
	Outcome  string    `json:"outcome"` // "yes" | "no" | "invalid"
	Ts       time.Time `json:"ts"`
}
