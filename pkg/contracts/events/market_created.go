package events

import "time"

// Evento emitido pelo market-service quando um novo mercado é criado.
type MarketCreated struct {
	MarketID     uint32    `json:"market_id"`
	Creator      string    `json:"creator"`
	Question     string    `json:"question"`
	CloseTs      int64     `json:"close_ts"`
	ResolutionTs int64     `json:"resolution_ts"`
	Ts           time.Time `json:"ts"`
}
