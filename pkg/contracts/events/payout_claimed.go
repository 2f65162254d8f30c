package events

import "time"

type PayoutClaimed struct {
	MarketID uint32    `json:"market_id"`
	User     string    `json:"user"`
	Amount   int64     `json:"amount"`
	Ts       time.Time `json:"ts"`
}
