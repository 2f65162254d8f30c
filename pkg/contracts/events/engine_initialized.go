package events

import "time"

// Evento emitido uma única vez, na inicialização do engine.
type EngineInitialized struct {
	Admin    string    `json:"admin"`
	Resolver string    `json:"resolver"`
	Asset    string    `json:"asset"`
	Ts       time.Time `json:"ts"`
}
