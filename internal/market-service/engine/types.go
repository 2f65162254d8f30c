package engine

// Outcome é o desfecho declarado de um mercado.
// Invalid é o placeholder antes da resolução e também o desfecho de reembolso.
type Outcome string

const (
	OutcomeYes     Outcome = "yes"
	OutcomeNo      Outcome = "no"
	OutcomeInvalid Outcome = "invalid"
)

// Side é o lado escolhido numa aposta.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Market é o registro persistido de um mercado binário.
// yes_pool/no_pool acumulam o total apostado em cada lado, na moeda de aposta.
type Market struct {
	ID           uint32  `json:"id"`
	Question     string  `json:"question"`
	Creator      string  `json:"creator"`
	CloseTs      int64   `json:"close_ts"`      // apostas fecham (exclusivo)
	ResolutionTs int64   `json:"resolution_ts"` // resolução permitida a partir daqui
	Resolved     bool    `json:"resolved"`
	Outcome      Outcome `json:"outcome"` // só tem significado quando Resolved
	YesPool      int64   `json:"yes_pool"`
	NoPool       int64   `json:"no_pool"`
}

// Stake é a posição acumulada de um participante num mercado.
// Criada implicitamente com valores zero na primeira leitura.
type Stake struct {
	Yes     int64 `json:"yes"`
	No      int64 `json:"no"`
	Claimed bool  `json:"claimed"`
}
