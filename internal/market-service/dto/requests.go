package dto

type InitRequest struct {
	Admin    string `json:"admin"`
	Resolver string `json:"resolver"`
	Asset    string `json:"asset"`
}

type CreateMarketRequest struct {
	Creator      string `json:"creator"`
	Question     string `json:"question"`
	CloseTs      int64  `json:"close_ts"`      // unix segundos
	ResolutionTs int64  `json:"resolution_ts"` // unix segundos, > close_ts
}

type PlaceBetRequest struct {
	User   string `json:"user"`
	Side   string `json:"side"` // "yes" | "no"
	Amount int64  `json:"amount"`
}

type ResolveRequest struct {
	Outcome string `json:"outcome"` // "yes" | "no" | "invalid"
}

type ClaimRequest struct {
	User string `json:"user"`
}
