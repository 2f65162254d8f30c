package dto

type CreateMarketResponse struct {
	MarketID uint32 `json:"market_id"`
}

type MarketResponse struct {
	ID           uint32 `json:"id"`
	Question     string `json:"question"`
	Creator      string `json:"creator"`
	CloseTs      int64  `json:"close_ts"`
	ResolutionTs int64  `json:"resolution_ts"`
	Resolved     bool   `json:"resolved"`
	Outcome      string `json:"outcome"`
	YesPool      int64  `json:"yes_pool"`
	NoPool       int64  `json:"no_pool"`
}

type StakeResponse struct {
	MarketID uint32 `json:"market_id"`
	User     string `json:"user"`
	Yes      int64  `json:"yes"`
	No       int64  `json:"no"`
	Claimed  bool   `json:"claimed"`
}

type OddsResponse struct {
	MarketID uint32 `json:"market_id"`
	YesBps   uint32 `json:"yes_bps"` // fração YES em basis points [0,10000]
}

type ConfigResponse struct {
	Admin    string `json:"admin"`
	Resolver string `json:"resolver"`
	Asset    string `json:"asset"`
}

type BalanceResponse struct {
	User    string `json:"user"`
	Balance int64  `json:"balance"`
}

type AffordResponse struct {
	User      string `json:"user"`
	Amount    int64  `json:"amount"`
	CanAfford bool   `json:"can_afford"`
}

type CustodyResponse struct {
	Total int64 `json:"total"`
}

type ClaimResponse struct {
	MarketID uint32 `json:"market_id"`
	User     string `json:"user"`
	Payout   int64  `json:"payout"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
