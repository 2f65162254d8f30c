package dto

type DepositRequest struct {
	Owner       string `json:"owner"`
	Asset       string `json:"asset"`
	Amount      int64  `json:"amount"`
	ExternalRef string `json:"external_ref,omitempty"` // opcional p/ rastreio
}

type TransferRequest struct {
	Asset       string `json:"asset"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      int64  `json:"amount"`
	ExternalRef string `json:"external_ref,omitempty"`
}
