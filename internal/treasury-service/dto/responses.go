package dto

type AccountResponse struct {
	Owner     string `json:"owner"`
	Asset     string `json:"asset"`
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

type TransferResponse struct {
	Status string `json:"status"` // "TRANSFERRED"
}
