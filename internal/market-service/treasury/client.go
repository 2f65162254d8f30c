package treasury

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client fala com o treasury-service via HTTP e implementa a capacidade
// Treasury do engine (transferência de escrow e consulta de saldo).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

type transferRequest struct {
	Asset       string `json:"asset"`
	From        string `json:"from"`
	To          string `json:"to"`
	Amount      int64  `json:"amount"`
	ExternalRef string `json:"external_ref,omitempty"`
}

type accountResponse struct {
	Owner   string `json:"owner"`
	Asset   string `json:"asset"`
	Balance int64  `json:"balance"`
}

func (c *Client) Transfer(ctx context.Context, asset, from, to string, amount int64) error {
	body, _ := json.Marshal(transferRequest{Asset: asset, From: from, To: to, Amount: amount})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/treasury/transfer", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("treasury transfer http %d", res.StatusCode)
	}
	return nil
}

func (c *Client) Balance(ctx context.Context, asset, owner string) (int64, error) {
	q := url.Values{}
	q.Set("owner", owner)
	q.Set("asset", asset)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/treasury/balance?"+q.Encode(), nil)
	res, err := c.HTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("treasury balance http %d", res.StatusCode)
	}
	var out accountResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}
