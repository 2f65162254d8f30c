package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/auth"
	"github.com/radieske/prediction-market-poc/internal/market-service/engine"
	marketshttp "github.com/radieske/prediction-market-poc/internal/market-service/http"
	"github.com/radieske/prediction-market-poc/internal/market-service/store"
)

type stubTreasury struct {
	balances map[string]int64
}

func (s *stubTreasury) Transfer(_ context.Context, _, from, to string, amount int64) error {
	if s.balances[from] < amount {
		return errors.New("insufficient funds")
	}
	s.balances[from] -= amount
	s.balances[to] += amount
	return nil
}

func (s *stubTreasury) Balance(_ context.Context, _, owner string) (int64, error) {
	return s.balances[owner], nil
}

type stubClock struct{ now int64 }

func (c *stubClock) Now() int64 { return c.now }

type testAPI struct {
	srv   *httptest.Server
	tr    *stubTreasury
	clock *stubClock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	tr := &stubTreasury{balances: map[string]int64{}}
	clock := &stubClock{now: 1_000_000}
	eng := engine.New(zap.NewNop(), store.NewMemory(), tr, auth.NewHMAC(""), clock, nil, "custody")
	api := marketshttp.NewServer(zap.NewNop(), eng)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, tr: tr, clock: clock}
}

func (a *testAPI) post(t *testing.T, path string, body any) (*nethttp.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := nethttp.Post(a.srv.URL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp, decode(t, resp)
}

func (a *testAPI) get(t *testing.T, path string) (*nethttp.Response, map[string]any) {
	t.Helper()
	resp, err := nethttp.Get(a.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func (a *testAPI) init(t *testing.T) {
	t.Helper()
	resp, _ := a.post(t, "/v1/admin/init", map[string]string{
		"admin": "admin", "resolver": "oracle", "asset": "KALE",
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("init status=%d want=200", resp.StatusCode)
	}
}

func (a *testAPI) createMarket(t *testing.T) uint32 {
	t.Helper()
	resp, body := a.post(t, "/v1/markets", map[string]any{
		"creator":       "carol",
		"question":      "will it rain tomorrow?",
		"close_ts":      a.clock.now + 3600,
		"resolution_ts": a.clock.now + 7200,
	})
	if resp.StatusCode != nethttp.StatusCreated {
		t.Fatalf("create status=%d want=201 body=%v", resp.StatusCode, body)
	}
	return uint32(body["market_id"].(float64))
}

func TestFullMarketFlow(t *testing.T) {
	a := newTestAPI(t)
	a.init(t)
	a.tr.balances["alice"] = 1000
	a.tr.balances["bob"] = 3000

	id := a.createMarket(t)

	resp, _ := a.post(t, fmt.Sprintf("/v1/markets/%d/bets", id), map[string]any{
		"user": "alice", "side": "yes", "amount": 1000,
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("bet status=%d want=200", resp.StatusCode)
	}
	resp, _ = a.post(t, fmt.Sprintf("/v1/markets/%d/bets", id), map[string]any{
		"user": "bob", "side": "no", "amount": 3000,
	})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("bet status=%d want=200", resp.StatusCode)
	}

	// pools e odds refletem as apostas
	resp, body := a.get(t, fmt.Sprintf("/v1/markets/%d", id))
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("get market status=%d want=200", resp.StatusCode)
	}
	if body["yes_pool"].(float64) != 1000 || body["no_pool"].(float64) != 3000 {
		t.Fatalf("pools=%v", body)
	}
	_, body = a.get(t, fmt.Sprintf("/v1/markets/%d/odds", id))
	if body["yes_bps"].(float64) != 2500 {
		t.Fatalf("yes_bps=%v want=2500", body["yes_bps"])
	}

	// resolve NO depois de resolution_ts
	a.clock.now += 7200
	resp, _ = a.post(t, fmt.Sprintf("/v1/markets/%d/resolve", id), map[string]string{"outcome": "no"})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("resolve status=%d want=200", resp.StatusCode)
	}

	// bob leva o pool inteiro
	resp, body = a.post(t, fmt.Sprintf("/v1/markets/%d/claims", id), map[string]string{"user": "bob"})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("claim status=%d want=200 body=%v", resp.StatusCode, body)
	}
	if body["payout"].(float64) != 4000 {
		t.Fatalf("payout=%v want=4000", body["payout"])
	}

	// segundo claim do mesmo usuário é rejeitado
	resp, body = a.post(t, fmt.Sprintf("/v1/markets/%d/claims", id), map[string]string{"user": "bob"})
	if resp.StatusCode != nethttp.StatusConflict || body["code"] != "NOTHING_TO_CLAIM" {
		t.Fatalf("second claim status=%d code=%v want=409 NOTHING_TO_CLAIM", resp.StatusCode, body["code"])
	}

	_, body = a.get(t, "/v1/balance?user=bob")
	if body["balance"].(float64) != 4000 {
		t.Fatalf("bob balance=%v want=4000", body["balance"])
	}
}

func TestInitConflictAndGating(t *testing.T) {
	a := newTestAPI(t)

	// antes do init as operações respondem 409 NOT_INITIALIZED
	resp, body := a.post(t, "/v1/markets", map[string]any{
		"creator": "carol", "question": "q", "close_ts": 2, "resolution_ts": 3,
	})
	if resp.StatusCode != nethttp.StatusConflict || body["code"] != "NOT_INITIALIZED" {
		t.Fatalf("status=%d code=%v want=409 NOT_INITIALIZED", resp.StatusCode, body["code"])
	}

	a.init(t)
	resp, body = a.post(t, "/v1/admin/init", map[string]string{
		"admin": "admin", "resolver": "oracle", "asset": "KALE",
	})
	if resp.StatusCode != nethttp.StatusConflict || body["code"] != "ALREADY_INITIALIZED" {
		t.Fatalf("status=%d code=%v want=409 ALREADY_INITIALIZED", resp.StatusCode, body["code"])
	}

	_, body = a.get(t, "/v1/config")
	if body["admin"] != "admin" || body["resolver"] != "oracle" || body["asset"] != "KALE" {
		t.Fatalf("config=%v", body)
	}
}

func TestBetErrorMapping(t *testing.T) {
	a := newTestAPI(t)
	a.init(t)
	id := a.createMarket(t)
	a.tr.balances["alice"] = 1000

	// mercado inexistente
	resp, body := a.post(t, "/v1/markets/999/bets", map[string]any{
		"user": "alice", "side": "yes", "amount": 100,
	})
	if resp.StatusCode != nethttp.StatusNotFound || body["code"] != "MARKET_NOT_FOUND" {
		t.Fatalf("status=%d code=%v want=404 MARKET_NOT_FOUND", resp.StatusCode, body["code"])
	}

	// lado inválido nem chega ao engine
	resp, _ = a.post(t, fmt.Sprintf("/v1/markets/%d/bets", id), map[string]any{
		"user": "alice", "side": "maybe", "amount": 100,
	})
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("status=%d want=400", resp.StatusCode)
	}

	// valor não positivo
	resp, body = a.post(t, fmt.Sprintf("/v1/markets/%d/bets", id), map[string]any{
		"user": "alice", "side": "yes", "amount": 0,
	})
	if resp.StatusCode != nethttp.StatusBadRequest || body["code"] != "INVALID_AMOUNT" {
		t.Fatalf("status=%d code=%v want=400 INVALID_AMOUNT", resp.StatusCode, body["code"])
	}

	// janela fechada
	a.clock.now += 3600
	resp, body = a.post(t, fmt.Sprintf("/v1/markets/%d/bets", id), map[string]any{
		"user": "alice", "side": "yes", "amount": 100,
	})
	if resp.StatusCode != nethttp.StatusConflict || body["code"] != "BETS_CLOSED" {
		t.Fatalf("status=%d code=%v want=409 BETS_CLOSED", resp.StatusCode, body["code"])
	}

	// id não numérico
	resp, _ = a.post(t, "/v1/markets/abc/bets", map[string]any{
		"user": "alice", "side": "yes", "amount": 100,
	})
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("status=%d want=400", resp.StatusCode)
	}
}

func TestResolveAndClaimErrorMapping(t *testing.T) {
	a := newTestAPI(t)
	a.init(t)
	id := a.createMarket(t)

	// resolve antes da hora
	resp, body := a.post(t, fmt.Sprintf("/v1/markets/%d/resolve", id), map[string]string{"outcome": "yes"})
	if resp.StatusCode != nethttp.StatusBadRequest || body["code"] != "INVALID_TIME" {
		t.Fatalf("status=%d code=%v want=400 INVALID_TIME", resp.StatusCode, body["code"])
	}

	// claim antes da resolução
	resp, body = a.post(t, fmt.Sprintf("/v1/markets/%d/claims", id), map[string]string{"user": "alice"})
	if resp.StatusCode != nethttp.StatusConflict || body["code"] != "NOT_RESOLVED" {
		t.Fatalf("status=%d code=%v want=409 NOT_RESOLVED", resp.StatusCode, body["code"])
	}

	a.clock.now += 7200
	resp, _ = a.post(t, fmt.Sprintf("/v1/markets/%d/resolve", id), map[string]string{"outcome": "yes"})
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("resolve status=%d want=200", resp.StatusCode)
	}
	resp, body = a.post(t, fmt.Sprintf("/v1/markets/%d/resolve", id), map[string]string{"outcome": "no"})
	if resp.StatusCode != nethttp.StatusConflict || body["code"] != "ALREADY_RESOLVED" {
		t.Fatalf("status=%d code=%v want=409 ALREADY_RESOLVED", resp.StatusCode, body["code"])
	}

	// outcome fora do vocabulário
	resp, _ = a.post(t, fmt.Sprintf("/v1/markets/%d/resolve", id), map[string]string{"outcome": "draw"})
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("status=%d want=400", resp.StatusCode)
	}
}

func TestStakeAndAffordQueries(t *testing.T) {
	a := newTestAPI(t)
	a.init(t)
	id := a.createMarket(t)
	a.tr.balances["alice"] = 500

	// stake inexistente vem zerada, não 404
	resp, body := a.get(t, fmt.Sprintf("/v1/markets/%d/stakes/alice", id))
	if resp.StatusCode != nethttp.StatusOK {
		t.Fatalf("stake status=%d want=200", resp.StatusCode)
	}
	if body["yes"].(float64) != 0 || body["no"].(float64) != 0 || body["claimed"].(bool) {
		t.Fatalf("stake=%v want zero", body)
	}

	_, body = a.get(t, "/v1/can-afford?user=alice&amount=500")
	if body["can_afford"] != true {
		t.Fatalf("can_afford=%v want=true", body["can_afford"])
	}
	_, body = a.get(t, "/v1/can-afford?user=alice&amount=501")
	if body["can_afford"] != false {
		t.Fatalf("can_afford=%v want=false", body["can_afford"])
	}

	resp, _ = a.get(t, "/v1/can-afford?user=alice")
	if resp.StatusCode != nethttp.StatusBadRequest {
		t.Fatalf("missing amount status=%d want=400", resp.StatusCode)
	}
}
