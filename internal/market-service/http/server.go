package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/auth"
	"github.com/radieske/prediction-market-poc/internal/market-service/dto"
	"github.com/radieske/prediction-market-poc/internal/market-service/engine"
)

// Server expõe as operações públicas do engine via REST
type Server struct {
	log *zap.Logger
	eng *engine.Engine

	// handler opcional do stream de odds (ws.Hub); nil desabilita /ws
	WSHandler http.HandlerFunc
}

func NewServer(log *zap.Logger, eng *engine.Engine) *Server {
	return &Server{log: log, eng: eng}
}

// Router retorna o roteador chi com as rotas públicas do market-service
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(withAuthToken)

	r.Post("/v1/admin/init", s.initialize)

	r.Post("/v1/markets", s.createMarket)
	r.Get("/v1/markets/{id}", s.getMarket)
	r.Get("/v1/markets/{id}/odds", s.getOdds)
	r.Get("/v1/markets/{id}/stakes/{user}", s.getStake)
	r.Post("/v1/markets/{id}/bets", s.placeBet)
	r.Post("/v1/markets/{id}/resolve", s.resolve)
	r.Post("/v1/markets/{id}/claims", s.claim)

	r.Get("/v1/config", s.getConfig)
	r.Get("/v1/balance", s.getBalance)
	r.Get("/v1/can-afford", s.canAfford)
	r.Get("/v1/custody", s.getCustody)

	if s.WSHandler != nil {
		r.Get("/ws", s.WSHandler)
	}
	return r
}

// withAuthToken repassa a credencial X-Auth-Token para o contexto,
// onde o Verifier do engine a encontra
func withAuthToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := r.Header.Get("X-Auth-Token"); tok != "" {
			r = r.WithContext(auth.WithToken(r.Context(), tok))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) initialize(w http.ResponseWriter, r *http.Request) {
	var req dto.InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json")
		return
	}
	if req.Admin == "" || req.Resolver == "" || req.Asset == "" {
		badRequest(w, "invalid payload")
		return
	}
	if err := s.eng.Initialize(r.Context(), req.Admin, req.Resolver, req.Asset); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "INITIALIZED"})
}

func (s *Server) createMarket(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMarketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json")
		return
	}
	if req.Creator == "" || req.Question == "" {
		badRequest(w, "invalid payload")
		return
	}
	id, err := s.eng.CreateMarket(r.Context(), req.Creator, req.Question, req.CloseTs, req.ResolutionTs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.CreateMarketResponse{MarketID: id})
}

func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	id, ok := marketID(w, r)
	if !ok {
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json")
		return
	}
	if req.User == "" {
		badRequest(w, "invalid payload")
		return
	}
	side, ok := parseSide(req.Side)
	if !ok {
		badRequest(w, "side must be yes or no")
		return
	}
	if err := s.eng.Bet(r.Context(), req.User, id, side, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "ACCEPTED"})
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := marketID(w, r)
	if !ok {
		return
	}
	var req dto.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json")
		return
	}
	outcome, ok := parseOutcome(req.Outcome)
	if !ok {
		badRequest(w, "outcome must be yes, no or invalid")
		return
	}
	if err := s.eng.Resolve(r.Context(), id, outcome); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StatusResponse{Status: "RESOLVED"})
}

func (s *Server) claim(w http.ResponseWriter, r *http.Request) {
	id, ok := marketID(w, r)
	if !ok {
		return
	}
	var req dto.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json")
		return
	}
	if req.User == "" {
		badRequest(w, "invalid payload")
		return
	}
	payout, err := s.eng.Claim(r.Context(), req.User, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ClaimResponse{MarketID: id, User: req.User, Payout: payout})
}

func (s *Server) getMarket(w http.ResponseWriter, r *http.Request) {
	id, ok := marketID(w, r)
	if !ok {
		return
	}
	m, err := s.eng.GetMarket(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MarketResponse{
		ID: m.ID, Question: m.Question, Creator: m.Creator,
		CloseTs: m.CloseTs, ResolutionTs: m.ResolutionTs,
		Resolved: m.Resolved, Outcome: string(m.Outcome),
		YesPool: m.YesPool, NoPool: m.NoPool,
	})
}

func (s *Server) getOdds(w http.ResponseWriter, r *http.Request) {
	id, ok := marketID(w, r)
	if !ok {
		return
	}
	bps, err := s.eng.GetOdds(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.OddsResponse{MarketID: id, YesBps: bps})
}

func (s *Server) getStake(w http.ResponseWriter, r *http.Request) {
	id, ok := marketID(w, r)
	if !ok {
		return
	}
	user := chi.URLParam(r, "user")
	st, err := s.eng.GetStake(r.Context(), id, user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.StakeResponse{
		MarketID: id, User: user, Yes: st.Yes, No: st.No, Claimed: st.Claimed,
	})
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	admin, err := s.eng.GetAdmin(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	resolver, err := s.eng.GetResolver(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	asset, err := s.eng.GetAsset(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ConfigResponse{Admin: admin, Resolver: resolver, Asset: asset})
}

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		badRequest(w, "user required")
		return
	}
	bal, err := s.eng.GetBalance(r.Context(), user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{User: user, Balance: bal})
}

func (s *Server) canAfford(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if user == "" || err != nil {
		badRequest(w, "user and amount required")
		return
	}
	ok, err := s.eng.CanAfford(r.Context(), user, amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.AffordResponse{User: user, Amount: amount, CanAfford: ok})
}

func (s *Server) getCustody(w http.ResponseWriter, r *http.Request) {
	total, err := s.eng.GetTotalCustody(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.CustodyResponse{Total: total})
}

// -------------------------------
// Helpers
// -------------------------------

func marketID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(w, "invalid market id")
		return 0, false
	}
	return uint32(n), true
}

func parseSide(s string) (engine.Side, bool) {
	switch s {
	case "yes":
		return engine.SideYes, true
	case "no":
		return engine.SideNo, true
	}
	return "", false
}

func parseOutcome(s string) (engine.Outcome, bool) {
	switch s {
	case "yes":
		return engine.OutcomeYes, true
	case "no":
		return engine.OutcomeNo, true
	case "invalid":
		return engine.OutcomeInvalid, true
	}
	return "", false
}

// writeError mapeia os erros do engine para status HTTP e códigos estáveis
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, engine.ErrMarketNotFound):
		status, code = http.StatusNotFound, "MARKET_NOT_FOUND"
	case errors.Is(err, engine.ErrNotInitialized):
		status, code = http.StatusConflict, "NOT_INITIALIZED"
	case errors.Is(err, engine.ErrAlreadyInitialized):
		status, code = http.StatusConflict, "ALREADY_INITIALIZED"
	case errors.Is(err, engine.ErrNotResolver):
		status, code = http.StatusForbidden, "NOT_RESOLVER"
	case errors.Is(err, engine.ErrNotAdmin):
		status, code = http.StatusForbidden, "NOT_ADMIN"
	case errors.Is(err, engine.ErrBetsClosed):
		status, code = http.StatusConflict, "BETS_CLOSED"
	case errors.Is(err, engine.ErrMarketClosed):
		status, code = http.StatusConflict, "MARKET_CLOSED"
	case errors.Is(err, engine.ErrAlreadyResolved):
		status, code = http.StatusConflict, "ALREADY_RESOLVED"
	case errors.Is(err, engine.ErrNotResolved):
		status, code = http.StatusConflict, "NOT_RESOLVED"
	case errors.Is(err, engine.ErrNothingToClaim):
		status, code = http.StatusConflict, "NOTHING_TO_CLAIM"
	case errors.Is(err, engine.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, engine.ErrInvalidTime):
		status, code = http.StatusBadRequest, "INVALID_TIME"
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	default:
		s.log.Error("internal error", zap.Error(err))
	}
	writeJSON(w, status, dto.ErrorResponse{Error: err.Error(), Code: code})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msg, Code: "BAD_REQUEST"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
