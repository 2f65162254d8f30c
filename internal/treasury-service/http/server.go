package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/treasury-service/dto"
	"github.com/radieske/prediction-market-poc/internal/treasury-service/repo"
)

// Repo define a interface de operações do ledger usadas pelo handler HTTP
type Repo interface {
	GetOrCreateAccount(ctx context.Context, owner, asset string) (accountID string, balance int64, err error)
	Deposit(ctx context.Context, owner, asset string, amount int64, externalRef string) (accountID string, newBalance int64, err error)
	Transfer(ctx context.Context, asset, from, to string, amount int64, externalRef string) error
	Balance(ctx context.Context, owner, asset string) (int64, error)
}

// Server expõe endpoints HTTP do ledger de ativos (treasury)
type Server struct {
	log  *zap.Logger
	repo Repo
}

// NewServer instancia o servidor HTTP do treasury
func NewServer(log *zap.Logger, repo Repo) *Server { return &Server{log: log, repo: repo} }

// Router retorna o mux HTTP com as rotas da API do treasury
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/treasury/balance", s.balance)   // GET ?owner=...&asset=...
	mux.HandleFunc("/treasury/account", s.account)   // GET ?owner=...&asset=...
	mux.HandleFunc("/treasury/deposit", s.deposit)   // POST
	mux.HandleFunc("/treasury/transfer", s.transfer) // POST
	return mux
}

// balance retorna o saldo do owner no asset (conta inexistente vale zero)
func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	asset := r.URL.Query().Get("asset")
	if owner == "" || asset == "" {
		http.Error(w, "owner and asset required", http.StatusBadRequest)
		return
	}
	bal, err := s.repo.Balance(r.Context(), owner, asset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.AccountResponse{Owner: owner, Asset: asset, Balance: bal})
}

// account retorna (ou cria) a conta do owner para o asset
func (s *Server) account(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	asset := r.URL.Query().Get("asset")
	if owner == "" || asset == "" {
		http.Error(w, "owner and asset required", http.StatusBadRequest)
		return
	}
	id, bal, err := s.repo.GetOrCreateAccount(r.Context(), owner, asset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.AccountResponse{Owner: owner, Asset: asset, AccountID: id, Balance: bal})
}

// deposit credita saldo na conta do owner
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Owner == "" || req.Asset == "" || req.Amount <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	id, bal, err := s.repo.Deposit(r.Context(), req.Owner, req.Asset, req.Amount, req.ExternalRef)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.AccountResponse{Owner: req.Owner, Asset: req.Asset, AccountID: id, Balance: bal})
}

// transfer move saldo entre duas contas do mesmo asset, atomicamente
func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Asset == "" || req.From == "" || req.To == "" || req.Amount <= 0 {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if err := s.repo.Transfer(r.Context(), req.Asset, req.From, req.To, req.Amount, req.ExternalRef); err != nil {
		if errors.Is(err, repo.ErrInsufficientFunds) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, dto.TransferResponse{Status: "TRANSFERRED"})
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
