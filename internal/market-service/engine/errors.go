package engine

import "errors"

// Taxonomia de erros do engine. Cada operação valida antes de mutar:
// a primeira pré-condição que falhar aborta a chamada sem efeitos colaterais.
var (
	ErrNotInitialized     = errors.New("engine not initialized")
	ErrAlreadyInitialized = errors.New("engine already initialized")
	ErrNotResolver        = errors.New("caller is not the resolver")
	ErrNotAdmin           = errors.New("caller is not the admin") // reservado, nenhuma operação é admin-only
	ErrMarketClosed       = errors.New("market closed")           // reservado, BetsClosed cobre o caso
	ErrBetsClosed         = errors.New("bets closed")
	ErrAlreadyResolved    = errors.New("market already resolved")
	ErrNotResolved        = errors.New("market not resolved")
	ErrNothingToClaim     = errors.New("nothing to claim")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidTime        = errors.New("invalid time")
	ErrMarketNotFound     = errors.New("market not found")
)
