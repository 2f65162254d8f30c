package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// Store é o substrato chave-valor com dois níveis de durabilidade:
// Instance guarda configuração barata do processo (admin, resolver, asset, contador),
// Persistent guarda os registros duráveis por entidade (mercados, stakes).
type Store interface {
	InstanceGet(ctx context.Context, key DataKey) ([]byte, bool, error)
	InstanceSet(ctx context.Context, key DataKey, val []byte) error
	InstanceHas(ctx context.Context, key DataKey) (bool, error)

	PersistentGet(ctx context.Context, key DataKey) ([]byte, bool, error)
	PersistentSet(ctx context.Context, key DataKey, val []byte) error
	PersistentHas(ctx context.Context, key DataKey) (bool, error)
}

// Treasury é a capacidade externa de custódia do ativo de aposta.
type Treasury interface {
	Transfer(ctx context.Context, asset, from, to string, amount int64) error
	Balance(ctx context.Context, asset, owner string) (int64, error)
}

// Verifier é a capacidade externa de verificação de identidade.
// A credencial apresentada pelo chamador viaja no contexto.
type Verifier interface {
	RequireAuth(ctx context.Context, identity string) error
}

// Clock fornece o tempo corrente em segundos unix, monotônico não-decrescente.
type Clock interface {
	Now() int64
}

// Publisher emite os eventos observáveis do engine. Best-effort:
// falha de publicação não desfaz escritas de estado.
type Publisher interface {
	PublishEngineInitialized(ctx context.Context, e events.EngineInitialized) error
	PublishMarketCreated(ctx context.Context, e events.MarketCreated) error
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishMarketResolved(ctx context.Context, e events.MarketResolved) error
	PublishPayoutClaimed(ctx context.Context, e events.PayoutClaimed) error
}

// Engine é a máquina de estados de liquidação: registro de configuração
// init-once, ciclo de vida de mercados, ledger de stakes e claims pari-mutuel.
// Assume execução serializada pelo ambiente; não faz locking próprio.
type Engine struct {
	log      *zap.Logger
	store    Store
	treasury Treasury
	auth     Verifier
	clock    Clock
	publ     Publisher
	custody  string // conta de custódia (escrow) no treasury
}

func New(log *zap.Logger, s Store, t Treasury, a Verifier, c Clock, p Publisher, custody string) *Engine {
	return &Engine{log: log, store: s, treasury: t, auth: a, clock: c, publ: p, custody: custody}
}

// -------------------------------
// Helpers de armazenamento
// -------------------------------

func (e *Engine) requireInitialized(ctx context.Context) error {
	ok, err := e.store.InstanceHas(ctx, KeyAsset())
	if err != nil {
		return fmt.Errorf("store has: %w", err)
	}
	if !ok {
		return ErrNotInitialized
	}
	return nil
}

func (e *Engine) readString(ctx context.Context, key DataKey) (string, error) {
	b, ok, err := e.store.InstanceGet(ctx, key)
	if err != nil {
		return "", fmt.Errorf("store get %s: %w", key, err)
	}
	if !ok {
		return "", ErrNotInitialized
	}
	return string(b), nil
}

func (e *Engine) readCounter(ctx context.Context) (uint32, error) {
	b, ok, err := e.store.InstanceGet(ctx, KeyNextMarketID())
	if err != nil {
		return 0, fmt.Errorf("store get counter: %w", err)
	}
	if !ok {
		return 0, ErrNotInitialized
	}
	n, err := strconv.ParseUint(string(b), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse counter: %w", err)
	}
	return uint32(n), nil
}

func (e *Engine) writeCounter(ctx context.Context, n uint32) error {
	return e.store.InstanceSet(ctx, KeyNextMarketID(), []byte(strconv.FormatUint(uint64(n), 10)))
}

func (e *Engine) readMarket(ctx context.Context, id uint32) (Market, error) {
	b, ok, err := e.store.PersistentGet(ctx, KeyMarket(id))
	if err != nil {
		return Market{}, fmt.Errorf("store get market: %w", err)
	}
	if !ok {
		return Market{}, ErrMarketNotFound
	}
	var m Market
	if err := json.Unmarshal(b, &m); err != nil {
		return Market{}, fmt.Errorf("decode market: %w", err)
	}
	return m, nil
}

func (e *Engine) writeMarket(ctx context.Context, m Market) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode market: %w", err)
	}
	return e.store.PersistentSet(ctx, KeyMarket(m.ID), b)
}

// readStake retorna a stake persistida ou o default zero/não-reivindicado.
// Lookup-or-default mantém bet/claim/get_stake livres de nil.
func (e *Engine) readStake(ctx context.Context, id uint32, user string) (Stake, error) {
	b, ok, err := e.store.PersistentGet(ctx, KeyStake(id, user))
	if err != nil {
		return Stake{}, fmt.Errorf("store get stake: %w", err)
	}
	if !ok {
		return Stake{}, nil
	}
	var s Stake
	if err := json.Unmarshal(b, &s); err != nil {
		return Stake{}, fmt.Errorf("decode stake: %w", err)
	}
	return s, nil
}

func (e *Engine) writeStake(ctx context.Context, id uint32, user string, s Stake) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode stake: %w", err)
	}
	return e.store.PersistentSet(ctx, KeyStake(id, user), b)
}

// -------------------------------
// Validações
// -------------------------------

func (e *Engine) validateMarketTiming(closeTs, resolutionTs int64) error {
	if closeTs <= e.clock.Now() {
		return ErrInvalidTime
	}
	if resolutionTs <= closeTs {
		return ErrInvalidTime
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// -------------------------------
// Operações
// -------------------------------

// Initialize grava a configuração singleton: admin, resolver e o ativo de
// aposta. Pode ser chamada com sucesso exatamente uma vez.
func (e *Engine) Initialize(ctx context.Context, admin, resolver, asset string) error {
	ok, err := e.store.InstanceHas(ctx, KeyAsset())
	if err != nil {
		return fmt.Errorf("store has: %w", err)
	}
	if ok {
		return ErrAlreadyInitialized
	}

	if err := e.auth.RequireAuth(ctx, admin); err != nil {
		return fmt.Errorf("auth: %w", err)
	}

	if err := e.store.InstanceSet(ctx, KeyAdmin(), []byte(admin)); err != nil {
		return fmt.Errorf("store set admin: %w", err)
	}
	if err := e.store.InstanceSet(ctx, KeyResolver(), []byte(resolver)); err != nil {
		return fmt.Errorf("store set resolver: %w", err)
	}
	if err := e.store.InstanceSet(ctx, KeyAsset(), []byte(asset)); err != nil {
		return fmt.Errorf("store set asset: %w", err)
	}
	if err := e.writeCounter(ctx, 1); err != nil {
		return fmt.Errorf("store set counter: %w", err)
	}

	e.publish(ctx, "engine_initialized", func(ctx context.Context) error {
		return e.publ.PublishEngineInitialized(ctx, events.EngineInitialized{
			Admin: admin, Resolver: resolver, Asset: asset,
		})
	})
	e.log.Info("engine initialized", zap.String("admin", admin), zap.String("resolver", resolver), zap.String("asset", asset))
	return nil
}

// CreateMarket aloca o próximo id e persiste um mercado novo com pools zerados.
// Qualquer identidade autenticada pode criar mercados.
func (e *Engine) CreateMarket(ctx context.Context, creator, question string, closeTs, resolutionTs int64) (uint32, error) {
	if err := e.requireInitialized(ctx); err != nil {
		return 0, err
	}
	if err := e.auth.RequireAuth(ctx, creator); err != nil {
		return 0, fmt.Errorf("auth: %w", err)
	}
	if err := e.validateMarketTiming(closeTs, resolutionTs); err != nil {
		return 0, err
	}

	id, err := e.readCounter(ctx)
	if err != nil {
		return 0, err
	}

	m := Market{
		ID:           id,
		Question:     question,
		Creator:      creator,
		CloseTs:      closeTs,
		ResolutionTs: resolutionTs,
		Resolved:     false,
		Outcome:      OutcomeInvalid, // placeholder até a resolução
		YesPool:      0,
		NoPool:       0,
	}
	if err := e.writeMarket(ctx, m); err != nil {
		return 0, err
	}
	if err := e.writeCounter(ctx, id+1); err != nil {
		return 0, err
	}

	e.publish(ctx, "market_created", func(ctx context.Context) error {
		return e.publ.PublishMarketCreated(ctx, events.MarketCreated{
			MarketID: id, Creator: creator, Question: question,
			CloseTs: closeTs, ResolutionTs: resolutionTs,
		})
	})
	e.log.Info("market created", zap.Uint32("market_id", id), zap.String("creator", creator))
	return id, nil
}

// Bet aceita uma aposta num mercado ainda aberto. Move o valor para a
// custódia via treasury e só então incrementa pool e stake do lado escolhido.
func (e *Engine) Bet(ctx context.Context, user string, marketID uint32, side Side, amount int64) error {
	if err := e.requireInitialized(ctx); err != nil {
		return err
	}
	if err := e.auth.RequireAuth(ctx, user); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := validateAmount(amount); err != nil {
		return err
	}

	m, err := e.readMarket(ctx, marketID)
	if err != nil {
		return err
	}
	if e.clock.Now() >= m.CloseTs {
		return ErrBetsClosed
	}

	asset, err := e.readString(ctx, KeyAsset())
	if err != nil {
		return err
	}

	// Escrow: transferência falhou => nada de estado é mutado
	if err := e.treasury.Transfer(ctx, asset, user, e.custody, amount); err != nil {
		return fmt.Errorf("escrow transfer: %w", err)
	}

	s, err := e.readStake(ctx, marketID, user)
	if err != nil {
		return err
	}
	if side == SideYes {
		m.YesPool += amount
		s.Yes += amount
	} else {
		m.NoPool += amount
		s.No += amount
	}

	if err := e.writeMarket(ctx, m); err != nil {
		return err
	}
	if err := e.writeStake(ctx, marketID, user, s); err != nil {
		return err
	}

	e.publish(ctx, "bet_placed", func(ctx context.Context) error {
		return e.publ.PublishBetPlaced(ctx, events.BetPlaced{
			MarketID: marketID, User: user, Side: string(side), Amount: amount,
			YesPool: m.YesPool, NoPool: m.NoPool,
		})
	})
	e.log.Info("bet placed",
		zap.Uint32("market_id", marketID),
		zap.String("user", user),
		zap.String("side", string(side)),
		zap.Int64("amount", amount))
	return nil
}

// Resolve declara o desfecho de um mercado. Só o resolver configurado pode
// chamar, só depois de resolution_ts, e a transição é irreversível.
func (e *Engine) Resolve(ctx context.Context, marketID uint32, outcome Outcome) error {
	if err := e.requireInitialized(ctx); err != nil {
		return err
	}
	resolver, err := e.readString(ctx, KeyResolver())
	if err != nil {
		return err
	}
	if err := e.auth.RequireAuth(ctx, resolver); err != nil {
		return ErrNotResolver
	}

	m, err := e.readMarket(ctx, marketID)
	if err != nil {
		return err
	}
	if m.Resolved {
		return ErrAlreadyResolved
	}
	if e.clock.Now() < m.ResolutionTs {
		return ErrInvalidTime
	}

	m.Resolved = true
	m.Outcome = outcome
	if err := e.writeMarket(ctx, m); err != nil {
		return err
	}

	e.publish(ctx, "market_resolved", func(ctx context.Context) error {
		return e.publ.PublishMarketResolved(ctx, events.MarketResolved{
			MarketID: marketID, Outcome: string(outcome),
		})
	})
	e.log.Info("market resolved", zap.Uint32("market_id", marketID), zap.String("outcome", string(outcome)))
	return nil
}

// Claim paga o participante de um mercado resolvido. A flag claimed é
// persistida ANTES da transferência: sob execução serializada, um segundo
// claim observa claimed=true e é rejeitado mesmo que o pagamento anterior
// ainda não tenha liquidado externamente.
func (e *Engine) Claim(ctx context.Context, user string, marketID uint32) (int64, error) {
	if err := e.requireInitialized(ctx); err != nil {
		return 0, err
	}
	if err := e.auth.RequireAuth(ctx, user); err != nil {
		return 0, fmt.Errorf("auth: %w", err)
	}

	m, err := e.readMarket(ctx, marketID)
	if err != nil {
		return 0, err
	}
	if !m.Resolved {
		return 0, ErrNotResolved
	}

	s, err := e.readStake(ctx, marketID, user)
	if err != nil {
		return 0, err
	}
	if s.Claimed {
		return 0, ErrNothingToClaim
	}

	payout := Payout(m.Outcome, m.YesPool, m.NoPool, s.Yes, s.No)
	if payout == 0 {
		return 0, ErrNothingToClaim
	}

	asset, err := e.readString(ctx, KeyAsset())
	if err != nil {
		return 0, err
	}

	s.Claimed = true
	if err := e.writeStake(ctx, marketID, user, s); err != nil {
		return 0, err
	}

	if err := e.treasury.Transfer(ctx, asset, e.custody, user, payout); err != nil {
		// compensação: a operação é toda-ou-nada, então a flag volta atrás;
		// ninguém mais roda no meio por causa da serialização externa
		s.Claimed = false
		if werr := e.writeStake(ctx, marketID, user, s); werr != nil {
			e.log.Error("claim rollback failed", zap.Uint32("market_id", marketID), zap.String("user", user), zap.Error(werr))
		}
		return 0, fmt.Errorf("payout transfer: %w", err)
	}

	e.publish(ctx, "payout_claimed", func(ctx context.Context) error {
		return e.publ.PublishPayoutClaimed(ctx, events.PayoutClaimed{
			MarketID: marketID, User: user, Amount: payout,
		})
	})
	e.log.Info("payout claimed",
		zap.Uint32("market_id", marketID),
		zap.String("user", user),
		zap.Int64("payout", payout))
	return payout, nil
}

// -------------------------------
// Consultas (sem autorização, sem mutação)
// -------------------------------

func (e *Engine) GetMarket(ctx context.Context, marketID uint32) (Market, error) {
	return e.readMarket(ctx, marketID)
}

func (e *Engine) GetStake(ctx context.Context, marketID uint32, user string) (Stake, error) {
	return e.readStake(ctx, marketID, user)
}

func (e *Engine) GetAdmin(ctx context.Context) (string, error) {
	return e.readString(ctx, KeyAdmin())
}

func (e *Engine) GetResolver(ctx context.Context) (string, error) {
	return e.readString(ctx, KeyResolver())
}

func (e *Engine) GetAsset(ctx context.Context) (string, error) {
	return e.readString(ctx, KeyAsset())
}

// GetOdds retorna a fração YES do pool em basis points; 5000 para pool vazio.
func (e *Engine) GetOdds(ctx context.Context, marketID uint32) (uint32, error) {
	m, err := e.readMarket(ctx, marketID)
	if err != nil {
		return 0, err
	}
	return OddsBps(m.YesPool, m.NoPool), nil
}

// GetBalance consulta o saldo do participante no ativo de aposta.
func (e *Engine) GetBalance(ctx context.Context, user string) (int64, error) {
	if err := e.requireInitialized(ctx); err != nil {
		return 0, err
	}
	asset, err := e.readString(ctx, KeyAsset())
	if err != nil {
		return 0, err
	}
	return e.treasury.Balance(ctx, asset, user)
}

// CanAfford verifica se o participante tem saldo para apostar amount.
func (e *Engine) CanAfford(ctx context.Context, user string, amount int64) (bool, error) {
	bal, err := e.GetBalance(ctx, user)
	if err != nil {
		return false, err
	}
	return bal >= amount, nil
}

// GetTotalCustody retorna o total do ativo em custódia do engine.
func (e *Engine) GetTotalCustody(ctx context.Context) (int64, error) {
	if err := e.requireInitialized(ctx); err != nil {
		return 0, err
	}
	asset, err := e.readString(ctx, KeyAsset())
	if err != nil {
		return 0, err
	}
	return e.treasury.Balance(ctx, asset, e.custody)
}

// publish emite um evento best-effort; falha só gera warn.
func (e *Engine) publish(ctx context.Context, name string, fn func(context.Context) error) {
	if e.publ == nil {
		return
	}
	if err := fn(ctx); err != nil {
		e.log.Warn("event publish failed", zap.String("event", name), zap.Error(err))
	}
}
