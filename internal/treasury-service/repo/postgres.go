package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Postgres implementa o ledger de ativos em banco: contas por (owner, asset),
// transferências atômicas e trilha append-only em treasury_ledger.
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
)

// GetOrCreateAccount retorna o id e saldo da conta do owner para o asset,
// criando a conta zerada se não existir. Usa transação para garantir atomicidade.
func (p *Postgres) GetOrCreateAccount(ctx context.Context, owner, asset string) (accountID string, balance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	id, bal, err := getOrCreateLocked(ctx, tx, owner, asset)
	if err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, bal, nil
}

// getOrCreateLocked busca a conta com lock pessimista, inserindo se necessário.
func getOrCreateLocked(ctx context.Context, tx *sql.Tx, owner, asset string) (string, int64, error) {
	var id string
	var bal int64
	err := tx.QueryRowContext(ctx,
		`SELECT id, balance FROM treasury_accounts WHERE owner=$1 AND asset=$2 FOR UPDATE`,
		owner, asset).Scan(&id, &bal)
	if err == sql.ErrNoRows {
		id = uuid.New().String()
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO treasury_accounts(id, owner, asset, balance, version) VALUES($1,$2,$3,0,1)`,
			id, owner, asset); err != nil {
			return "", 0, err
		}
		return id, 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	return id, bal, nil
}

// Deposit credita a conta do owner e registra a operação no ledger
func (p *Postgres) Deposit(ctx context.Context, owner, asset string, amount int64, externalRef string) (accountID string, newBalance int64, err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, err
	}
	defer tx.Rollback()

	id, _, err := getOrCreateLocked(ctx, tx, owner, asset)
	if err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE treasury_accounts SET balance = balance + $1, version = version + 1 WHERE id=$2`,
		amount, id); err != nil {
		return "", 0, err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO treasury_ledger(account_id, operation_type, amount, description) VALUES($1,'CREDIT',$2,$3)`,
		id, amount, "deposit:"+externalRef); err != nil {
		return "", 0, err
	}

	if err = tx.QueryRowContext(ctx, `SELECT balance FROM treasury_accounts WHERE id=$1`, id).Scan(&newBalance); err != nil {
		return "", 0, err
	}

	if err = tx.Commit(); err != nil {
		return "", 0, err
	}
	return id, newBalance, nil
}

// Transfer move amount do from para o to numa única transação.
// Locka as duas contas em ordem estável de owner para evitar deadlock;
// saldo insuficiente aborta com ErrInsufficientFunds e nada é escrito.
func (p *Postgres) Transfer(ctx context.Context, asset, from, to string, amount int64, externalRef string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	first, second := from, to
	if second < first {
		first, second = second, first
	}
	if _, _, err = getOrCreateLocked(ctx, tx, first, asset); err != nil {
		return err
	}
	if _, _, err = getOrCreateLocked(ctx, tx, second, asset); err != nil {
		return err
	}

	var fromID string
	var fromBal int64
	if err = tx.QueryRowContext(ctx,
		`SELECT id, balance FROM treasury_accounts WHERE owner=$1 AND asset=$2`,
		from, asset).Scan(&fromID, &fromBal); err != nil {
		return err
	}
	if fromBal < amount {
		return ErrInsufficientFunds
	}

	var toID string
	if err = tx.QueryRowContext(ctx,
		`SELECT id FROM treasury_accounts WHERE owner=$1 AND asset=$2`,
		to, asset).Scan(&toID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE treasury_accounts SET balance = balance - $1, version = version + 1 WHERE id=$2`,
		amount, fromID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE treasury_accounts SET balance = balance + $1, version = version + 1 WHERE id=$2`,
		amount, toID); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO treasury_ledger(account_id, operation_type, amount, description) VALUES($1,'DEBIT',$2,$3)`,
		fromID, amount, "transfer:"+externalRef); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO treasury_ledger(account_id, operation_type, amount, description) VALUES($1,'CREDIT',$2,$3)`,
		toID, amount, "transfer:"+externalRef); err != nil {
		return err
	}

	return tx.Commit()
}

// Balance retorna o saldo do owner no asset; conta inexistente vale zero.
func (p *Postgres) Balance(ctx context.Context, owner, asset string) (int64, error) {
	var bal int64
	err := p.db.QueryRowContext(ctx,
		`SELECT balance FROM treasury_accounts WHERE owner=$1 AND asset=$2`,
		owner, asset).Scan(&bal)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return bal, nil
}
