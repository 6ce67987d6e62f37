// Package ledger — repository.go: хранилище журнала в PostgreSQL.
//
// Критическая секция счёта реализована транзакцией с SELECT ... FOR UPDATE:
// пока секция открыта, конкурирующие операции над тем же счётом ждут
// на блокировке строки. Для перевода блокируются обе строки в порядке
// возрастания id, чтобы встречные переводы не взаимоблокировались.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lotto-backend/internal/common"
)

// Repository — реализация Store поверх pgxpool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала кредитов.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateAccount(ctx context.Context, id string, tier Tier, initial int64) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, tier, balance)
		VALUES ($1, $2, $3)
		RETURNING id, tier, balance, created_at, updated_at
	`, id, string(tier), initial)

	acc, err := scanAccount(row)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания счёта: %w", err)
	}
	return acc, nil
}

func (r *Repository) GetAccount(ctx context.Context, id string) (*Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, tier, balance, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id)

	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения счёта: %w", err)
	}
	return acc, nil
}

func (r *Repository) Exec(ctx context.Context, accountID string, fn func(ax AccountTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	ax, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return err
	}
	if err := fn(ax); err != nil {
		return err
	}
	if err := ax.flush(ctx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) ExecPair(ctx context.Context, firstID, secondID string, fn func(first, second AccountTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Порядок блокировок — по возрастанию id.
	ids := []string{firstID, secondID}
	if ids[1] < ids[0] {
		ids[0], ids[1] = ids[1], ids[0]
	}
	locked := map[string]*pgAccountTx{}
	for _, id := range ids {
		ax, err := lockAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		locked[id] = ax
	}

	first, second := locked[firstID], locked[secondID]
	if err := fn(first, second); err != nil {
		return err
	}
	if err := first.flush(ctx); err != nil {
		return err
	}
	if err := second.flush(ctx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) Transactions(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, kind, amount, balance_after, reason, metadata, created_at
		FROM credit_transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения журнала: %w", err)
	}
	defer rows.Close()

	var out []*Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (r *Repository) Stats(ctx context.Context, accountID string) (*Stats, error) {
	acc, err := r.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	st := &Stats{Balance: acc.Balance, ByKind: map[TxKind]int{}}
	err = r.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0),
			COALESCE(-SUM(amount) FILTER (WHERE amount < 0), 0),
			COUNT(*)
		FROM credit_transactions WHERE account_id = $1
	`, accountID).Scan(&st.TotalEarned, &st.TotalSpent, &st.TxCount)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта статистики: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT kind, COUNT(*) FROM credit_transactions
		WHERE account_id = $1 GROUP BY kind
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта по видам: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		st.ByKind[TxKind(kind)] = count
	}
	return st, rows.Err()
}

// pgAccountTx — критическая секция счёта внутри транзакции Postgres.
// Изменения тарифа и баланса накапливаются в памяти и пишутся одним
// UPDATE при flush; записи журнала вставляются сразу (внутри транзакции
// они всё равно невидимы снаружи до коммита).
type pgAccountTx struct {
	ctx   context.Context
	tx    pgx.Tx
	acc   *Account
	dirty bool
}

func lockAccount(ctx context.Context, tx pgx.Tx, id string) (*pgAccountTx, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, tier, balance, created_at, updated_at
		FROM accounts WHERE id = $1
		FOR UPDATE
	`, id)

	acc, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка блокировки счёта: %w", err)
	}
	return &pgAccountTx{ctx: ctx, tx: tx, acc: acc}, nil
}

func (ax *pgAccountTx) flush(ctx context.Context) error {
	if !ax.dirty {
		return nil
	}
	_, err := ax.tx.Exec(ctx, `
		UPDATE accounts SET tier = $2, balance = $3, updated_at = NOW()
		WHERE id = $1
	`, ax.acc.ID, string(ax.acc.Tier), ax.acc.Balance)
	if err != nil {
		return fmt.Errorf("ошибка сохранения счёта: %w", err)
	}
	return nil
}

func (ax *pgAccountTx) Account() *Account {
	cp := *ax.acc
	return &cp
}

func (ax *pgAccountTx) Apply(delta int64, kind TxKind, reason string, meta map[string]string) (*Transaction, error) {
	ax.acc.Balance += delta
	ax.dirty = true

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации метаданных: %w", err)
	}

	tx := &Transaction{
		ID:           uuid.NewString(),
		AccountID:    ax.acc.ID,
		Kind:         kind,
		Amount:       delta,
		BalanceAfter: ax.acc.Balance,
		Reason:       reason,
		Metadata:     meta,
	}
	err = ax.tx.QueryRow(ax.ctx, `
		INSERT INTO credit_transactions (id, account_id, kind, amount, balance_after, reason, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, tx.ID, tx.AccountID, string(tx.Kind), tx.Amount, tx.BalanceAfter, tx.Reason, metaJSON).Scan(&tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи транзакции: %w", err)
	}
	return tx, nil
}

func (ax *pgAccountTx) CountToday(kind TxKind, day time.Time) (int, error) {
	start, end := common.DayBoundsUTC(day)
	var count int
	err := ax.tx.QueryRow(ax.ctx, `
		SELECT COUNT(*) FROM credit_transactions
		WHERE account_id = $1 AND kind = $2 AND created_at >= $3 AND created_at < $4
	`, ax.acc.ID, string(kind), start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта дневных записей: %w", err)
	}
	return count, nil
}

func (ax *pgAccountTx) HasMetaToday(kind TxKind, key, value string, day time.Time) (bool, error) {
	start, end := common.DayBoundsUTC(day)
	var exists bool
	err := ax.tx.QueryRow(ax.ctx, `
		SELECT EXISTS(
			SELECT 1 FROM credit_transactions
			WHERE account_id = $1 AND kind = $2
			  AND created_at >= $3 AND created_at < $4
			  AND metadata ->> $5 = $6
		)
	`, ax.acc.ID, string(kind), start, end, key, value).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки метаданных: %w", err)
	}
	return exists, nil
}

func (ax *pgAccountTx) Find(txID string) (*Transaction, error) {
	row := ax.tx.QueryRow(ax.ctx, `
		SELECT id, account_id, kind, amount, balance_after, reason, metadata, created_at
		FROM credit_transactions
		WHERE id = $1 AND account_id = $2
	`, txID, ax.acc.ID)

	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return tx, err
}

func (ax *pgAccountTx) HasRefundOf(originalID string) (bool, error) {
	var exists bool
	err := ax.tx.QueryRow(ax.ctx, `
		SELECT EXISTS(
			SELECT 1 FROM credit_transactions
			WHERE account_id = $1 AND kind = $2 AND metadata ->> $3 = $4
		)
	`, ax.acc.ID, string(TxRefund), MetaOriginalTx, originalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки повторного возврата: %w", err)
	}
	return exists, nil
}

func (ax *pgAccountTx) SetTier(tier Tier) error {
	ax.acc.Tier = tier
	ax.dirty = true
	return nil
}

func scanAccount(row pgx.Row) (*Account, error) {
	var acc Account
	var tier string
	if err := row.Scan(&acc.ID, &tier, &acc.Balance, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	acc.Tier = Tier(tier)
	return &acc, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var tx Transaction
	var kind string
	var metaJSON []byte
	err := row.Scan(&tx.ID, &tx.AccountID, &kind, &tx.Amount, &tx.BalanceAfter, &tx.Reason, &metaJSON, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.Kind = TxKind(kind)
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("ошибка разбора метаданных: %w", err)
		}
	}
	return &tx, nil
}
