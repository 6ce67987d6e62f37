// Package ledger — store.go: контракт хранилища журнала кредитов.
package ledger

import (
	"context"
	"time"
)

// AccountTx — операции над одним счётом внутри критической секции.
// Пока секция открыта, никакой другой вызов не может менять этот счёт:
// Postgres держит блокировку строки, память — мьютекс счёта.
type AccountTx interface {
	// Account возвращает счёт в состоянии на момент входа в секцию.
	Account() *Account

	// Apply меняет баланс на delta и дописывает запись журнала.
	// balance_after заполняется автоматически. delta может быть нулевой:
	// VIP-операции оставляют нулевые записи для аудита.
	Apply(delta int64, kind TxKind, reason string, meta map[string]string) (*Transaction, error)

	// CountToday считает записи данного вида за календарные сутки (UTC).
	CountToday(kind TxKind, day time.Time) (int, error)

	// HasMetaToday сообщает, есть ли за сутки запись данного вида
	// с указанной парой метаданных (идемпотентность наград за рекламу).
	HasMetaToday(kind TxKind, key, value string, day time.Time) (bool, error)

	// Find возвращает транзакцию этого счёта по id (nil, если чужая или нет).
	Find(txID string) (*Transaction, error)

	// HasRefundOf сообщает, ссылается ли какой-нибудь refund на оригинал.
	HasRefundOf(originalID string) (bool, error)

	// SetTier меняет тариф счёта (апгрейд после покупки).
	SetTier(tier Tier) error
}

// Store — хранилище счетов и журнала.
type Store interface {
	// CreateAccount заводит счёт с начальным балансом.
	CreateAccount(ctx context.Context, id string, tier Tier, initial int64) (*Account, error)

	// GetAccount возвращает счёт без блокировки (для чтения).
	GetAccount(ctx context.Context, id string) (*Account, error)

	// Exec выполняет fn в критической секции одного счёта.
	// Ошибка fn откатывает все изменения секции целиком.
	Exec(ctx context.Context, accountID string, fn func(ax AccountTx) error) error

	// ExecPair выполняет fn в критической секции двух счетов сразу
	// (перевод). Блокировки берутся в порядке возрастания id,
	// чтобы встречные переводы не взаимоблокировались.
	ExecPair(ctx context.Context, firstID, secondID string, fn func(first, second AccountTx) error) error

	// Transactions возвращает журнал счёта от свежих к старым.
	Transactions(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error)

	// Stats возвращает агрегаты журнала счёта.
	Stats(ctx context.Context, accountID string) (*Stats, error)
}
