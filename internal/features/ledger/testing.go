// Package ledger — testing.go: хранилище в памяти.
//
// Реализует Store без Postgres: для юнит-тестов и локальной разработки.
// Семантика повторяет репозиторий: критическая секция на счёт (мьютекс
// вместо блокировки строки), изменения применяются только при успехе fn.
package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"lotto-backend/internal/common"
)

// MemoryStore — потокобезопасное хранилище счетов в памяти.
type MemoryStore struct {
	mu       sync.Mutex
	accounts map[string]*Account
	journal  map[string][]*Transaction // от старых к новым
	locks    map[string]*sync.Mutex

	// Now подменяется в тестах для управления "сегодняшним днём".
	Now func() time.Time
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
		journal:  make(map[string][]*Transaction),
		locks:    make(map[string]*sync.Mutex),
		Now:      time.Now,
	}
}

func (s *MemoryStore) CreateAccount(_ context.Context, id string, tier Tier, initial int64) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Now()
	acc := &Account{ID: id, Tier: tier, Balance: initial, CreatedAt: now, UpdatedAt: now}
	s.accounts[id] = acc
	s.locks[id] = &sync.Mutex{}
	cp := *acc
	return &cp, nil
}

func (s *MemoryStore) GetAccount(_ context.Context, id string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, common.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *MemoryStore) lockOf(id string) (*sync.Mutex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return nil, common.ErrAccountNotFound
	}
	return s.locks[id], nil
}

func (s *MemoryStore) Exec(_ context.Context, accountID string, fn func(ax AccountTx) error) error {
	lock, err := s.lockOf(accountID)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()

	ax := s.begin(accountID)
	if err := fn(ax); err != nil {
		return err
	}
	s.commit(ax)
	return nil
}

func (s *MemoryStore) ExecPair(_ context.Context, firstID, secondID string, fn func(first, second AccountTx) error) error {
	firstLock, err := s.lockOf(firstID)
	if err != nil {
		return err
	}
	secondLock, err := s.lockOf(secondID)
	if err != nil {
		return err
	}

	// Блокировки строго по возрастанию id против взаимоблокировок.
	ordered := []struct {
		id   string
		lock *sync.Mutex
	}{{firstID, firstLock}, {secondID, secondLock}}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].id < ordered[j].id })
	for _, o := range ordered {
		o.lock.Lock()
	}
	defer func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].lock.Unlock()
		}
	}()

	first := s.begin(firstID)
	second := s.begin(secondID)
	if err := fn(first, second); err != nil {
		return err
	}
	s.commit(first)
	s.commit(second)
	return nil
}

func (s *MemoryStore) Transactions(_ context.Context, accountID string, limit, offset int) ([]*Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, common.ErrAccountNotFound
	}
	all := s.journal[accountID]
	out := make([]*Transaction, 0, limit)
	// Журнал хранится от старых к новым, отдаём от новых к старым.
	for i := len(all) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		cp := *all[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) Stats(_ context.Context, accountID string) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, common.ErrAccountNotFound
	}
	st := &Stats{Balance: acc.Balance, ByKind: map[TxKind]int{}}
	for _, tx := range s.journal[accountID] {
		st.TxCount++
		st.ByKind[tx.Kind]++
		if tx.Amount > 0 {
			st.TotalEarned += tx.Amount
		} else {
			st.TotalSpent += -tx.Amount
		}
	}
	return st, nil
}

// begin снимает копию счёта для работы внутри критической секции.
func (s *MemoryStore) begin(accountID string) *memAccountTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.accounts[accountID]
	return &memAccountTx{store: s, acc: &cp}
}

// commit публикует накопленные изменения секции.
func (s *MemoryStore) commit(ax *memAccountTx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ax.acc.UpdatedAt = s.Now()
	cp := *ax.acc
	s.accounts[ax.acc.ID] = &cp
	s.journal[ax.acc.ID] = append(s.journal[ax.acc.ID], ax.staged...)
}

// memAccountTx — критическая секция одного счёта в памяти.
// Читает сквозь закоммиченный журнал плюс свои незакоммиченные записи.
type memAccountTx struct {
	store  *MemoryStore
	acc    *Account
	staged []*Transaction
}

func (ax *memAccountTx) Account() *Account {
	cp := *ax.acc
	return &cp
}

func (ax *memAccountTx) Apply(delta int64, kind TxKind, reason string, meta map[string]string) (*Transaction, error) {
	ax.acc.Balance += delta
	tx := &Transaction{
		ID:           uuid.NewString(),
		AccountID:    ax.acc.ID,
		Kind:         kind,
		Amount:       delta,
		BalanceAfter: ax.acc.Balance,
		Reason:       reason,
		Metadata:     meta,
		CreatedAt:    ax.store.Now(),
	}
	ax.staged = append(ax.staged, tx)
	cp := *tx
	return &cp, nil
}

// visit обходит закоммиченные и незакоммиченные записи счёта.
func (ax *memAccountTx) visit(visit func(tx *Transaction) bool) {
	ax.store.mu.Lock()
	committed := append([]*Transaction(nil), ax.store.journal[ax.acc.ID]...)
	ax.store.mu.Unlock()

	for _, tx := range committed {
		if !visit(tx) {
			return
		}
	}
	for _, tx := range ax.staged {
		if !visit(tx) {
			return
		}
	}
}

func (ax *memAccountTx) CountToday(kind TxKind, day time.Time) (int, error) {
	count := 0
	ax.visit(func(tx *Transaction) bool {
		if tx.Kind == kind && common.SameDayUTC(tx.CreatedAt, day) {
			count++
		}
		return true
	})
	return count, nil
}

func (ax *memAccountTx) HasMetaToday(kind TxKind, key, value string, day time.Time) (bool, error) {
	found := false
	ax.visit(func(tx *Transaction) bool {
		if tx.Kind == kind && common.SameDayUTC(tx.CreatedAt, day) && tx.Metadata[key] == value {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

func (ax *memAccountTx) Find(txID string) (*Transaction, error) {
	var found *Transaction
	ax.visit(func(tx *Transaction) bool {
		if tx.ID == txID {
			cp := *tx
			found = &cp
			return false
		}
		return true
	})
	return found, nil
}

func (ax *memAccountTx) HasRefundOf(originalID string) (bool, error) {
	found := false
	ax.visit(func(tx *Transaction) bool {
		if tx.Kind == TxRefund && tx.Metadata[MetaOriginalTx] == originalID {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

func (ax *memAccountTx) SetTier(tier Tier) error {
	ax.acc.Tier = tier
	return nil
}
