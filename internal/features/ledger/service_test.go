package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto-backend/internal/common"
	"lotto-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		FreeDailyBonus:     3,
		FreeMaxBalance:     100,
		FreeAdReward:       1,
		FreeMaxAdPerDay:    3,
		PremiumMaxBalance:  1000,
		PremiumAdReward:    1,
		PremiumMaxAdPerDay: 3,
		PremiumAdThreshold: 10,
		TransferCeiling:    1000,
		TransferFeeRate:    0.1,
	}
}

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(store, testConfig())
	return svc, store
}

func mustAccount(t *testing.T, svc *Service, id string, tier Tier, balance int64) {
	t.Helper()
	_, err := svc.CreateAccount(context.Background(), id, tier, balance)
	require.NoError(t, err)
}

func TestSpend_Basics(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 10)

	_, err := svc.Spend(ctx, "u1", 0, "тест", nil)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	tx, err := svc.Spend(ctx, "u1", 4, "генерация", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-4), tx.Amount)
	assert.Equal(t, int64(6), tx.BalanceAfter)

	_, err = svc.Spend(ctx, "u1", 7, "генерация", nil)
	assert.ErrorIs(t, err, common.ErrInsufficientCredits)

	// Неудачное списание не трогает баланс.
	balance, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), balance)
}

func TestSpend_VIPZeroAmountAudit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "vip", TierVIP, 0)

	tx, err := svc.Spend(ctx, "vip", 50, "генерация", nil)
	require.NoError(t, err)
	assert.Zero(t, tx.Amount, "VIP оставляет нулевую запись для аудита")

	balance, _ := svc.Balance(ctx, "vip")
	assert.Zero(t, balance)
}

func TestSpend_ConcurrentDoubleSpend(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 10)

	// 20 параллельных списаний по 1: пройти могут ровно 10.
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Spend(ctx, "u1", 1, "гонка", nil); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	balance, _ := svc.Balance(ctx, "u1")
	assert.Zero(t, balance)
}

func TestJournalReplayInvariant(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 50)

	_, err := svc.Spend(ctx, "u1", 5, "a", nil)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, "u1", 10, TxPurchase, "b", nil)
	require.NoError(t, err)
	tx, err := svc.Spend(ctx, "u1", 20, "c", nil)
	require.NoError(t, err)
	_, err = svc.Refund(ctx, "u1", tx.ID, "d")
	require.NoError(t, err)

	txs, err := svc.Transactions(ctx, "u1", 100, 0)
	require.NoError(t, err)

	// Журнал отдан от новых к старым: проигрываем в обратном порядке.
	balance := int64(50)
	for i := len(txs) - 1; i >= 0; i-- {
		balance += txs[i].Amount
		assert.Equal(t, balance, txs[i].BalanceAfter, "целостность balance_after")
	}
	current, _ := svc.Balance(ctx, "u1")
	assert.Equal(t, balance, current)
}

func TestCredit_CapClamp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 95)

	// Потолок Free — 100: из 20 зачислятся только 5.
	tx, err := svc.Credit(ctx, "u1", 20, TxPurchase, "пакет", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tx.Amount)
	assert.Equal(t, int64(100), tx.BalanceAfter)

	// На потолке зачислять нечего.
	_, err = svc.Credit(ctx, "u1", 20, TxPurchase, "пакет", nil)
	assert.ErrorIs(t, err, common.ErrLimitExceeded)
}

func TestDailyBonus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "free", TierFree, 0)
	mustAccount(t, svc, "prem", TierPremium, 0)
	mustAccount(t, svc, "vip", TierVIP, 0)

	tx, err := svc.DailyBonus(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tx.Amount)

	_, err = svc.DailyBonus(ctx, "free")
	assert.ErrorIs(t, err, common.ErrAlreadyClaimed)

	// Premium: бонус нулевой, ошибок и записей нет.
	tx, err = svc.DailyBonus(ctx, "prem")
	require.NoError(t, err)
	assert.Nil(t, tx)

	// VIP: бонус не нужен.
	tx, err = svc.DailyBonus(ctx, "vip")
	require.NoError(t, err)
	assert.Nil(t, tx)

	// Наступили новые сутки — бонус снова доступен.
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	store.Now = func() time.Time { return tomorrow }
	svc.now = store.Now
	tx, err = svc.DailyBonus(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tx.Amount)
}

func TestAdReward(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "free", TierFree, 0)
	mustAccount(t, svc, "vip", TierVIP, 0)

	_, err := svc.AdReward(ctx, "vip", "ad-1")
	assert.ErrorIs(t, err, common.ErrNotEligible)

	tx, err := svc.AdReward(ctx, "free", "ad-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.Amount)

	// Повтор того же просмотра — идемпотентный отказ.
	_, err = svc.AdReward(ctx, "free", "ad-1")
	assert.ErrorIs(t, err, common.ErrDuplicateAd)

	_, err = svc.AdReward(ctx, "free", "ad-2")
	require.NoError(t, err)
	_, err = svc.AdReward(ctx, "free", "ad-3")
	require.NoError(t, err)

	// Дневной лимит Free — 3 просмотра.
	_, err = svc.AdReward(ctx, "free", "ad-4")
	assert.ErrorIs(t, err, common.ErrDailyLimitExceeded)
}

func TestAdReward_PremiumThreshold(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "prem", TierPremium, 50)

	// Баланс выше порога 10: реклама не предлагается.
	_, err := svc.AdReward(ctx, "prem", "ad-1")
	assert.ErrorIs(t, err, common.ErrNotEligible)

	mustAccount(t, svc, "prem2", TierPremium, 5)
	tx, err := svc.AdReward(ctx, "prem2", "ad-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.Amount)
}

func TestRefund(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 20)
	mustAccount(t, svc, "u2", TierFree, 20)

	spent, err := svc.Spend(ctx, "u1", 5, "генерация", nil)
	require.NoError(t, err)

	refund, err := svc.Refund(ctx, "u1", spent.ID, "сбой генерации")
	require.NoError(t, err)
	assert.Equal(t, int64(5), refund.Amount)
	assert.Equal(t, spent.ID, refund.Metadata[MetaOriginalTx])

	// Второй возврат того же оригинала отклоняется.
	_, err = svc.Refund(ctx, "u1", spent.ID, "повтор")
	assert.ErrorIs(t, err, common.ErrAlreadyRefunded)

	// Чужая транзакция не видна.
	_, err = svc.Refund(ctx, "u2", spent.ID, "чужое")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Начисления не возвращаются.
	bonus, err := svc.Credit(ctx, "u1", 5, TxPurchase, "пакет", nil)
	require.NoError(t, err)
	_, err = svc.Refund(ctx, "u1", bonus.ID, "начисление")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPurchase(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 0)
	mustAccount(t, svc, "vip", TierVIP, 0)

	_, err := svc.Purchase(ctx, "vip", 100, "", "pay-0", "order-0")
	assert.ErrorIs(t, err, common.ErrNotAllowed)

	// Покупка с апгрейдом: тариф растёт, потолок уже премиальный.
	tx, err := svc.Purchase(ctx, "u1", 500, TierPremium, "pay-1", "order-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), tx.Amount)
	assert.Equal(t, "pay-1", tx.Metadata["payment_id"])
	assert.Equal(t, "order-1", tx.Metadata["order_id"])

	acc, err := svc.GetAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, acc.Tier)
	assert.Equal(t, int64(500), acc.Balance)
}

func TestTransfer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "alice", TierPremium, 20)
	mustAccount(t, svc, "bob", TierPremium, 0)
	mustAccount(t, svc, "vip", TierVIP, 0)

	_, _, err := svc.Transfer(ctx, "alice", "alice", 5, "")
	assert.ErrorIs(t, err, common.ErrSelfTransfer)

	_, _, err = svc.Transfer(ctx, "alice", "bob", 0, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, _, err = svc.Transfer(ctx, "alice", "bob", 5000, "")
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, _, err = svc.Transfer(ctx, "vip", "bob", 5, "")
	assert.ErrorIs(t, err, common.ErrNotAllowed)

	// Перевод 10: комиссия max(1, round(10*0.1)) = 1, списание 11.
	debit, credit, err := svc.Transfer(ctx, "alice", "bob", 10, "подарок")
	require.NoError(t, err)
	assert.Equal(t, int64(-11), debit.Amount)
	assert.Equal(t, int64(10), credit.Amount)
	assert.Equal(t, TxReferral, credit.Kind)

	aliceBal, _ := svc.Balance(ctx, "alice")
	bobBal, _ := svc.Balance(ctx, "bob")
	assert.Equal(t, int64(9), aliceBal)
	assert.Equal(t, int64(10), bobBal)

	// На вторую такую же сумму уже не хватает.
	_, _, err = svc.Transfer(ctx, "alice", "bob", 10, "")
	assert.ErrorIs(t, err, common.ErrInsufficientCredits)
	aliceBal, _ = svc.Balance(ctx, "alice")
	assert.Equal(t, int64(9), aliceBal, "неудачный перевод не меняет баланс")
}

func TestTransfer_BothLegsOrNeither(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "alice", TierPremium, 100)
	mustAccount(t, svc, "bob", TierFree, 100) // уже на потолке Free

	// Получателю зачислять некуда: обе ноги откатываются.
	_, _, err := svc.Transfer(ctx, "alice", "bob", 10, "")
	assert.ErrorIs(t, err, common.ErrLimitExceeded)

	aliceBal, _ := svc.Balance(ctx, "alice")
	bobBal, _ := svc.Balance(ctx, "bob")
	assert.Equal(t, int64(100), aliceBal, "дебет отправителя откатился")
	assert.Equal(t, int64(100), bobBal)

	txs, err := svc.Transactions(ctx, "alice", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, txs, "в журнале не осталось следов неудачного перевода")
}

func TestTransferFee(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Equal(t, int64(1), svc.TransferFee(1))
	assert.Equal(t, int64(1), svc.TransferFee(5))
	assert.Equal(t, int64(1), svc.TransferFee(10))
	assert.Equal(t, int64(2), svc.TransferFee(15))
	assert.Equal(t, int64(10), svc.TransferFee(100))
}

func TestDailyLimits(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "free", TierFree, 10)
	mustAccount(t, svc, "vip", TierVIP, 0)

	limits, err := svc.DailyLimits(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, 0, limits.AdRewards.Used)
	assert.Equal(t, 3, limits.AdRewards.Limit)
	assert.Equal(t, 3, limits.AdRewards.Remaining)
	assert.False(t, limits.BonusReceived)
	assert.True(t, limits.BonusAvailable)

	_, err = svc.AdReward(ctx, "free", "ad-1")
	require.NoError(t, err)
	_, err = svc.DailyBonus(ctx, "free")
	require.NoError(t, err)

	limits, err = svc.DailyLimits(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, 1, limits.AdRewards.Used)
	assert.Equal(t, 2, limits.AdRewards.Remaining)
	assert.True(t, limits.BonusReceived)
	assert.False(t, limits.BonusAvailable)

	limits, err = svc.DailyLimits(ctx, "vip")
	require.NoError(t, err)
	assert.True(t, limits.AdRewards.Unlimited)
	assert.True(t, limits.Predictions.Unlimited)
}

func TestStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustAccount(t, svc, "u1", TierFree, 50)

	_, err := svc.Spend(ctx, "u1", 5, "a", nil)
	require.NoError(t, err)
	_, err = svc.Credit(ctx, "u1", 10, TxPurchase, "b", nil)
	require.NoError(t, err)

	st, err := svc.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.TotalEarned)
	assert.Equal(t, int64(5), st.TotalSpent)
	assert.Equal(t, 2, st.TxCount)
	assert.Equal(t, 1, st.ByKind[TxSpend])
	assert.Equal(t, 1, st.ByKind[TxPurchase])
	assert.Equal(t, int64(55), st.Balance)
}

func TestGetAccount_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetAccount(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}
