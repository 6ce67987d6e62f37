// Package ledger — models.go описывает счёт, транзакции и тарифы.
package ledger

import "time"

// Tier — тариф аккаунта. Определяет лимиты кредитов и доступные операции.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierVIP     Tier = "vip"
)

// Rank возвращает порядковый номер тарифа для сравнения "не ниже".
func (t Tier) Rank() int {
	switch t {
	case TierVIP:
		return 2
	case TierPremium:
		return 1
	default:
		return 0
	}
}

// Valid сообщает, известен ли тариф.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierVIP:
		return true
	}
	return false
}

// TxKind — вид транзакции в журнале кредитов.
type TxKind string

const (
	TxPurchase   TxKind = "purchase"
	TxSpend      TxKind = "spend"
	TxAdReward   TxKind = "ad_reward"
	TxDailyBonus TxKind = "daily_bonus"
	TxReferral   TxKind = "referral"
	TxRefund     TxKind = "refund"
)

// Account — счёт пользователя с текущим балансом и тарифом.
// Баланс меняется ТОЛЬКО через запись транзакции: прямых UPDATE
// без журнальной записи в коде быть не должно.
type Account struct {
	ID        string    `json:"id"`
	Tier      Tier      `json:"tier"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction — неизменяемая запись журнала.
// amount со знаком: положительный — начисление, отрицательный — списание.
// BalanceAfter фиксирует баланс сразу после применения записи, что
// позволяет проверить целостность журнала простым проходом по истории.
type Transaction struct {
	ID           string            `json:"id"`
	AccountID    string            `json:"account_id"`
	Kind         TxKind            `json:"kind"`
	Amount       int64             `json:"amount"`
	BalanceAfter int64             `json:"balance_after"`
	Reason       string            `json:"reason"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// MetaOriginalTx — ключ метаданных: id исходной транзакции для refund.
const MetaOriginalTx = "original_tx_id"

// MetaAdID — ключ метаданных: идентификатор просмотренной рекламы.
const MetaAdID = "ad_id"

// LimitUsage — использование одного дневного лимита.
type LimitUsage struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited,omitempty"`
}

// DailyLimits — снимок дневных лимитов аккаунта на текущие сутки (UTC).
// Используется клиентами, чтобы заранее гасить недоступные кнопки.
type DailyLimits struct {
	AdRewards      LimitUsage `json:"ad_rewards"`
	Predictions    LimitUsage `json:"predictions"`
	BonusReceived  bool       `json:"daily_bonus_received"`
	BonusAvailable bool       `json:"daily_bonus_available"`
}

// Stats — агрегаты по журналу аккаунта.
type Stats struct {
	TotalEarned int64          `json:"total_earned"`
	TotalSpent  int64          `json:"total_spent"`
	TxCount     int            `json:"tx_count"`
	ByKind      map[TxKind]int `json:"by_kind"`
	Balance     int64          `json:"balance"`
}
