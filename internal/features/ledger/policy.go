// Package ledger — policy.go: тарифная политика кредитов.
package ledger

import "lotto-backend/internal/config"

// TierPolicy — лимиты и награды одного тарифа.
// VIP безлимитен: кредиты ему не начисляются и не списываются,
// операции лишь оставляют нулевые записи для аудита.
type TierPolicy struct {
	DailyBonus  int64 // ежедневный бесплатный бонус (0 — бонуса нет)
	MaxBalance  int64 // потолок баланса (0 — без потолка)
	CanPurchase bool  // можно ли докупать кредиты
	AdReward    int64 // награда за просмотр рекламы
	MaxAdPerDay int   // лимит наград за рекламу в сутки
	AdThreshold int64 // реклама доступна только при балансе не выше порога (0 — без порога)
}

// Policies — таблица тарифов, собранная из конфигурации.
type Policies map[Tier]TierPolicy

// NewPolicies строит тарифную таблицу из конфига.
func NewPolicies(cfg *config.Config) Policies {
	return Policies{
		TierFree: {
			DailyBonus:  cfg.FreeDailyBonus,
			MaxBalance:  cfg.FreeMaxBalance,
			CanPurchase: true,
			AdReward:    cfg.FreeAdReward,
			MaxAdPerDay: cfg.FreeMaxAdPerDay,
		},
		TierPremium: {
			DailyBonus:  0,
			MaxBalance:  cfg.PremiumMaxBalance,
			CanPurchase: true,
			AdReward:    cfg.PremiumAdReward,
			MaxAdPerDay: cfg.PremiumMaxAdPerDay,
			AdThreshold: cfg.PremiumAdThreshold,
		},
		TierVIP: {
			// Безлимит: кредиты не считаем вовсе.
			CanPurchase: false,
		},
	}
}

// For возвращает политику тарифа (неизвестный тариф трактуем как Free).
func (p Policies) For(t Tier) TierPolicy {
	if pol, ok := p[t]; ok {
		return pol
	}
	return p[TierFree]
}
