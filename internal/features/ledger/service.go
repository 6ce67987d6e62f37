// Package ledger — service.go: бизнес-логика журнала кредитов.
//
// Все операции атомарны относительно одного счёта: проверка условий и
// запись результата происходят внутри одной критической секции хранилища,
// поэтому ни параллельный двойной расход, ни повторный дневной бонус
// невозможны. Перевод захватывает оба счёта сразу.
package ledger

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"lotto-backend/internal/common"
	"lotto-backend/internal/config"
)

// Service — операции над кредитами пользователей.
type Service struct {
	store           Store
	policies        Policies
	transferCeiling int64
	transferFeeRate float64

	// now подменяется в тестах.
	now func() time.Time
}

// NewService создаёт сервис журнала кредитов.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store:           store,
		policies:        NewPolicies(cfg),
		transferCeiling: cfg.TransferCeiling,
		transferFeeRate: cfg.TransferFeeRate,
		now:             time.Now,
	}
}

// CreateAccount заводит новый счёт.
func (s *Service) CreateAccount(ctx context.Context, id string, tier Tier, initial int64) (*Account, error) {
	if !tier.Valid() {
		tier = TierFree
	}
	return s.store.CreateAccount(ctx, id, tier, initial)
}

// GetAccount возвращает счёт.
func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	return s.store.GetAccount(ctx, id)
}

// Balance возвращает текущий баланс счёта.
func (s *Service) Balance(ctx context.Context, id string) (int64, error) {
	acc, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Spend списывает amount кредитов.
//
// Для VIP баланс не меняется: пишется нулевая запись, чтобы журнал
// оставался полной историей действий. Для остальных тарифов проверка
// достаточности средств и списание — одна атомарная секция.
func (s *Service) Spend(ctx context.Context, accountID string, amount int64, reason string, meta map[string]string) (*Transaction, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	var out *Transaction
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		acc := ax.Account()
		if acc.Tier == TierVIP {
			tx, err := ax.Apply(0, TxSpend, reason, meta)
			out = tx
			return err
		}
		if acc.Balance < amount {
			return common.ErrInsufficientCredits
		}
		tx, err := ax.Apply(-amount, TxSpend, reason, meta)
		out = tx
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account": accountID,
		"amount":  amount,
		"reason":  reason,
	}).Info("Кредиты списаны")
	return out, nil
}

// Credit начисляет amount кредитов указанного вида.
//
// VIP не получает ad_reward и daily_bonus (безлимит — копить нечего):
// возвращается (nil, nil). Начисление обрезается потолком тарифа;
// если после обрезки начислять нечего, возвращается ErrLimitExceeded.
func (s *Service) Credit(ctx context.Context, accountID string, amount int64, kind TxKind, reason string, meta map[string]string) (*Transaction, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	var out *Transaction
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		tx, err := s.creditLocked(ax, amount, kind, reason, meta)
		out = tx
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// creditLocked — начисление внутри уже открытой критической секции.
func (s *Service) creditLocked(ax AccountTx, amount int64, kind TxKind, reason string, meta map[string]string) (*Transaction, error) {
	acc := ax.Account()
	if acc.Tier == TierVIP && (kind == TxAdReward || kind == TxDailyBonus) {
		return nil, nil
	}

	applied := amount
	pol := s.policies.For(acc.Tier)
	if pol.MaxBalance > 0 && acc.Balance+applied > pol.MaxBalance {
		applied = pol.MaxBalance - acc.Balance
	}
	if applied <= 0 {
		return nil, common.ErrLimitExceeded
	}
	return ax.Apply(applied, kind, reason, meta)
}

// DailyBonus выдаёт ежедневный бесплатный бонус тарифа.
//
// Повторная выдача за те же сутки (UTC) — ErrAlreadyClaimed. VIP и
// тарифы с нулевым бонусом получают (nil, nil) без записи в журнал.
func (s *Service) DailyBonus(ctx context.Context, accountID string) (*Transaction, error) {
	var out *Transaction
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		acc := ax.Account()
		if acc.Tier == TierVIP {
			return nil
		}

		claimed, err := ax.CountToday(TxDailyBonus, s.now())
		if err != nil {
			return err
		}
		if claimed > 0 {
			return common.ErrAlreadyClaimed
		}

		pol := s.policies.For(acc.Tier)
		if pol.DailyBonus <= 0 {
			return nil
		}
		tx, err := s.creditLocked(ax, pol.DailyBonus, TxDailyBonus, "ежедневный бонус", nil)
		out = tx
		return err
	})
	if err != nil {
		return nil, err
	}

	if out != nil {
		log.WithFields(log.Fields{
			"account": accountID,
			"amount":  out.Amount,
		}).Info("Выдан ежедневный бонус")
	}
	return out, nil
}

// AdReward начисляет награду за просмотр рекламы.
//
// Идемпотентность по ad_id: повторная отправка того же просмотра за
// сутки — ErrDuplicateAd. Дневной лимит просмотров и порог баланса
// (для Premium реклама доступна только при низком балансе) проверяются
// в той же секции.
func (s *Service) AdReward(ctx context.Context, accountID, adID string) (*Transaction, error) {
	var out *Transaction
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		acc := ax.Account()
		if acc.Tier == TierVIP {
			return common.ErrNotEligible
		}

		pol := s.policies.For(acc.Tier)
		if pol.AdThreshold > 0 && acc.Balance > pol.AdThreshold {
			return common.ErrNotEligible
		}

		today := s.now()
		used, err := ax.CountToday(TxAdReward, today)
		if err != nil {
			return err
		}
		if used >= pol.MaxAdPerDay {
			return common.ErrDailyLimitExceeded
		}

		dup, err := ax.HasMetaToday(TxAdReward, MetaAdID, adID, today)
		if err != nil {
			return err
		}
		if dup {
			return common.ErrDuplicateAd
		}

		tx, err := s.creditLocked(ax, pol.AdReward, TxAdReward,
			"награда за просмотр рекламы", map[string]string{MetaAdID: adID})
		out = tx
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account": accountID,
		"ad_id":   adID,
	}).Info("Начислена награда за рекламу")
	return out, nil
}

// Refund возвращает кредиты по ранее списанной транзакции.
//
// Возврату подлежат только списания (amount < 0) этого же счёта, и не
// больше одного раза: повторный возврат того же оригинала отклоняется.
// Запись возврата — положительное начисление со ссылкой на оригинал
// в метаданных (знаковые соглашения в журнале не смешиваются).
func (s *Service) Refund(ctx context.Context, accountID, originalTxID, reason string) (*Transaction, error) {
	var out *Transaction
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		orig, err := ax.Find(originalTxID)
		if err != nil {
			return err
		}
		if orig == nil || orig.Amount >= 0 {
			return common.ErrNotFound
		}

		refunded, err := ax.HasRefundOf(originalTxID)
		if err != nil {
			return err
		}
		if refunded {
			return common.ErrAlreadyRefunded
		}

		tx, err := s.creditLocked(ax, -orig.Amount, TxRefund, reason,
			map[string]string{MetaOriginalTx: originalTxID})
		out = tx
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account":  accountID,
		"original": originalTxID,
	}).Info("Выполнен возврат кредитов")
	return out, nil
}

// Purchase зачисляет купленный пакет кредитов. Если пакет включает
// апгрейд тарифа, тариф повышается в той же секции.
// VIP не покупает кредиты — безлимит. Идентификаторы платежа и заказа
// от платёжного шлюза сохраняются в метаданных записи.
func (s *Service) Purchase(ctx context.Context, accountID string, amount int64, upgrade Tier, paymentID, orderID string) (*Transaction, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	meta := map[string]string{}
	if paymentID != "" {
		meta["payment_id"] = paymentID
	}
	if orderID != "" {
		meta["order_id"] = orderID
	}

	var out *Transaction
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		acc := ax.Account()
		pol := s.policies.For(acc.Tier)
		if !pol.CanPurchase {
			return common.ErrNotAllowed
		}

		if upgrade.Valid() && upgrade.Rank() > acc.Tier.Rank() {
			if err := ax.SetTier(upgrade); err != nil {
				return err
			}
		}
		tx, err := s.creditLocked(ax, amount, TxPurchase, "покупка пакета кредитов", meta)
		out = tx
		return err
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"account": accountID,
		"amount":  amount,
		"upgrade": upgrade,
	}).Info("Зачислена покупка кредитов")
	return out, nil
}

// TransferFee считает комиссию перевода: 10% от суммы, но не меньше 1.
func (s *Service) TransferFee(amount int64) int64 {
	fee := int64(math.Round(float64(amount) * s.transferFeeRate))
	if fee < 1 {
		fee = 1
	}
	return fee
}

// Transfer переводит amount кредитов между счетами.
//
// Отправитель платит amount + комиссию, получателю приходит только
// amount: комиссия остаётся платформе и никому не зачисляется.
// Обе ноги перевода — одна транзакция хранилища: либо обе записи,
// либо ни одной.
func (s *Service) Transfer(ctx context.Context, senderID, recipientID string, amount int64, message string) (*Transaction, *Transaction, error) {
	if amount <= 0 || amount > s.transferCeiling {
		return nil, nil, common.ErrInvalidAmount
	}
	if senderID == recipientID {
		return nil, nil, common.ErrSelfTransfer
	}

	fee := s.TransferFee(amount)
	var debit, credit *Transaction
	err := s.store.ExecPair(ctx, senderID, recipientID, func(sender, recipient AccountTx) error {
		from := sender.Account()
		if from.Tier == TierVIP {
			return common.ErrNotAllowed
		}
		total := amount + fee
		if from.Balance < total {
			return common.ErrInsufficientCredits
		}

		reason := "перевод кредитов"
		if message != "" {
			reason = fmt.Sprintf("перевод: %s", message)
		}

		var err error
		debit, err = sender.Apply(-total, TxSpend, reason, map[string]string{
			"transfer_to": recipientID,
			"fee":         fmt.Sprintf("%d", fee),
		})
		if err != nil {
			return err
		}
		credit, err = s.creditLocked(recipient, amount, TxReferral, reason, map[string]string{
			"transfer_from": senderID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(log.Fields{
		"from":   senderID,
		"to":     recipientID,
		"amount": amount,
		"fee":    fee,
	}).Info("Перевод кредитов выполнен")
	return debit, credit, nil
}

// DailyLimits возвращает снимок дневных лимитов на текущие сутки (UTC).
func (s *Service) DailyLimits(ctx context.Context, accountID string) (*DailyLimits, error) {
	var out DailyLimits
	err := s.store.Exec(ctx, accountID, func(ax AccountTx) error {
		acc := ax.Account()
		pol := s.policies.For(acc.Tier)
		today := s.now()

		if acc.Tier == TierVIP {
			out.AdRewards = LimitUsage{Unlimited: true}
			out.Predictions = LimitUsage{Unlimited: true}
			return nil
		}

		adUsed, err := ax.CountToday(TxAdReward, today)
		if err != nil {
			return err
		}
		out.AdRewards = LimitUsage{
			Used:      adUsed,
			Limit:     pol.MaxAdPerDay,
			Remaining: max(0, pol.MaxAdPerDay-adUsed),
		}

		spent, err := ax.CountToday(TxSpend, today)
		if err != nil {
			return err
		}
		// Число генераций не лимитируется — ограничителем служит баланс.
		out.Predictions = LimitUsage{Used: spent, Unlimited: true}

		claimed, err := ax.CountToday(TxDailyBonus, today)
		if err != nil {
			return err
		}
		out.BonusReceived = claimed > 0
		out.BonusAvailable = pol.DailyBonus > 0 && claimed == 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Transactions возвращает страницу журнала от свежих записей к старым.
func (s *Service) Transactions(ctx context.Context, accountID string, limit, offset int) ([]*Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Transactions(ctx, accountID, limit, offset)
}

// Stats возвращает агрегаты журнала счёта.
func (s *Service) Stats(ctx context.Context, accountID string) (*Stats, error) {
	return s.store.Stats(ctx, accountID)
}
