// Package settlement — service.go: бизнес-логика расчёта тиражей.
package settlement

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"lotto-backend/internal/common"
	"lotto-backend/internal/config"
)

// historySearchDepth — сколько прошлых тиражей просматривает поиск похожих.
const historySearchDepth = 200

// Service — операции над тиражами и предсказаниями.
type Service struct {
	store  Store
	prizes [5]int64 // суммы по рангам 1–5

	now func() time.Time
}

// NewService создаёт сервис расчётов.
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store: store,
		prizes: [5]int64{
			cfg.PrizeRank1, cfg.PrizeRank2, cfg.PrizeRank3, cfg.PrizeRank4, cfg.PrizeRank5,
		},
		now: time.Now,
	}
}

// RecordPrediction сохраняет сгенерированную комбинацию.
// Нулевой round означает "ближайший будущий тираж".
func (s *Service) RecordPrediction(ctx context.Context, accountID, strategyKey string, numbers []int, confidence float64, round int) (*Prediction, error) {
	if !validCombo(numbers) {
		return nil, common.ErrInvalidCombination
	}
	if round <= 0 {
		round = NextRound(s.now())
	}

	p := &Prediction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Round:       round,
		StrategyKey: strategyKey,
		Numbers:     append([]int(nil), numbers...),
		Confidence:  confidence,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreatePrediction(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Settle рассчитывает все нерасчитанные предсказания тиража.
//
// Повторный вызов по тому же тиражу безопасен: рассчитанные строки в
// выборку не попадают, их matched_count/prize_rank/settled_at вторично
// не меняются. Журнал кредитов расчёт не трогает — выплата приза,
// если нужна, оформляется отдельным начислением.
func (s *Service) Settle(ctx context.Context, draw *OfficialDraw) ([]*Prediction, error) {
	if err := validateDraw(draw); err != nil {
		return nil, err
	}
	if err := s.store.SaveDraw(ctx, draw); err != nil {
		return nil, err
	}

	pending, err := s.store.PendingForRound(ctx, draw.Round)
	if err != nil {
		return nil, err
	}

	drawn := map[int]bool{}
	for _, n := range draw.Numbers {
		drawn[n] = true
	}

	now := s.now()
	winners := 0
	out := make([]*Prediction, 0, len(pending))
	for _, p := range pending {
		matched := 0
		bonusMatched := false
		for _, n := range p.Numbers {
			if drawn[n] {
				matched++
			}
			if n == draw.Bonus {
				bonusMatched = true
			}
		}

		rank := PrizeRank(matched, bonusMatched)
		var amount int64
		if rank > 0 {
			amount = s.prizes[rank-1]
			winners++
		}
		if err := s.store.ApplySettlement(ctx, p.ID, matched, rank, amount, now); err != nil {
			return nil, err
		}

		p.MatchedCount = matched
		p.PrizeRank = rank
		p.PrizeAmount = amount
		p.Status = StatusSettled
		ts := now
		p.SettledAt = &ts
		out = append(out, p)
	}

	log.WithFields(log.Fields{
		"round":   draw.Round,
		"settled": len(out),
		"winners": winners,
	}).Info("Тираж рассчитан")
	return out, nil
}

// SettleRound рассчитывает тираж по номеру, если его официальный
// результат уже загружен синхронизатором.
func (s *Service) SettleRound(ctx context.Context, round int) ([]*Prediction, error) {
	draw, err := s.store.GetDraw(ctx, round)
	if err != nil {
		return nil, err
	}
	if draw == nil {
		return nil, common.ErrDrawNotFound
	}
	return s.Settle(ctx, draw)
}

// Void аннулирует ещё не рассчитанное предсказание: оно исчезает из
// выборок и никогда не будет рассчитано.
func (s *Service) Void(ctx context.Context, accountID, predictionID string) error {
	p, err := s.store.GetPrediction(ctx, predictionID)
	if err != nil {
		return err
	}
	if p == nil || p.AccountID != accountID {
		return common.ErrPredictionNotFound
	}
	switch p.Status {
	case StatusVoided:
		return nil // повторное аннулирование — no-op
	case StatusSettled:
		return common.ErrNotAllowed
	}
	return s.store.MarkVoided(ctx, predictionID)
}

// FindSimilar ищет прошлые тиражи, похожие на комбинацию: сортировка
// по числу прямых совпадений, затем по оценке похожести.
func (s *Service) FindSimilar(ctx context.Context, numbers []int, limit int) ([]*SimilarResult, error) {
	if !validCombo(numbers) {
		return nil, common.ErrInvalidCombination
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	draws, err := s.store.RecentDraws(ctx, historySearchDepth)
	if err != nil {
		return nil, err
	}

	results := make([]*SimilarResult, 0, len(draws))
	for _, draw := range draws {
		results = append(results, &SimilarResult{
			Round:        draw.Round,
			Numbers:      draw.Numbers,
			Bonus:        draw.Bonus,
			MatchedCount: matchedCount(numbers, draw.Numbers),
			Score:        SimilarityScore(numbers, draw.Numbers),
		})
	}
	sortSimilar(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// History возвращает комбинации последних тиражей (вход стратегий).
func (s *Service) History(ctx context.Context, limit int) ([][]int, error) {
	draws, err := s.store.RecentDraws(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([][]int, 0, len(draws))
	for _, draw := range draws {
		out = append(out, draw.Numbers)
	}
	return out, nil
}

// Predictions возвращает предсказания счёта (без аннулированных).
func (s *Service) Predictions(ctx context.Context, accountID string, limit, offset int) ([]*Prediction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListByAccount(ctx, accountID, limit, offset)
}

// validateDraw проверяет форму официального тиража.
func validateDraw(draw *OfficialDraw) error {
	if draw == nil || draw.Round < 1 || !validCombo(draw.Numbers) {
		return common.ErrInvalidDraw
	}
	if draw.Bonus < 1 || draw.Bonus > 45 {
		return common.ErrInvalidDraw
	}
	for _, n := range draw.Numbers {
		if n == draw.Bonus {
			return common.ErrInvalidDraw
		}
	}
	return nil
}

// validCombo — 6 различных чисел 1–45 строго по возрастанию.
func validCombo(nums []int) bool {
	if len(nums) != 6 {
		return false
	}
	for i, n := range nums {
		if n < 1 || n > 45 {
			return false
		}
		if i > 0 && nums[i-1] >= n {
			return false
		}
	}
	return true
}

// sortSimilar сортирует по (совпадения, оценка) по убыванию.
func sortSimilar(results []*SimilarResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].MatchedCount != results[j].MatchedCount {
			return results[i].MatchedCount > results[j].MatchedCount
		}
		return results[i].Score > results[j].Score
	})
}
