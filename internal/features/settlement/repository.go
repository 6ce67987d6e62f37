// Package settlement — repository.go: хранилище тиражей и предсказаний
// в PostgreSQL. Комбинации лежат массивами int4[], статус — текстовым
// перечислением; идемпотентность расчёта обеспечивает фильтр по статусу
// прямо в UPDATE.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository — реализация Store поверх pgxpool.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт репозиторий расчётов.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) SaveDraw(ctx context.Context, draw *OfficialDraw) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO lotto_draws (round, numbers, bonus, draw_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (round) DO UPDATE
		SET numbers = EXCLUDED.numbers, bonus = EXCLUDED.bonus, draw_date = EXCLUDED.draw_date
	`, draw.Round, toInt32s(draw.Numbers), draw.Bonus, draw.DrawDate)
	if err != nil {
		return fmt.Errorf("ошибка сохранения тиража %d: %w", draw.Round, err)
	}
	return nil
}

func (r *Repository) GetDraw(ctx context.Context, round int) (*OfficialDraw, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT round, numbers, bonus, draw_date FROM lotto_draws WHERE round = $1
	`, round)

	draw, err := scanDraw(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return draw, err
}

func (r *Repository) RecentDraws(ctx context.Context, limit int) ([]*OfficialDraw, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT round, numbers, bonus, draw_date
		FROM lotto_draws ORDER BY round DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения тиражей: %w", err)
	}
	defer rows.Close()

	var out []*OfficialDraw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, draw)
	}
	return out, rows.Err()
}

func (r *Repository) CreatePrediction(ctx context.Context, p *Prediction) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO predictions (id, account_id, round, strategy_key, numbers, confidence, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.AccountID, p.Round, p.StrategyKey, toInt32s(p.Numbers), p.Confidence, string(p.Status)).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения предсказания: %w", err)
	}
	return nil
}

func (r *Repository) GetPrediction(ctx context.Context, id string) (*Prediction, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, account_id, round, strategy_key, numbers, confidence,
		       matched_count, prize_rank, prize_amount, status, settled_at, created_at
		FROM predictions WHERE id = $1
	`, id)

	p, err := scanPrediction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *Repository) PendingForRound(ctx context.Context, round int) ([]*Prediction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, round, strategy_key, numbers, confidence,
		       matched_count, prize_rank, prize_amount, status, settled_at, created_at
		FROM predictions
		WHERE round = $1 AND status = $2
		ORDER BY created_at
	`, round, string(StatusPending))
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки предсказаний тиража %d: %w", round, err)
	}
	defer rows.Close()

	var out []*Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) ApplySettlement(ctx context.Context, id string, matched, prizeRank int, prizeAmount int64, at time.Time) error {
	// Фильтр по статусу не даёт пересчитать уже рассчитанную строку.
	_, err := r.pool.Exec(ctx, `
		UPDATE predictions
		SET matched_count = $2, prize_rank = $3, prize_amount = $4,
		    status = $5, settled_at = $6
		WHERE id = $1 AND status = $7
	`, id, matched, prizeRank, prizeAmount, string(StatusSettled), at, string(StatusPending))
	if err != nil {
		return fmt.Errorf("ошибка записи расчёта: %w", err)
	}
	return nil
}

func (r *Repository) MarkVoided(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE predictions SET status = $2 WHERE id = $1
	`, id, string(StatusVoided))
	if err != nil {
		return fmt.Errorf("ошибка аннулирования предсказания: %w", err)
	}
	return nil
}

func (r *Repository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*Prediction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, round, strategy_key, numbers, confidence,
		       matched_count, prize_rank, prize_amount, status, settled_at, created_at
		FROM predictions
		WHERE account_id = $1 AND status != $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, accountID, string(StatusVoided), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения предсказаний счёта: %w", err)
	}
	defer rows.Close()

	var out []*Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanDraw(row pgx.Row) (*OfficialDraw, error) {
	var draw OfficialDraw
	var nums []int32
	if err := row.Scan(&draw.Round, &nums, &draw.Bonus, &draw.DrawDate); err != nil {
		return nil, err
	}
	draw.Numbers = fromInt32s(nums)
	return &draw, nil
}

func scanPrediction(row pgx.Row) (*Prediction, error) {
	var p Prediction
	var nums []int32
	var status string
	err := row.Scan(&p.ID, &p.AccountID, &p.Round, &p.StrategyKey, &nums, &p.Confidence,
		&p.MatchedCount, &p.PrizeRank, &p.PrizeAmount, &status, &p.SettledAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Numbers = fromInt32s(nums)
	p.Status = Status(status)
	return &p, nil
}

func toInt32s(nums []int) []int32 {
	out := make([]int32, len(nums))
	for i, n := range nums {
		out[i] = int32(n)
	}
	return out
}

func fromInt32s(nums []int32) []int {
	out := make([]int, len(nums))
	for i, n := range nums {
		out[i] = int(n)
	}
	return out
}
