// Package settlement — store.go: контракт хранилища тиражей и предсказаний.
package settlement

import (
	"context"
	"time"
)

// Store — хранилище официальных тиражей и предсказаний.
type Store interface {
	// SaveDraw сохраняет официальный тираж (повторная запись того же
	// номера перезаписывает данные: синхронизатор может уточнить их).
	SaveDraw(ctx context.Context, draw *OfficialDraw) error

	// GetDraw возвращает тираж по номеру (nil, если его ещё нет).
	GetDraw(ctx context.Context, round int) (*OfficialDraw, error)

	// RecentDraws возвращает последние тиражи от свежих к старым.
	RecentDraws(ctx context.Context, limit int) ([]*OfficialDraw, error)

	// CreatePrediction сохраняет новое предсказание.
	CreatePrediction(ctx context.Context, p *Prediction) error

	// GetPrediction возвращает предсказание по id (nil, если нет).
	GetPrediction(ctx context.Context, id string) (*Prediction, error)

	// PendingForRound возвращает нерасчитанные неаннулированные
	// предсказания тиража. Выборка по статусу и делает расчёт
	// идемпотентным: рассчитанные строки сюда больше не попадают.
	PendingForRound(ctx context.Context, round int) ([]*Prediction, error)

	// ApplySettlement записывает результат расчёта одного предсказания
	// и переводит его в статус settled.
	ApplySettlement(ctx context.Context, id string, matched, prizeRank int, prizeAmount int64, at time.Time) error

	// MarkVoided аннулирует предсказание.
	MarkVoided(ctx context.Context, id string) error

	// ListByAccount возвращает предсказания счёта от свежих к старым,
	// аннулированные не включаются.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*Prediction, error)
}
