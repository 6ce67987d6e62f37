// Package settlement — расчёт предсказаний по официальным тиражам.
//
// Официальные результаты пишет внешний синхронизатор, расчёт идемпотентен:
// выборка берёт только нерасчитанные предсказания, поэтому повторный
// запуск по тому же тиражу ничего не меняет. Выплата призов — отдельная
// операция журнала кредитов, расчёт её не выполняет.
package settlement

import "time"

// Status — статус предсказания в жизненном цикле.
type Status string

const (
	StatusPending Status = "pending" // ждёт официального тиража
	StatusSettled Status = "settled" // рассчитано, поля приза заполнены
	StatusVoided  Status = "voided"  // аннулировано, в расчётах не участвует
)

// OfficialDraw — официальный результат тиража: 6 чисел и бонусное.
type OfficialDraw struct {
	Round    int       `json:"round"`
	Numbers  []int     `json:"numbers"` // 6 различных, по возрастанию
	Bonus    int       `json:"bonus"`
	DrawDate time.Time `json:"draw_date"`
}

// Prediction — одна сгенерированная комбинация, привязанная к тиражу.
// Мутируется ровно один раз — расчётом своего тиража.
type Prediction struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"account_id"`
	Round        int        `json:"round"`
	StrategyKey  string     `json:"strategy_key"`
	Numbers      []int      `json:"numbers"` // 6 различных, по возрастанию
	Confidence   float64    `json:"confidence"`
	MatchedCount int        `json:"matched_count"`
	PrizeRank    int        `json:"prize_rank,omitempty"` // 1–5, 0 — без приза
	PrizeAmount  int64      `json:"prize_amount,omitempty"`
	Status       Status     `json:"status"`
	SettledAt    *time.Time `json:"settled_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// SimilarResult — прошлый тираж, похожий на запрошенную комбинацию.
type SimilarResult struct {
	Round        int     `json:"round"`
	Numbers      []int   `json:"numbers"`
	Bonus        int     `json:"bonus"`
	MatchedCount int     `json:"matched_count"`
	Score        float64 `json:"similarity_score"` // 0–100
}

// PrizeRank возвращает ранг приза по числу совпадений и бонусу.
// Таблица фиксированная, без случайности:
//
//	6 совпадений — 1-й ранг, 5 + бонус — 2-й, 5 — 3-й, 4 — 4-й, 3 — 5-й.
func PrizeRank(matched int, bonusMatched bool) int {
	switch {
	case matched == 6:
		return 1
	case matched == 5 && bonusMatched:
		return 2
	case matched == 5:
		return 3
	case matched == 4:
		return 4
	case matched == 3:
		return 5
	default:
		return 0
	}
}
