// Package strategy — engine.go: диспетчеризация, проверка прав и валидация.
package strategy

import (
	"math"
	"math/rand"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"lotto-backend/internal/common"
	"lotto-backend/internal/features/fortune"
)

// Engine выполняет генерацию по ключу стратегии.
//
// Состояния у движка нет, кроме источника времени: каждый вызов создаёт
// собственный *rand.Rand, поэтому конкурентные запросы не делят
// последовательность псевдослучайных чисел.
type Engine struct {
	now func() time.Time
}

// NewEngine создаёт движок стратегий.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Generate генерирует count комбинаций выбранной стратегией.
//
// Порядок проверок: существование стратегии, тариф, полнота профиля.
// Списание кредитов здесь НЕ происходит — движок лишь сообщает стоимость,
// списывает вызывающая сторона через журнал кредитов.
func (e *Engine) Generate(strategyKey string, history [][]int, count int, ctx Context) (*Result, error) {
	def, ok := Lookup(strategyKey)
	if !ok {
		return nil, common.ErrUnknownStrategy
	}
	if ctx.Tier.Rank() < def.MinTier.Rank() {
		return nil, common.ErrTierRequired
	}
	if def.RequiresFortune && !ctx.FortuneReady {
		return nil, common.ErrFeatureIncomplete
	}
	if count < 1 {
		count = 1
	}

	rng := rand.New(rand.NewSource(e.now().UnixNano()))

	var combos [][]int
	if def.Key == KeyFortuneBased {
		combos = e.fortuneCombos(ctx.AccountID, count)
	} else {
		combos = generators[def.Key](history, count, rng)
	}

	for _, combo := range combos {
		if !ValidCombination(combo) {
			// Дефект генератора, а не пользовательская ошибка:
			// логируем громче обычных отказов.
			log.WithFields(log.Fields{
				"strategy": def.Key,
				"combo":    combo,
			}).Error("Стратегия вернула некорректную комбинацию")
			return nil, common.ErrInvalidCombination
		}
	}

	return &Result{
		StrategyKey:  def.Key,
		Combinations: combos,
		Confidence:   confidence(def.BaseConfidence, len(history), rng),
		Cost:         def.Cost * int64(count),
	}, nil
}

// fortuneCombos строит комбинации из семи счастливых чисел дня:
// каждая комбинация — семёрка без одного числа. Выбор выбрасываемого
// числа сидируется от (аккаунт, дата), поэтому повторный вызов в тот же
// день даёт побитово тот же результат, в том числе после рестарта.
func (e *Engine) fortuneCombos(accountID string, count int) [][]int {
	today := e.now()
	lucky := fortune.LuckyNumbers(accountID, today)
	rng := fortune.NewRand(accountID, today, fortune.PurposeCombo)

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		if len(lucky) < comboSize {
			// Счастливых чисел меньше шести: добираем равномерно.
			combo := append([]int(nil), lucky...)
			pool := make([]int, 0, numberMax)
			for n := numberMin; n <= numberMax; n++ {
				if !containsInt(combo, n) {
					pool = append(pool, n)
				}
			}
			combo = append(combo, sampleFrom(rng, pool, comboSize-len(combo))...)
			sort.Ints(combo)
			out = append(out, combo)
			continue
		}
		drop := rng.Intn(len(lucky))
		combo := make([]int, 0, comboSize)
		for idx, n := range lucky {
			if idx == drop {
				continue
			}
			combo = append(combo, n)
		}
		out = append(out, combo[:comboSize])
	}
	return out
}

// ValidCombination проверяет форму комбинации: ровно 6 различных чисел
// 1–45 строго по возрастанию.
func ValidCombination(combo []int) bool {
	if len(combo) != comboSize {
		return false
	}
	for i, n := range combo {
		if n < numberMin || n > numberMax {
			return false
		}
		if i > 0 && combo[i-1] >= n {
			return false
		}
	}
	return true
}

// confidence считает оценку уверенности:
// base + min(история/50, 1)*0.1 + равномерный шум ±0.05,
// обрезка в [0.1, 0.95], округление до трёх знаков.
// Оценка сугубо информационная и на генерацию не влияет.
func confidence(base float64, historyLen int, rng *rand.Rand) float64 {
	c := base
	if historyLen > 0 {
		c += math.Min(float64(historyLen)/50, 1) * 0.1
	}
	c += rng.Float64()*0.1 - 0.05
	c = math.Max(0.1, math.Min(0.95, c))
	return math.Round(c*1000) / 1000
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
