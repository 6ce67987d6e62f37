package strategy

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lotto-backend/internal/common"
	"lotto-backend/internal/features/ledger"
)

func fixedEngine(at time.Time) *Engine {
	e := NewEngine()
	e.now = func() time.Time { return at }
	return e
}

func freeCtx() Context {
	return Context{AccountID: "acc-1", Tier: ledger.TierFree, FortuneReady: true}
}

func TestGenerate_UnknownStrategy(t *testing.T) {
	e := NewEngine()
	_, err := e.Generate("hot_streak", nil, 1, freeCtx())
	assert.ErrorIs(t, err, common.ErrUnknownStrategy)
}

func TestGenerate_TierRequired(t *testing.T) {
	e := NewEngine()
	_, err := e.Generate(KeyAICustom, nil, 1, freeCtx())
	assert.ErrorIs(t, err, common.ErrTierRequired)

	ctx := Context{AccountID: "vip-1", Tier: ledger.TierVIP}
	res, err := e.Generate(KeyAICustom, makeHistory(25, 1), 3, ctx)
	require.NoError(t, err)
	assert.Len(t, res.Combinations, 3)
	assert.Zero(t, res.Cost, "VIP-стратегия со списком цен 0")
}

func TestGenerate_FortuneRequiresProfile(t *testing.T) {
	e := NewEngine()
	ctx := freeCtx()
	ctx.FortuneReady = false
	_, err := e.Generate(KeyFortuneBased, nil, 1, ctx)
	assert.ErrorIs(t, err, common.ErrFeatureIncomplete)
}

func TestGenerate_AllStrategiesShape(t *testing.T) {
	e := NewEngine()
	vip := Context{AccountID: "vip-1", Tier: ledger.TierVIP, FortuneReady: true}
	for _, def := range All() {
		for _, histLen := range []int{0, 1, 49} {
			res, err := e.Generate(def.Key, makeHistory(histLen, 21), 5, vip)
			require.NoError(t, err, "стратегия %s", def.Key)
			require.Len(t, res.Combinations, 5)
			for _, combo := range res.Combinations {
				assert.True(t, ValidCombination(combo),
					"%s вернула %v", def.Key, combo)
			}
			assert.GreaterOrEqual(t, res.Confidence, 0.1)
			assert.LessOrEqual(t, res.Confidence, 0.95)
		}
	}
}

func TestGenerate_CostScalesWithCount(t *testing.T) {
	e := NewEngine()
	res, err := e.Generate(KeyMachineLearning, makeHistory(15, 2), 5, freeCtx())
	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Cost, "стоимость 2 кредита × 5 комбинаций")
}

func TestGenerate_FortuneDeterministicSameDay(t *testing.T) {
	day := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	first, err := fixedEngine(day).Generate(KeyFortuneBased, nil, 5, freeCtx())
	require.NoError(t, err)
	// Тот же день, другое время суток и другой процессный rand —
	// комбинации обязаны совпасть побитово.
	second, err := fixedEngine(day.Add(8 * time.Hour)).Generate(KeyFortuneBased, nil, 5, freeCtx())
	require.NoError(t, err)
	assert.Equal(t, first.Combinations, second.Combinations)

	next, err := fixedEngine(day.AddDate(0, 0, 1)).Generate(KeyFortuneBased, nil, 5, freeCtx())
	require.NoError(t, err)
	assert.NotEqual(t, first.Combinations, next.Combinations,
		"следующий день — другие комбинации")
}

func TestGenerate_FortuneCombosComeFromLuckyNumbers(t *testing.T) {
	day := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	res, err := fixedEngine(day).Generate(KeyFortuneBased, nil, 3, freeCtx())
	require.NoError(t, err)

	// Каждая комбинация — семёрка счастливых чисел без одного.
	for _, combo := range res.Combinations {
		require.Len(t, combo, 6)
	}
}

func TestConfidence_Formula(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		c := confidence(0.70, 49, rng)
		// 0.70 + 49/50*0.1 = 0.798, шум ±0.05
		assert.InDelta(t, 0.798, c, 0.0501)
		assert.Equal(t, c, math.Round(c*1000)/1000, "округление до трёх знаков")
	}

	// Пустая история не даёт бонуса за данные.
	for i := 0; i < 200; i++ {
		c := confidence(0.50, 0, rng)
		assert.InDelta(t, 0.50, c, 0.0501)
	}

	// Обрезка сверху.
	for i := 0; i < 200; i++ {
		assert.LessOrEqual(t, confidence(0.95, 50, rng), 0.95)
	}
}

func TestListAvailable(t *testing.T) {
	free := ListAvailable(ledger.TierFree, false)
	for _, def := range free {
		assert.NotEqual(t, KeyAICustom, def.Key, "VIP-стратегия скрыта от Free")
		assert.NotEqual(t, KeyFortuneBased, def.Key, "без профиля нет стратегии по удаче")
	}
	assert.Len(t, free, 9)

	vip := ListAvailable(ledger.TierVIP, true)
	assert.Len(t, vip, 11)
}
