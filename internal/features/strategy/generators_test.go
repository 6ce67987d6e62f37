package strategy

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeHistory генерирует синтетическую историю тиражей заданной длины.
func makeHistory(n int, seed int64) [][]int {
	rng := rand.New(rand.NewSource(seed))
	history := make([][]int, 0, n)
	for i := 0; i < n; i++ {
		history = append(history, randomCombo(rng))
	}
	return history
}

// Все генераторы при любой длине истории и любом count обязаны вернуть
// ровно count корректных комбинаций.
func TestGenerators_ShapeForAllInputs(t *testing.T) {
	for key, gen := range generators {
		for _, histLen := range []int{0, 1, 49} {
			for _, count := range []int{1, 5, 10} {
				name := fmt.Sprintf("%s/history=%d/count=%d", key, histLen, count)
				t.Run(name, func(t *testing.T) {
					history := makeHistory(histLen, 42)
					rng := rand.New(rand.NewSource(7))

					combos := gen(history, count, rng)
					require.Len(t, combos, count)
					for _, combo := range combos {
						assert.True(t, ValidCombination(combo),
							"некорректная комбинация %v", combo)
					}
				})
			}
		}
	}
}

func TestFrequencyBalance_UsesHotAndCold(t *testing.T) {
	// История, где числа 1–6 выпадают в каждом тираже: они точно "горячие".
	history := make([][]int, 20)
	for i := range history {
		history[i] = []int{1, 2, 3, 4, 5, 6}
	}
	rng := rand.New(rand.NewSource(1))

	combos := generateFrequencyBalance(history, 10, rng)
	for _, combo := range combos {
		hot := 0
		for _, n := range combo {
			if n <= 6 {
				hot++
			}
		}
		assert.Equal(t, 3, hot, "ровно три горячих числа в %v", combo)
	}
}

func TestZoneDistribution_OnePerZone(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	combos := generateZoneDistribution(nil, 20, rng)
	for _, combo := range combos {
		zones := map[int]int{}
		for _, n := range combo {
			zones[(n-1)/9]++
		}
		// Пять зон заняты, в одной из них два числа.
		assert.Len(t, zones, 5, "комбинация %v не покрывает все зоны", combo)
	}
}

func TestSumRange_SumWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	combos := generateSumRange(nil, 50, rng)
	for _, combo := range combos {
		s := sumOf(combo)
		assert.True(t, s >= sumRangeMin && s <= sumRangeMax,
			"сумма %d вне диапазона для %v", s, combo)
	}
}

func TestMachineLearning_ShortHistoryFallsBack(t *testing.T) {
	// 9 тиражей — меньше порога, должен сработать частотный баланс.
	history := makeHistory(9, 5)
	rng := rand.New(rand.NewSource(5))
	combos := generateMachineLearning(history, 5, rng)
	require.Len(t, combos, 5)
	for _, combo := range combos {
		assert.True(t, ValidCombination(combo))
	}
}

func TestConsecutiveAbsence_PrefersUnseen(t *testing.T) {
	// В истории встречаются только числа 1–25: кандидаты 26–45 не выпадали
	// вовсе и обязаны доминировать в выборке.
	history := make([][]int, 30)
	rng := rand.New(rand.NewSource(11))
	for i := range history {
		history[i] = sampleFrom(rng, rangeInts(1, 25), 6)
	}
	for i := range history {
		sortCopy := append([]int(nil), history[i]...)
		history[i] = sortCopy
	}

	combos := generateConsecutiveAbsence(history, 10, rng)
	for _, combo := range combos {
		for _, n := range combo {
			assert.Greater(t, n, 25, "кандидат %d выпадал недавно: %v", n, combo)
		}
	}
}

func TestWeightedPick_RespectsZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	weights := make([]float64, 46)
	weights[17] = 1
	for i := 0; i < 100; i++ {
		assert.Equal(t, 17, weightedPick(rng, weights))
	}
}

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for n := lo; n <= hi; n++ {
		out = append(out, n)
	}
	return out
}
