package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityScore(t *testing.T) {
	// Полное совпадение — максимум.
	assert.InDelta(t, 100,
		SimilarityScore([]int{1, 2, 3, 4, 5, 6}, []int{1, 2, 3, 4, 5, 6}), 0.001)

	// Максимально непохожие комбинации: совпадений нет, числа далеко,
	// паттерны разные.
	low := SimilarityScore([]int{2, 4, 20, 22, 38, 40}, []int{9, 11, 13, 27, 29, 45})
	high := SimilarityScore([]int{1, 2, 3, 4, 5, 7}, []int{1, 2, 3, 4, 5, 6})
	assert.Less(t, low, high)

	// Частичное совпадение даёт как минимум вклад прямых совпадений.
	score := SimilarityScore([]int{1, 2, 3, 40, 41, 42}, []int{1, 2, 3, 10, 20, 30})
	assert.GreaterOrEqual(t, score, 3.0/6*70)
	assert.LessOrEqual(t, score, 100.0)
}

func TestConsecutivePairs(t *testing.T) {
	assert.Equal(t, 5, consecutivePairs([]int{1, 2, 3, 4, 5, 6}))
	assert.Equal(t, 0, consecutivePairs([]int{1, 3, 5, 7, 9, 11}))
	assert.Equal(t, 2, consecutivePairs([]int{1, 2, 10, 11, 20, 30}))
}

func TestPrizeRankTable(t *testing.T) {
	assert.Equal(t, 1, PrizeRank(6, false))
	assert.Equal(t, 1, PrizeRank(6, true)) // бонус не важен при 6 из 6
	assert.Equal(t, 2, PrizeRank(5, true))
	assert.Equal(t, 3, PrizeRank(5, false))
	assert.Equal(t, 4, PrizeRank(4, true))
	assert.Equal(t, 5, PrizeRank(3, false))
	assert.Equal(t, 0, PrizeRank(2, true))
	assert.Equal(t, 0, PrizeRank(0, false))
}
