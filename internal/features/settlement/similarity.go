// Package settlement — similarity.go: похожесть комбинации на тираж.
package settlement

import "math"

// SimilarityScore оценивает похожесть двух комбинаций по шкале 0–100.
//
// Состав оценки: 70% — прямые совпадения, 20% — близость чисел
// (до 5 позиций разницы), 10% — похожесть паттернов (доля
// последовательных пар и распределение чёт/нечет).
func SimilarityScore(query, winning []int) float64 {
	direct := matchedCount(query, winning)
	directScore := float64(direct) / 6 * 70

	proximity := 0.0
	for _, q := range query {
		minDist := math.MaxInt
		for _, w := range winning {
			if d := abs(q - w); d < minDist {
				minDist = d
			}
		}
		proximity += math.Max(0, float64(5-minDist)/5)
	}
	proximityScore := proximity / 6 * 20

	consecutiveSim := 1 - math.Abs(float64(consecutivePairs(query)-consecutivePairs(winning)))/6
	oddEvenSim := 1 - math.Abs(float64(oddCount(query)-oddCount(winning)))/6
	patternScore := (consecutiveSim + oddEvenSim) / 2 * 10

	return math.Min(100, directScore+proximityScore+patternScore)
}

// matchedCount считает размер пересечения двух комбинаций.
func matchedCount(a, b []int) int {
	set := map[int]bool{}
	for _, n := range a {
		set[n] = true
	}
	count := 0
	for _, n := range b {
		if set[n] {
			count++
		}
	}
	return count
}

// consecutivePairs считает пары соседних по значению чисел
// (комбинация отсортирована по возрастанию).
func consecutivePairs(nums []int) int {
	count := 0
	for i := 0; i+1 < len(nums); i++ {
		if nums[i+1]-nums[i] == 1 {
			count++
		}
	}
	return count
}

func oddCount(nums []int) int {
	count := 0
	for _, n := range nums {
		if n%2 == 1 {
			count++
		}
	}
	return count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
