// Package strategy — generators.go: алгоритмы одиннадцати стратегий.
//
// Общие правила для всех генераторов:
//   - история отсортирована от свежих тиражей к старым;
//   - пустая история не ошибка, а повод откатиться к равномерной выборке;
//   - результат всегда count комбинаций по 6 различных чисел 1–45
//     в порядке возрастания.
package strategy

import (
	"math"
	"math/rand"
	"sort"

	"lotto-backend/internal/features/fortune"
)

const (
	numberMin  = 1
	numberMax  = 45
	comboSize  = 6
	lowZoneMax = 22 // граница "низкой" половины диапазона
)

// generators — таблица диспетчеризации. Стратегия "по удаче" отсутствует:
// ей нужен контекст аккаунта, её собирает движок отдельно.
var generators = map[string]Generator{
	KeyFrequencyBalance:   generateFrequencyBalance,
	KeyRandom:             generateRandom,
	KeyZoneDistribution:   generateZoneDistribution,
	KeyPatternSimilarity:  generatePatternSimilarity,
	KeyMachineLearning:    generateMachineLearning,
	KeyConsecutiveAbsence: generateConsecutiveAbsence,
	KeyWinnerPattern:      generateWinnerPattern,
	KeyGoldenRatio:        generateGoldenRatio,
	KeySumRange:           generateSumRange,
	KeyAICustom:           generateAICustom,
}

// randomCombo — равномерная выборка 6 различных чисел.
func randomCombo(rng *rand.Rand) []int {
	return fortune.SampleRange(rng, numberMin, numberMax, comboSize)
}

// generateRandom — полностью случайные комбинации, история игнорируется.
func generateRandom(_ [][]int, count int, rng *rand.Rand) [][]int {
	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, randomCombo(rng))
	}
	return out
}

// occurrences считает появления каждого числа по всей переданной истории.
// Невыпадавшие числа получают ноль, а не исключаются.
func occurrences(history [][]int) [numberMax + 1]int {
	var counts [numberMax + 1]int
	for _, draw := range history {
		for _, n := range draw {
			if n >= numberMin && n <= numberMax {
				counts[n]++
			}
		}
	}
	return counts
}

// rankByCount возвращает все 45 чисел, отсортированные по убыванию частоты
// (при равенстве — по возрастанию номера, чтобы порядок был стабильным).
func rankByCount(counts [numberMax + 1]int) []int {
	ranked := make([]int, 0, numberMax)
	for n := numberMin; n <= numberMax; n++ {
		ranked = append(ranked, n)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

// sampleFrom выбирает k различных элементов из pool (pool не модифицируется).
func sampleFrom(rng *rand.Rand, pool []int, k int) []int {
	if k > len(pool) {
		k = len(pool)
	}
	tmp := append([]int(nil), pool...)
	rng.Shuffle(len(tmp), func(i, j int) { tmp[i], tmp[j] = tmp[j], tmp[i] })
	return tmp[:k]
}

// generateFrequencyBalance — 3 "горячих" числа из топ-14 по частоте
// плюс 3 "холодных" из нижних 14.
func generateFrequencyBalance(history [][]int, count int, rng *rand.Rand) [][]int {
	if len(history) == 0 {
		return generateRandom(history, count, rng)
	}

	ranked := rankByCount(occurrences(history))
	hot := ranked[:14]
	cold := ranked[len(ranked)-14:]

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		combo := append(sampleFrom(rng, hot, 3), sampleFrom(rng, cold, 3)...)
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

// generateZoneDistribution — по одному числу из каждой из пяти зон
// шириной 9 (1–9, 10–18, ..., 37–45) плюс одно из оставшихся.
func generateZoneDistribution(_ [][]int, count int, rng *rand.Rand) [][]int {
	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		combo := make([]int, 0, comboSize)
		taken := map[int]bool{}
		for zone := 0; zone < 5; zone++ {
			n := zone*9 + 1 + rng.Intn(9)
			combo = append(combo, n)
			taken[n] = true
		}
		remaining := make([]int, 0, numberMax-5)
		for n := numberMin; n <= numberMax; n++ {
			if !taken[n] {
				remaining = append(remaining, n)
			}
		}
		combo = append(combo, remaining[rng.Intn(len(remaining))])
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

// generatePatternSimilarity повторяет среднее соотношение нечётных и чётных
// чисел последних 20 тиражей с колебанием ±1.
func generatePatternSimilarity(history [][]int, count int, rng *rand.Rand) [][]int {
	if len(history) == 0 {
		return generateRandom(history, count, rng)
	}

	recent := history[:min(20, len(history))]
	totalOdd := 0
	for _, draw := range recent {
		for _, n := range draw {
			if n%2 == 1 {
				totalOdd++
			}
		}
	}
	avgOdd := totalOdd / len(recent)

	odds := make([]int, 0, 23)
	evens := make([]int, 0, 22)
	for n := numberMin; n <= numberMax; n++ {
		if n%2 == 1 {
			odds = append(odds, n)
		} else {
			evens = append(evens, n)
		}
	}

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		oddCount := clampInt(avgOdd+rng.Intn(3)-1, 0, comboSize)
		combo := append(sampleFrom(rng, odds, oddCount), sampleFrom(rng, evens, comboSize-oddCount)...)
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

// generateMachineLearning — взвешенная выборка без возврата: вес числа
// равен частоте в последних 30 тиражах плюс единица (аддитивное сглаживание).
// При истории короче 10 тиражей откатывается к частотному балансу.
func generateMachineLearning(history [][]int, count int, rng *rand.Rand) [][]int {
	if len(history) < 10 {
		return generateFrequencyBalance(history, count, rng)
	}

	counts := occurrences(history[:min(30, len(history))])
	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		weights := make([]float64, numberMax+1)
		for n := numberMin; n <= numberMax; n++ {
			weights[n] = float64(counts[n] + 1)
		}
		combo := make([]int, 0, comboSize)
		for len(combo) < comboSize {
			n := weightedPick(rng, weights)
			combo = append(combo, n)
			weights[n] = 0 // без возврата
		}
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

// weightedPick выбирает индекс пропорционально весу (нулевые веса пропускаются).
func weightedPick(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total
	for n, w := range weights {
		if w == 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return n
		}
	}
	// Числовая погрешность на границе: берём последнее ненулевое.
	for n := len(weights) - 1; n >= 0; n-- {
		if weights[n] > 0 {
			return n
		}
	}
	return numberMin
}

// generateConsecutiveAbsence — выборка из 20 чисел, дольше всего
// не появлявшихся в истории (невиданные получают полную длину истории).
func generateConsecutiveAbsence(history [][]int, count int, rng *rand.Rand) [][]int {
	if len(history) == 0 {
		return generateRandom(history, count, rng)
	}

	lastSeen := map[int]int{}
	for idx, draw := range history {
		for _, n := range draw {
			if _, ok := lastSeen[n]; !ok {
				lastSeen[n] = idx
			}
		}
	}
	absence := make([]int, numberMax+1)
	for n := numberMin; n <= numberMax; n++ {
		if idx, ok := lastSeen[n]; ok {
			absence[n] = idx
		} else {
			absence[n] = len(history)
		}
	}

	ranked := make([]int, 0, numberMax)
	for n := numberMin; n <= numberMax; n++ {
		ranked = append(ranked, n)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if absence[ranked[i]] != absence[ranked[j]] {
			return absence[ranked[i]] > absence[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	candidates := ranked[:20]

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		combo := sampleFrom(rng, candidates, comboSize)
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

// generateWinnerPattern подбирает комбинации под статистику последних
// 20 тиражей: сумма в пределах одного стандартного отклонения от средней,
// соотношение низких (≤22) и высоких чисел около среднего ±1.
// После 100 неудачных попыток — равномерная выборка.
func generateWinnerPattern(history [][]int, count int, rng *rand.Rand) [][]int {
	if len(history) < 5 {
		return generateFrequencyBalance(history, count, rng)
	}

	recent := history[:min(20, len(history))]
	sumMean, sumStd := sumStats(recent)

	totalLow := 0
	for _, draw := range recent {
		for _, n := range draw {
			if n <= lowZoneMax {
				totalLow++
			}
		}
	}
	avgLow := float64(totalLow) / float64(len(recent))

	lows := make([]int, 0, lowZoneMax)
	highs := make([]int, 0, numberMax-lowZoneMax)
	for n := numberMin; n <= numberMax; n++ {
		if n <= lowZoneMax {
			lows = append(lows, n)
		} else {
			highs = append(highs, n)
		}
	}

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		found := false
		for attempt := 0; attempt < 100; attempt++ {
			targetLow := clampInt(int(avgLow)+rng.Intn(3)-1, 1, 5)
			combo := append(sampleFrom(rng, lows, targetLow), sampleFrom(rng, highs, comboSize-targetLow)...)
			s := sumOf(combo)
			if float64(s) >= sumMean-sumStd && float64(s) <= sumMean+sumStd {
				sort.Ints(combo)
				out = append(out, combo)
				found = true
				break
			}
		}
		if !found {
			out = append(out, randomCombo(rng))
		}
	}
	return out
}

// sumStats возвращает среднее и стандартное отклонение сумм тиражей.
func sumStats(draws [][]int) (mean, std float64) {
	for _, draw := range draws {
		mean += float64(sumOf(draw))
	}
	mean /= float64(len(draws))
	for _, draw := range draws {
		d := float64(sumOf(draw)) - mean
		std += d * d
	}
	std = math.Sqrt(std / float64(len(draws)))
	return mean, std
}

// generateGoldenRatio — 2–3 числа Фибоначчи плюс 1–2 числа, полученных
// умножением Фибоначчи на 1.618, остаток равномерно.
func generateGoldenRatio(_ [][]int, count int, rng *rand.Rand) [][]int {
	fib := []int{1, 2, 3, 5, 8, 13, 21, 34}
	golden := make([]int, 0, len(fib))
	for _, f := range fib {
		g := int(float64(f) * 1.618)
		if g >= numberMin && g <= numberMax {
			golden = append(golden, g)
		}
	}

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		taken := map[int]bool{}
		combo := make([]int, 0, comboSize)

		for _, n := range sampleFrom(rng, fib, 2+rng.Intn(2)) {
			if !taken[n] {
				combo = append(combo, n)
				taken[n] = true
			}
		}
		avail := make([]int, 0, len(golden))
		for _, g := range golden {
			if !taken[g] {
				avail = append(avail, g)
			}
		}
		for _, n := range sampleFrom(rng, avail, 1+rng.Intn(2)) {
			combo = append(combo, n)
			taken[n] = true
		}

		remaining := make([]int, 0, numberMax)
		for n := numberMin; n <= numberMax; n++ {
			if !taken[n] {
				remaining = append(remaining, n)
			}
		}
		combo = append(combo, sampleFrom(rng, remaining, comboSize-len(combo))...)
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

// Диапазон сумм, в который попадает большинство реальных тиражей.
const (
	sumRangeMin = 100
	sumRangeMax = 150
)

// generateSumRange — отбор комбинаций с суммой в [100, 150].
// После 1000 неудач комбинация строится конструктивно вокруг середины
// диапазона.
func generateSumRange(_ [][]int, count int, rng *rand.Rand) [][]int {
	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		found := false
		for attempt := 0; attempt < 1000; attempt++ {
			combo := randomCombo(rng)
			if s := sumOf(combo); s >= sumRangeMin && s <= sumRangeMax {
				out = append(out, combo)
				found = true
				break
			}
		}
		if !found {
			out = append(out, buildTargetSumCombo(rng))
		}
	}
	return out
}

// buildTargetSumCombo собирает комбинацию, целясь в середину диапазона:
// пять чисел около среднего значения, шестое закрывает остаток суммы.
func buildTargetSumCombo(rng *rand.Rand) []int {
	target := (sumRangeMin + sumRangeMax) / 2
	base := target / comboSize

	taken := map[int]bool{}
	combo := make([]int, 0, comboSize)
	remaining := target
	for i := 0; i < comboSize-1; i++ {
		n := clampInt(base-5+rng.Intn(11), numberMin, numberMax)
		for taken[n] {
			n = numberMin + rng.Intn(numberMax)
		}
		combo = append(combo, n)
		taken[n] = true
		remaining -= n
	}
	last := clampInt(remaining, numberMin, numberMax)
	for taken[last] {
		last = numberMin + rng.Intn(numberMax)
	}
	combo = append(combo, last)
	sort.Ints(combo)
	return combo
}

// generateAICustom — многофакторный подбор: частоты со временными весами
// (свежие тиражи тяжелее), 4 числа из топ-20 кандидатов, до одного
// "соседа" (±1 от базовых) и добор равномерно.
// При истории короче 20 тиражей откатывается к машинному обучению.
func generateAICustom(history [][]int, count int, rng *rand.Rand) [][]int {
	if len(history) < 20 {
		return generateMachineLearning(history, count, rng)
	}

	recent := history[:min(30, len(history))]
	score := make([]int, numberMax+1)
	for i, draw := range recent {
		weight := float64(len(recent)-i) / float64(len(recent))
		for _, n := range draw {
			if n >= numberMin && n <= numberMax {
				score[n] += int(weight*10) + 1
			}
		}
	}

	ranked := make([]int, 0, numberMax)
	for n := numberMin; n <= numberMax; n++ {
		ranked = append(ranked, n)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if score[ranked[i]] != score[ranked[j]] {
			return score[ranked[i]] > score[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	top := ranked[:20]

	out := make([][]int, 0, count)
	for i := 0; i < count; i++ {
		combo := sampleFrom(rng, top, 4)
		taken := map[int]bool{}
		for _, n := range combo {
			taken[n] = true
		}

		// Соседние числа учитывают склонность к последовательным парам.
		neighbors := make([]int, 0, 8)
		for _, n := range combo {
			for _, off := range []int{-1, 1} {
				c := n + off
				if c >= numberMin && c <= numberMax && !taken[c] {
					neighbors = append(neighbors, c)
					taken[c] = true
				}
			}
		}
		for _, t := range neighbors {
			taken[t] = false
		}
		if len(neighbors) > 0 {
			n := neighbors[rng.Intn(len(neighbors))]
			combo = append(combo, n)
			taken[n] = true
		}

		remaining := make([]int, 0, numberMax)
		for n := numberMin; n <= numberMax; n++ {
			if !taken[n] {
				remaining = append(remaining, n)
			}
		}
		combo = append(combo, sampleFrom(rng, remaining, comboSize-len(combo))...)
		sort.Ints(combo)
		out = append(out, combo)
	}
	return out
}

func sumOf(nums []int) int {
	s := 0
	for _, n := range nums {
		s += n
	}
	return s
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
