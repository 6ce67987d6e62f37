// Package fortune — sample.go содержит выборку без повторений.
package fortune

import (
	"math/rand"
	"sort"
)

// SampleRange выбирает k различных чисел из [lo, hi] и возвращает их
// по возрастанию. Частичный Fisher–Yates: перемешиваем первые k позиций.
func SampleRange(rng *rand.Rand, lo, hi, k int) []int {
	n := hi - lo + 1
	if k > n {
		k = n
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = lo + i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	out := append([]int(nil), pool[:k]...)
	sort.Ints(out)
	return out
}
