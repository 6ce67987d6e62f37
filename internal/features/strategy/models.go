// Package strategy — движок генерации лотерейных комбинаций.
//
// Одиннадцать стратегий, выбираемых по строковому ключу. Каждая стратегия
// принимает историю тиражей и возвращает count комбинаций по 6 различных
// чисел 1–45 в порядке возрастания. Движок сверх генерации считает
// уверенность, проверяет права тарифа и валидирует форму результата.
package strategy

import (
	"math/rand"

	"lotto-backend/internal/features/ledger"
)

// Generator — одна стратегия генерации.
// history отсортирована от свежих тиражей к старым. Генератор обязан
// корректно работать при пустой истории и никогда не возвращать ошибку.
type Generator func(history [][]int, count int, rng *rand.Rand) [][]int

// Category — группа стратегий для витрины.
type Category string

const (
	CategoryStatistical  Category = "statistical"
	CategoryRandom       Category = "random"
	CategoryPattern      Category = "pattern"
	CategoryML           Category = "ml"
	CategoryMathematical Category = "mathematical"
	CategoryAI           Category = "ai"
	CategoryFortune      Category = "fortune"
)

// Definition — метаданные стратегии в реестре.
type Definition struct {
	Key             string      `json:"key"`
	Name            string      `json:"name"`
	DisplayName     string      `json:"display_name"`
	Description     string      `json:"description"`
	Cost            int64       `json:"cost"` // кредитов за одну комбинацию
	Category        Category    `json:"category"`
	MinTier         ledger.Tier `json:"min_tier"`
	RequiresFortune bool        `json:"requires_fortune,omitempty"`
	BaseConfidence  float64     `json:"-"`
}

// Context — контекст вызова генерации: кто просит и что ему доступно.
type Context struct {
	AccountID    string
	Tier         ledger.Tier
	FortuneReady bool // заполнен ли профиль для стратегии "по удаче"
}

// Result — итог генерации.
type Result struct {
	StrategyKey  string  `json:"strategy_key"`
	Combinations [][]int `json:"combinations"`
	Confidence   float64 `json:"confidence"`
	Cost         int64   `json:"cost"` // суммарная стоимость списания
}
