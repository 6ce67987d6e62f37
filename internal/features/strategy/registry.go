// Package strategy — registry.go: реестр стратегий и их метаданные.
package strategy

import (
	"sort"

	"lotto-backend/internal/features/ledger"
)

// Ключи стратегий. Хранятся в БД в поле strategy_key предсказаний,
// переименование сломает уже сохранённые записи.
const (
	KeyFrequencyBalance   = "frequency_balance"
	KeyRandom             = "random"
	KeyZoneDistribution   = "zone_distribution"
	KeyPatternSimilarity  = "pattern_similarity"
	KeyMachineLearning    = "machine_learning"
	KeyConsecutiveAbsence = "consecutive_absence"
	KeyWinnerPattern      = "winner_pattern"
	KeyGoldenRatio        = "golden_ratio"
	KeySumRange           = "sum_range"
	KeyAICustom           = "ai_custom"
	KeyFortuneBased       = "fortune_based"
)

var definitions = map[string]Definition{
	KeyFrequencyBalance: {
		Key: KeyFrequencyBalance, Name: "Частотный баланс",
		DisplayName: "Горячие и холодные числа",
		Description: "Три часто выпадающих числа плюс три редких",
		Cost:        1, Category: CategoryStatistical,
		MinTier: ledger.TierFree, BaseConfidence: 0.70,
	},
	KeyRandom: {
		Key: KeyRandom, Name: "Случайная генерация",
		DisplayName: "Полный рандом",
		Description: "Шесть чисел из 1–45 полностью случайно",
		Cost:        1, Category: CategoryRandom,
		MinTier: ledger.TierFree, BaseConfidence: 0.50,
	},
	KeyZoneDistribution: {
		Key: KeyZoneDistribution, Name: "Распределение по зонам",
		DisplayName: "Равномерно по пяти зонам",
		Description: "Диапазон 1–45 делится на пять зон, по числу из каждой",
		Cost:        1, Category: CategoryStatistical,
		MinTier: ledger.TierFree, BaseConfidence: 0.60,
	},
	KeyPatternSimilarity: {
		Key: KeyPatternSimilarity, Name: "Похожесть паттернов",
		DisplayName: "Анализ чёт/нечет",
		Description: "Повторяет соотношение чётных и нечётных недавних тиражей",
		Cost:        1, Category: CategoryPattern,
		MinTier: ledger.TierFree, BaseConfidence: 0.65,
	},
	KeyMachineLearning: {
		Key: KeyMachineLearning, Name: "Машинное обучение",
		DisplayName: "Частотный AI-анализ",
		Description: "Вероятностный выбор с весами по исторической частоте",
		Cost:        2, Category: CategoryML,
		MinTier: ledger.TierFree, BaseConfidence: 0.75,
	},
	KeyConsecutiveAbsence: {
		Key: KeyConsecutiveAbsence, Name: "Анализ отсутствия",
		DisplayName: "Давно не выпадавшие",
		Description: "Ставка на числа, которых давно не было в тиражах",
		Cost:        1, Category: CategoryStatistical,
		MinTier: ledger.TierFree, BaseConfidence: 0.62,
	},
	KeyWinnerPattern: {
		Key: KeyWinnerPattern, Name: "Паттерн победителей",
		DisplayName: "Анализ выигрышных сумм",
		Description: "Подбирает комбинации по сумме и распределению прошлых побед",
		Cost:        1, Category: CategoryPattern,
		MinTier: ledger.TierFree, BaseConfidence: 0.68,
	},
	KeyGoldenRatio: {
		Key: KeyGoldenRatio, Name: "Золотое сечение",
		DisplayName: "Фибоначчи и золотая пропорция",
		Description: "Математический подход на числах Фибоначчи",
		Cost:        1, Category: CategoryMathematical,
		MinTier: ledger.TierFree, BaseConfidence: 0.58,
	},
	KeySumRange: {
		Key: KeySumRange, Name: "Диапазон суммы",
		DisplayName: "Оптимальная сумма",
		Description: "Комбинации с суммой в статистически частом диапазоне 100–150",
		Cost:        1, Category: CategoryStatistical,
		MinTier: ledger.TierFree, BaseConfidence: 0.64,
	},
	KeyAICustom: {
		Key: KeyAICustom, Name: "AI-подбор",
		DisplayName: "VIP AI-анализ",
		Description: "Многофакторный анализ со временными весами",
		Cost:        0, Category: CategoryAI,
		MinTier: ledger.TierVIP, BaseConfidence: 0.85,
	},
	KeyFortuneBased: {
		Key: KeyFortuneBased, Name: "По удаче",
		DisplayName: "Счастливые числа дня",
		Description: "Комбинации из персональных счастливых чисел на сегодня",
		Cost:        1, Category: CategoryFortune,
		MinTier: ledger.TierFree, RequiresFortune: true, BaseConfidence: 0.72,
	},
}

// Lookup возвращает определение стратегии по ключу.
func Lookup(key string) (Definition, bool) {
	def, ok := definitions[key]
	return def, ok
}

// All возвращает все стратегии, отсортированные по ключу.
func All() []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ListAvailable возвращает стратегии, доступные тарифу.
// Стратегия "по удаче" показывается только при заполненном профиле.
func ListAvailable(tier ledger.Tier, fortuneReady bool) []Definition {
	out := make([]Definition, 0, len(definitions))
	for _, def := range definitions {
		if tier.Rank() < def.MinTier.Rank() {
			continue
		}
		if def.RequiresFortune && !fortuneReady {
			continue
		}
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
