// Package fortune — service.go собирает дневную удачу пользователя.
//
// Все значения — чистые функции от (субъект, дата): кешировать их в БД
// не нужно, повторный вызов в тот же день даёт тот же результат.
// Цвет дня общий для всех пользователей (сид только от даты).
package fortune

import (
	"time"
)

// Scores — оценки по категориям (та же шкала, что в мобильном клиенте).
type Scores struct {
	Overall int `json:"overall"` // 60–95
	Wealth  int `json:"wealth"`  // 50–90
	Lottery int `json:"lottery"` // 55–100
	Love    int `json:"love"`    // 50–95
	Career  int `json:"career"`  // 55–95
	Health  int `json:"health"`  // 60–95
}

// Daily — полная дневная удача: номера, цвет, направление и сообщения.
type Daily struct {
	Date         string   `json:"date"`
	LuckyNumbers []int    `json:"lucky_numbers"` // 7 чисел 1–45, по возрастанию
	Scores       Scores   `json:"scores"`
	Color        string   `json:"color"`
	ColorHex     string   `json:"color_hex"`
	Direction    string   `json:"direction"`
	TimeSlot     string   `json:"time_slot"`
	Item         string   `json:"item"`
	Message      string   `json:"message"`
	Warning      string   `json:"warning"`
}

// Каталоги значений. Содержимое стабильно: индексация идёт по
// детерминированным генераторам, перестановка элементов сломает
// воспроизводимость уже выданных прогнозов.
var (
	luckyColors = []string{
		"красный", "оранжевый", "жёлтый", "зелёный", "синий", "индиго",
		"фиолетовый", "розовый", "белый", "чёрный", "золотой", "серебряный",
	}

	colorHex = map[string]string{
		"красный": "#EF4444", "оранжевый": "#F97316", "жёлтый": "#EAB308",
		"зелёный": "#22C55E", "синий": "#3B82F6", "индиго": "#4F46E5",
		"фиолетовый": "#A855F7", "розовый": "#EC4899", "белый": "#FFFFFF",
		"чёрный": "#1F2937", "золотой": "#F59E0B", "серебряный": "#9CA3AF",
	}

	luckyDirections = []string{
		"север", "северо-восток", "восток", "юго-восток",
		"юг", "юго-запад", "запад", "северо-запад",
	}

	luckyItems = []string{
		"брелок с монетой", "носовой платок", "маленькое зеркало", "книга",
		"цветок", "ключ", "кольцо", "браслет", "часы", "ручка", "блокнот",
		"фотография", "конфета", "духи",
	}

	luckyTimes = []string{
		"06:00–08:00", "08:00–10:00", "10:00–12:00", "12:00–14:00",
		"14:00–16:00", "16:00–18:00", "18:00–20:00", "20:00–22:00",
	}

	messagesHigh = []string{
		"Сегодня удача на вашей стороне — доверьтесь интуиции.",
		"Отличный день для смелых решений.",
		"Хороший день, чтобы попробовать новое.",
	}
	messagesMedium = []string{
		"Ровный день: умеренность принесёт больше, чем азарт.",
		"Маленькие шаги сегодня надёжнее больших ставок.",
		"Спокойный день — цените небольшие удачи.",
	}
	messagesLow = []string{
		"Сегодня лучше действовать осторожно.",
		"Отложите крупные решения на потом.",
		"Подождите следующего шанса — он придёт.",
	}

	warningsHigh = []string{
		"Не переоценивайте удачу.",
		"Большие ожидания — большие разочарования.",
		"Сохраняйте скромность.",
	}
	warningsMedium = []string{
		"Не торопитесь с решениями.",
		"Следите за самочувствием.",
		"Излишняя жадность ни к чему.",
	}
	warningsLow = []string{
		"Избегайте крупных трат.",
		"Не переутомляйтесь.",
		"Важные решения лучше отложить.",
	}
)

// LuckyNumbers возвращает 7 различных чисел 1–45 по возрастанию.
// Детерминировано для (субъект, дата) — в том числе между рестартами процесса.
func LuckyNumbers(subjectID string, on time.Time) []int {
	rng := NewRand(subjectID, on, PurposeNumbers)
	return SampleRange(rng, 1, 45, 7)
}

// CalculateScores возвращает оценки по категориям.
// Диапазоны намеренно сдвинуты вверх: слишком низкие оценки
// демотивируют, слишком высокие обесценивают шкалу.
func CalculateScores(subjectID string, on time.Time) Scores {
	rng := NewRand(subjectID, on, PurposeScores)
	return Scores{
		Overall: 60 + rng.Intn(36),  // 60–95
		Wealth:  50 + rng.Intn(41),  // 50–90
		Lottery: 55 + rng.Intn(46),  // 55–100
		Love:    50 + rng.Intn(46),  // 50–95
		Career:  55 + rng.Intn(41),  // 55–95
		Health:  60 + rng.Intn(36),  // 60–95
	}
}

// Color возвращает цвет дня и его hex-код.
// Сид зависит только от даты: цвет общий для всех пользователей.
func Color(on time.Time) (string, string) {
	rng := NewRand("", on, PurposeColor)
	name := luckyColors[rng.Intn(len(luckyColors))]
	return name, colorHex[name]
}

// Direction возвращает направление дня для пользователя.
func Direction(subjectID string, on time.Time) string {
	rng := NewRand(subjectID, on, PurposeDirection)
	return luckyDirections[rng.Intn(len(luckyDirections))]
}

// TimeSlot возвращает удачный интервал времени.
func TimeSlot(subjectID string, on time.Time) string {
	rng := NewRand(subjectID, on, PurposeTime)
	return luckyTimes[rng.Intn(len(luckyTimes))]
}

// Item возвращает предмет дня; примерно в половине случаев
// к предмету добавляется цвет дня.
func Item(subjectID string, on time.Time, color string) string {
	rng := NewRand(subjectID, on, PurposeItem)
	item := luckyItems[rng.Intn(len(luckyItems))]
	if rng.Float64() > 0.5 {
		return color + " " + item
	}
	return item
}

// Message подбирает сообщение дня по оценке лотерейной удачи.
func Message(subjectID string, on time.Time, lotteryScore int) string {
	rng := NewRand(subjectID, on, "message")
	pool := messagesMedium
	switch {
	case lotteryScore >= 80:
		pool = messagesHigh
	case lotteryScore < 65:
		pool = messagesLow
	}
	return pool[rng.Intn(len(pool))]
}

// Warning подбирает предостережение по общей оценке.
func Warning(subjectID string, on time.Time, overall int) string {
	rng := NewRand(subjectID, on, "warning")
	pool := warningsMedium
	switch {
	case overall >= 80:
		pool = warningsHigh
	case overall < 65:
		pool = warningsLow
	}
	return pool[rng.Intn(len(pool))]
}

// DailyFortune собирает полную дневную удачу пользователя.
func DailyFortune(subjectID string, on time.Time) *Daily {
	scores := CalculateScores(subjectID, on)
	color, hex := Color(on)
	return &Daily{
		Date:         on.UTC().Format("2006-01-02"),
		LuckyNumbers: LuckyNumbers(subjectID, on),
		Scores:       scores,
		Color:        color,
		ColorHex:     hex,
		Direction:    Direction(subjectID, on),
		TimeSlot:     TimeSlot(subjectID, on),
		Item:         Item(subjectID, on, color),
		Message:      Message(subjectID, on, scores.Lottery),
		Warning:      Warning(subjectID, on, scores.Overall),
	}
}
