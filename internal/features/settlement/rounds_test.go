package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDrawTime_Anchor(t *testing.T) {
	anchor := DrawTime(1200)
	assert.Equal(t, 2025, anchor.Year())
	assert.Equal(t, time.November, anchor.Month())
	assert.Equal(t, 29, anchor.Day())
	assert.Equal(t, time.Saturday, anchor.Weekday())
	assert.Equal(t, 20, anchor.Hour())

	// Тиражи идут с шагом ровно в неделю.
	assert.Equal(t, 7*24*time.Hour, DrawTime(1201).Sub(anchor))
	assert.Equal(t, time.Saturday, DrawTime(1250).Weekday())
}

func TestCurrentRound(t *testing.T) {
	// Сам якорный день.
	assert.Equal(t, 1200, CurrentRound(time.Date(2025, 11, 29, 12, 0, 0, 0, kst)))
	// Середина следующей недели.
	assert.Equal(t, 1201, CurrentRound(time.Date(2025, 12, 8, 12, 0, 0, 0, kst)))
	// Неделей раньше якоря.
	assert.Equal(t, 1199, CurrentRound(time.Date(2025, 11, 25, 12, 0, 0, 0, kst)))
	// Глубокое прошлое не уходит ниже первого тиража.
	assert.Equal(t, 1, CurrentRound(time.Date(1990, 1, 1, 0, 0, 0, 0, kst)))
}

func TestNextRound(t *testing.T) {
	// Суббота до розыгрыша: ставки ещё на текущий тираж.
	beforeDraw := time.Date(2025, 11, 29, 19, 0, 0, 0, kst)
	assert.Equal(t, 1200, NextRound(beforeDraw))

	// Суббота после 20:00: розыгрыш прошёл, следующий тираж.
	afterDraw := time.Date(2025, 11, 29, 20, 30, 0, 0, kst)
	assert.Equal(t, 1201, NextRound(afterDraw))

	// Воскресенье.
	sunday := time.Date(2025, 11, 30, 10, 0, 0, 0, kst)
	assert.Equal(t, 1201, NextRound(sunday))

	// Розыгрыш NextRound всегда строго в будущем.
	for _, at := range []time.Time{beforeDraw, afterDraw, sunday} {
		assert.True(t, DrawTime(NextRound(at)).After(at))
	}
}
