// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: работа с календарными сутками UTC, форматирование дат и сумм.
package common

import (
	"fmt"
	"time"
)

// DayBoundsUTC возвращает границы календарных суток UTC для момента t:
// [начало суток, начало следующих суток).
//
// Все дневные лимиты (бонус, награды за рекламу, дедупликация роликов)
// считаются именно по суткам UTC, независимо от часового пояса клиента.
func DayBoundsUTC(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

// SameDayUTC сообщает, приходятся ли два момента на одни сутки UTC.
func SameDayUTC(a, b time.Time) bool {
	au, bu := a.UTC(), b.UTC()
	return au.Year() == bu.Year() && au.YearDay() == bu.YearDay()
}

// DateKeyUTC возвращает дату в формате YYYY-MM-DD (UTC).
// Используется в метаданных транзакций и при выводе сидов.
func DateKeyUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatDateTime форматирует время для описаний и логов.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// FormatCredits форматирует сумму в читабельную строку.
// Пример: FormatCredits(5) → "5 кредитов"
func FormatCredits(n int64) string {
	return fmt.Sprintf("%d %s", n, PluralizeCredits(n))
}
