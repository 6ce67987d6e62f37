// Package common — pluralize.go отвечает за русскую плюрализацию слова «кредит».
package common

// PluralizeCredits возвращает правильную форму слова «кредит» для числа n.
//
// Правила русского языка:
//   - n%10==1 И n%100!=11 → "кредит" (1, 21, 31, 101, ...)
//   - n%10 в [2,4] И n%100 НЕ в [12,14] → "кредита" (2, 3, 4, 22, 23, ...)
//   - Остальные случаи → "кредитов" (0, 5-20, 25-30, 100, ...)
//
// Примеры:
//
//	PluralizeCredits(1)  → "кредит"
//	PluralizeCredits(3)  → "кредита"
//	PluralizeCredits(11) → "кредитов"
//	PluralizeCredits(21) → "кредит"
func PluralizeCredits(n int64) string {
	if n < 0 {
		n = -n
	}
	lastDigit := n % 10
	lastTwo := n % 100

	if lastDigit == 1 && lastTwo != 11 {
		return "кредит"
	}
	if lastDigit >= 2 && lastDigit <= 4 && (lastTwo < 12 || lastTwo > 14) {
		return "кредита"
	}
	return "кредитов"
}
