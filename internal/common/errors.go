// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях сервиса.
// Эти ошибки позволяют вызывающим коллабораторам (роутеры, планировщик)
// различать типы проблем через errors.Is и отдавать понятные ответы.
package common

import "errors"

// Ошибки кредитного леджера (баланс, транзакции)
var (
	// ErrInvalidAmount — некорректная сумма (ноль, отрицательная или выше потолка)
	ErrInvalidAmount = errors.New("сумма должна быть положительной")
	// ErrInsufficientCredits — недостаточно кредитов на счёте
	ErrInsufficientCredits = errors.New("недостаточно кредитов на счёте")
	// ErrLimitExceeded — начисление упёрлось в потолок баланса тарифа
	ErrLimitExceeded = errors.New("превышен лимит баланса для тарифа")
	// ErrAlreadyClaimed — ежедневный бонус уже получен сегодня
	ErrAlreadyClaimed = errors.New("ежедневный бонус уже получен сегодня")
	// ErrNotEligible — операция недоступна для тарифа (VIP и реклама и т.п.)
	ErrNotEligible = errors.New("операция недоступна для вашего тарифа")
	// ErrDailyLimitExceeded — дневной лимит наград за рекламу исчерпан
	ErrDailyLimitExceeded = errors.New("дневной лимит наград за рекламу исчерпан")
	// ErrDuplicateAd — этот ролик сегодня уже был засчитан
	ErrDuplicateAd = errors.New("этот рекламный ролик сегодня уже засчитан")
	// ErrNotFound — транзакция не найдена или не подлежит возврату
	ErrNotFound = errors.New("транзакция не найдена или не подлежит возврату")
	// ErrAlreadyRefunded — по этой транзакции возврат уже выполнен
	ErrAlreadyRefunded = errors.New("по этой транзакции возврат уже выполнен")
	// ErrSelfTransfer — попытка перевести кредиты самому себе
	ErrSelfTransfer = errors.New("нельзя переводить кредиты самому себе")
	// ErrNotAllowed — операция запрещена политикой тарифа (покупка/перевод для VIP)
	ErrNotAllowed = errors.New("операция запрещена для вашего тарифа")
	// ErrAccountNotFound — счёт не найден в базе
	ErrAccountNotFound = errors.New("счёт не найден")
)

// Ошибки движка стратегий
var (
	// ErrUnknownStrategy — стратегия с таким ключом не зарегистрирована
	ErrUnknownStrategy = errors.New("неизвестная стратегия")
	// ErrTierRequired — тариф пользователя ниже минимального для стратегии
	ErrTierRequired = errors.New("стратегия требует более высокий тариф")
	// ErrFeatureIncomplete — стратегия требует заполненный профиль удачи
	ErrFeatureIncomplete = errors.New("профиль удачи не заполнен")
	// ErrInvalidCombination — генератор вернул некорректную комбинацию.
	// Это дефект генератора, а не пользовательская ошибка: наружу
	// отдаётся как общий сбой, в лог пишется с уровнем Error.
	ErrInvalidCombination = errors.New("генератор вернул некорректную комбинацию")
)

// Ошибки расчёта тиража
var (
	// ErrDrawNotFound — официальный тираж с таким номером ещё не загружен
	ErrDrawNotFound = errors.New("официальный тираж не найден")
	// ErrInvalidDraw — тираж с некорректными номерами (дефект синхронизации)
	ErrInvalidDraw = errors.New("некорректные номера тиража")
	// ErrPredictionNotFound — прогноз не найден или принадлежит другому счёту
	ErrPredictionNotFound = errors.New("прогноз не найден")
)
