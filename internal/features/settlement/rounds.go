// Package settlement — rounds.go: арифметика номеров тиражей.
//
// Розыгрыш проходит каждую субботу в 20:00 по корейскому времени.
// Якорь: тираж №1200 — суббота 29 ноября 2025 года.
package settlement

import "time"

const (
	anchorRound = 1200
	drawHourKST = 20
)

// kst — часовой пояс розыгрыша. Загружается один раз; tzdata обязана
// присутствовать в образе (пакет time/tzdata подключает cmd).
var kst = mustLocation("Asia/Seoul")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// anchorDraw — момент розыгрыша якорного тиража.
func anchorDraw() time.Time {
	return time.Date(2025, 11, 29, drawHourKST, 0, 0, 0, kst)
}

// DrawTime возвращает момент розыгрыша тиража.
func DrawTime(round int) time.Time {
	return anchorDraw().AddDate(0, 0, (round-anchorRound)*7)
}

// CurrentRound возвращает номер тиража, к неделе которого относится
// момент t: считаются полные недели от якорной даты. Раньше первого
// тиража номер не опускается ниже 1.
func CurrentRound(t time.Time) int {
	anchorDay := time.Date(2025, 11, 29, 0, 0, 0, 0, kst)
	days := int(t.In(kst).Sub(anchorDay).Hours() / 24)
	weeks := days / 7
	if days < 0 && days%7 != 0 {
		weeks-- // целочисленное деление к минус бесконечности
	}
	round := anchorRound + weeks
	if round < 1 {
		round = 1
	}
	return round
}

// NextRound возвращает ближайший тираж, розыгрыш которого ещё впереди.
// Именно на него оформляются новые предсказания: субботним вечером
// после 20:00 ставки принимаются уже на следующую неделю.
func NextRound(t time.Time) int {
	round := CurrentRound(t)
	for !DrawTime(round).After(t) {
		round++
	}
	return round
}
