// Package fortune — profile.go: профиль пользователя для удачи.
package fortune

import "time"

// Profile — данные, нужные для персональной удачи. Заполняется
// пользователем один раз; без даты рождения гороскопные значения
// не имеют смысла, и стратегия "по удаче" недоступна.
type Profile struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
}

// Ready сообщает, достаточно ли заполнен профиль для удачи.
func Ready(p Profile) bool {
	return !p.BirthDate.IsZero()
}

// ZodiacAnimal возвращает знак восточного зодиака по году рождения
// (12-летний цикл; 2020 — год крысы).
func ZodiacAnimal(p Profile) string {
	animals := []string{
		"крыса", "бык", "тигр", "кролик", "дракон", "змея",
		"лошадь", "коза", "обезьяна", "петух", "собака", "свинья",
	}
	idx := (p.BirthDate.Year() - 2020) % 12
	if idx < 0 {
		idx += 12
	}
	return animals[idx]
}
