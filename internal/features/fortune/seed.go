// Package fortune — seed.go отвечает за детерминированную деривацию сидов.
//
// Сид — чистая функция от (субъект, календарная дата, назначение):
// одинаковые входы всегда дают одинаковый сид, изменение любого входа
// меняет сид с подавляющей вероятностью. Каждое логически отдельное
// значение (номера, цвет, направление, сообщение) деривирует СВОЙ сид
// через параметр purpose — потоки независимы, но каждый воспроизводим.
package fortune

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Назначения сидов для отдельных значений дневной удачи.
const (
	PurposeNumbers   = "numbers"
	PurposeScores    = "scores"
	PurposeColor     = "color"
	PurposeDirection = "direction"
	PurposeTime      = "time"
	PurposeItem      = "item"
	PurposeCombo     = "combo"
)

// DeriveSeed вычисляет сид для (субъект, дата, назначение).
// Хешируется строка "subject_YYYY-MM-DD_purpose" (дата всегда в UTC),
// первые 8 байт blake2b-256 интерпретируются как int64.
func DeriveSeed(subjectID string, on time.Time, purpose string) int64 {
	payload := fmt.Sprintf("%s_%s_%s", subjectID, on.UTC().Format("2006-01-02"), purpose)
	sum := blake2b.Sum256([]byte(payload))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// NewRand создаёт отдельный генератор, засеянный DeriveSeed.
// Генератор создаётся на каждый вызов: общего процессного состояния нет,
// конкурентные запросы не могут перемешать чужие последовательности.
func NewRand(subjectID string, on time.Time, purpose string) *rand.Rand {
	return rand.New(rand.NewSource(DeriveSeed(subjectID, on, purpose)))
}
