package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBoundsUTC(t *testing.T) {
	// Момент в поясе UTC+9 приходится на следующие сутки по местному
	// времени, но границы считаются строго по UTC.
	kst := time.FixedZone("KST", 9*60*60)
	at := time.Date(2026, 8, 29, 1, 30, 0, 0, kst) // 2026-08-28 16:30 UTC

	start, end := DayBoundsUTC(at)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestSameDayUTC(t *testing.T) {
	a := time.Date(2026, 8, 28, 0, 1, 0, 0, time.UTC)
	b := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	c := time.Date(2026, 8, 29, 0, 1, 0, 0, time.UTC)

	assert.True(t, SameDayUTC(a, b))
	assert.False(t, SameDayUTC(b, c))
}

func TestDateKeyUTC(t *testing.T) {
	at := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "2026-08-28", DateKeyUTC(at))
}

func TestPluralizeCredits(t *testing.T) {
	cases := map[int64]string{
		0:   "кредитов",
		1:   "кредит",
		2:   "кредита",
		4:   "кредита",
		5:   "кредитов",
		11:  "кредитов",
		14:  "кредитов",
		21:  "кредит",
		22:  "кредита",
		100: "кредитов",
		101: "кредит",
	}
	for n, want := range cases {
		assert.Equal(t, want, PluralizeCredits(n), "n=%d", n)
	}
}

func TestFormatCredits(t *testing.T) {
	assert.Equal(t, "1 кредит", FormatCredits(1))
	assert.Equal(t, "3 кредита", FormatCredits(3))
	assert.Equal(t, "10 кредитов", FormatCredits(10))
}
