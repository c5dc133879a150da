package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay_UTCOffset(t *testing.T) {
	// 2024-06-10 02:30 UTC is still 2024-06-09 23:30 in UTC-3.
	late := time.Date(2024, 6, 10, 2, 30, 0, 0, time.UTC)
	start := StartOfDay(late)

	// Start of the UTC-3 day 2024-06-09 is 03:00 UTC on the 9th.
	assert.Equal(t, time.Date(2024, 6, 9, 3, 0, 0, 0, time.UTC), start)
}

func TestStartOfDay_Boundary(t *testing.T) {
	// 23:59 UTC-3 and 00:01 UTC-3 the next day land in different windows.
	before := time.Date(2024, 6, 10, 2, 59, 0, 0, time.UTC) // 23:59 -03 on the 9th
	after := time.Date(2024, 6, 10, 3, 1, 0, 0, time.UTC)   // 00:01 -03 on the 10th

	assert.NotEqual(t, StartOfDay(before), StartOfDay(after))
	assert.True(t, before.Before(StartOfDay(after)),
		"an offer at 23:59 must fall outside the next day's window")
	assert.False(t, after.Before(StartOfDay(after)))
}

func TestDayKey(t *testing.T) {
	// 02:30 UTC on the 10th is still the 9th in UTC-3.
	assert.Equal(t, "2024-06-09", DayKey(time.Date(2024, 6, 10, 2, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-06-10", DayKey(time.Date(2024, 6, 10, 3, 30, 0, 0, time.UTC)))
}
