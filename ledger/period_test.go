package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"famledger/models"
)

func date(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestResolveDay(t *testing.T) {
	w := Resolve(models.GranularityDay, date(2024, time.March, 15, 13, 45, 0))

	assert.Equal(t, date(2024, time.March, 15, 0, 0, 0), w.Start)
	assert.True(t, w.Contains(date(2024, time.March, 15, 0, 0, 0)))
	assert.True(t, w.Contains(date(2024, time.March, 15, 23, 59, 59)))
	assert.False(t, w.Contains(date(2024, time.March, 16, 0, 0, 0)))
	assert.False(t, w.Contains(date(2024, time.March, 14, 23, 59, 59)))
}

func TestResolveWeekStartsMonday(t *testing.T) {
	// Mar 15 2024 is a Friday; its week is Mon Mar 11 through Sun Mar 17.
	w := Resolve(models.GranularityWeek, date(2024, time.March, 15, 10, 0, 0))

	require.Equal(t, date(2024, time.March, 11, 0, 0, 0), w.Start)
	assert.Equal(t, time.Date(2024, time.March, 17, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)

	// A Monday reference stays in its own week.
	w = Resolve(models.GranularityWeek, date(2024, time.March, 11, 0, 0, 0))
	assert.Equal(t, date(2024, time.March, 11, 0, 0, 0), w.Start)

	// A Sunday reference belongs to the week that started the previous Monday.
	w = Resolve(models.GranularityWeek, date(2024, time.March, 17, 23, 0, 0))
	assert.Equal(t, date(2024, time.March, 11, 0, 0, 0), w.Start)
}

func TestWeekEndIsInclusive(t *testing.T) {
	w := Resolve(models.GranularityWeek, date(2024, time.March, 15, 10, 0, 0))

	// Sunday 23:59:59.000 of the active week is in; Monday 00:00:00.000 of
	// the following week is out.
	assert.True(t, w.Contains(date(2024, time.March, 17, 23, 59, 59)))
	assert.False(t, w.Contains(date(2024, time.March, 18, 0, 0, 0)))
}

func TestResolveMonth(t *testing.T) {
	w := Resolve(models.GranularityMonth, date(2024, time.February, 14, 9, 0, 0))

	assert.Equal(t, date(2024, time.February, 1, 0, 0, 0), w.Start)
	assert.True(t, w.Contains(date(2024, time.February, 29, 23, 59, 59))) // leap day
	assert.False(t, w.Contains(date(2024, time.March, 1, 0, 0, 0)))
	assert.False(t, w.Contains(date(2023, time.February, 10, 0, 0, 0))) // same month, other year
}

func TestShift(t *testing.T) {
	tests := []struct {
		name  string
		g     models.Granularity
		ref   time.Time
		delta int
		want  time.Time
	}{
		{"day back", models.GranularityDay, date(2024, time.March, 1, 12, 0, 0), -1, date(2024, time.February, 29, 12, 0, 0)},
		{"day forward", models.GranularityDay, date(2024, time.March, 15, 0, 0, 0), 1, date(2024, time.March, 16, 0, 0, 0)},
		{"week back", models.GranularityWeek, date(2024, time.March, 15, 0, 0, 0), -1, date(2024, time.March, 8, 0, 0, 0)},
		{"week forward", models.GranularityWeek, date(2024, time.March, 15, 0, 0, 0), 1, date(2024, time.March, 22, 0, 0, 0)},
		{"month clamps Jan 31 back", models.GranularityMonth, date(2024, time.January, 31, 8, 0, 0), -1, date(2023, time.December, 31, 8, 0, 0)},
		{"month clamps Mar 31 back to leap Feb", models.GranularityMonth, date(2024, time.March, 31, 0, 0, 0), -1, date(2024, time.February, 29, 0, 0, 0)},
		{"month clamps Jan 31 forward", models.GranularityMonth, date(2024, time.January, 31, 0, 0, 0), 1, date(2024, time.February, 29, 0, 0, 0)},
		{"month plain", models.GranularityMonth, date(2024, time.March, 15, 0, 0, 0), 1, date(2024, time.April, 15, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Shift(tt.g, tt.ref, tt.delta))
		})
	}
}

func TestMatchesRange(t *testing.T) {
	day := Resolve(models.GranularityDay, date(2024, time.March, 15, 0, 0, 0))
	assert.True(t, day.MatchesRange(date(2024, time.March, 15, 0, 0, 0), date(2024, time.March, 15, 23, 59, 59)))
	assert.False(t, day.MatchesRange(date(2024, time.March, 14, 0, 0, 0), date(2024, time.March, 14, 23, 59, 59)))

	week := Resolve(models.GranularityWeek, date(2024, time.March, 15, 0, 0, 0))
	assert.True(t, week.MatchesRange(date(2024, time.March, 11, 0, 0, 0), date(2024, time.March, 17, 23, 59, 59)))
	// An interval straddling two weeks does not match.
	assert.False(t, week.MatchesRange(date(2024, time.March, 10, 0, 0, 0), date(2024, time.March, 16, 0, 0, 0)))

	month := Resolve(models.GranularityMonth, date(2024, time.March, 15, 0, 0, 0))
	assert.True(t, month.MatchesRange(date(2024, time.March, 1, 0, 0, 0), date(2024, time.March, 31, 23, 59, 59)))
	assert.False(t, month.MatchesRange(date(2024, time.April, 1, 0, 0, 0), date(2024, time.April, 30, 0, 0, 0)))
}
