package timegrid_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/timegrid"
)

func hours(t *testing.T, open, close string) timegrid.Hours {
	t.Helper()
	o, err := timegrid.ParseTimeOfDay(open)
	require.NoError(t, err)
	c, err := timegrid.ParseTimeOfDay(close)
	require.NoError(t, err)
	return timegrid.Hours{Open: o, Close: c}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	v, err := timegrid.ParseTimeOfDay("08:30")
	require.NoError(t, err)
	require.Equal(t, timegrid.TimeOfDay(510), v)
	require.Equal(t, "08:30", v.String())

	v, err = timegrid.ParseTimeOfDay("18:00:00")
	require.NoError(t, err)
	require.Equal(t, timegrid.TimeOfDay(1080), v)

	_, err = timegrid.ParseTimeOfDay("25:00")
	require.Error(t, err)
	_, err = timegrid.ParseTimeOfDay("noon")
	require.Error(t, err)
}

func TestGenerateSixHourRental(t *testing.T) {
	// 08:00 to 18:00, six hours of rental, 30 minute grid. The last start that
	// still finishes by closing is 12:00.
	h := hours(t, "08:00", "18:00")
	slots := timegrid.Generate(day(2026, time.June, 10), h, 6*time.Hour, 30, nil)

	require.Len(t, slots, 21) // 08:00 .. 18:00 inclusive
	byLabel := map[string]timegrid.Slot{}
	for _, s := range slots {
		byLabel[s.Label] = s
	}
	require.True(t, byLabel["08:00"].Valid)
	require.True(t, byLabel["12:00"].Valid)
	require.False(t, byLabel["12:30"].Valid)
	require.False(t, byLabel["18:00"].Valid)

	valid := timegrid.ValidOnly(slots)
	require.Len(t, valid, 9)
	require.Equal(t, "12:00", valid[len(valid)-1].Label)
}

func TestGenerateEndExactlyAtCloseIsValid(t *testing.T) {
	h := hours(t, "08:00", "18:00")
	start := time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

	require.True(t, timegrid.SpanFits(h, start, start.Add(6*time.Hour)))
	require.False(t, timegrid.SpanFits(h, start, start.Add(6*time.Hour+time.Minute)))
}

func TestGenerateMultiDaySpan(t *testing.T) {
	h := hours(t, "08:00", "18:00")
	start := time.Date(2026, time.June, 10, 10, 0, 0, 0, time.UTC)

	// 48h rental ends 10:00 two days later, inside hours on every day touched.
	require.True(t, timegrid.SpanFits(h, start, start.Add(48*time.Hour)))

	// Ending at 04:00 is outside the window on the final day.
	require.False(t, timegrid.SpanFits(h, start, start.Add(42*time.Hour)))
}

func TestGenerateMinStartSameDay(t *testing.T) {
	h := hours(t, "08:00", "18:00")
	d := day(2026, time.June, 10)

	// 09:40 rounds up to the next step, 10:00.
	min := time.Date(2026, time.June, 10, 9, 40, 0, 0, time.UTC)
	slots := timegrid.Generate(d, h, 2*time.Hour, 30, &min)
	require.NotEmpty(t, slots)
	require.Equal(t, "10:00", slots[0].Label)

	// A minimum before opening never moves the grid below opening.
	early := time.Date(2026, time.June, 10, 6, 0, 0, 0, time.UTC)
	slots = timegrid.Generate(d, h, 2*time.Hour, 30, &early)
	require.Equal(t, "08:00", slots[0].Label)

	// A minimum on another date is ignored.
	other := time.Date(2026, time.June, 9, 15, 0, 0, 0, time.UTC)
	slots = timegrid.Generate(d, h, 2*time.Hour, 30, &other)
	require.Equal(t, "08:00", slots[0].Label)
}

func TestGenerateDegenerateInputs(t *testing.T) {
	h := hours(t, "08:00", "18:00")
	require.Nil(t, timegrid.Generate(day(2026, time.June, 10), h, 0, 30, nil))

	closed := timegrid.Hours{Open: 600, Close: 600}
	require.Nil(t, timegrid.Generate(day(2026, time.June, 10), closed, time.Hour, 30, nil))
}

func TestGenerateDefaultStep(t *testing.T) {
	h := hours(t, "08:00", "09:00")
	slots := timegrid.Generate(day(2026, time.June, 10), h, time.Hour, 0, nil)
	require.Len(t, slots, 3) // 08:00, 08:30, 09:00
}
