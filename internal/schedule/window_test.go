package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/booking-gateway/internal/config"
	"github.com/spec-kit/booking-gateway/internal/schedule"
)

func newResolver(t *testing.T) *schedule.Resolver {
	t.Helper()
	resolver, err := schedule.NewResolver(config.ScheduleConfig{
		Timezone:       "Europe/Rome",
		CutoverWeekday: "Saturday",
		CutoverHour:    8,
	})
	require.NoError(t, err)
	return resolver
}

func TestNewResolverRejectsBadConfig(t *testing.T) {
	_, err := schedule.NewResolver(config.ScheduleConfig{Timezone: "Mars/Olympus", CutoverWeekday: "Saturday"})
	require.Error(t, err)

	_, err = schedule.NewResolver(config.ScheduleConfig{Timezone: "Europe/Rome", CutoverWeekday: "Caturday"})
	require.Error(t, err)

	_, err = schedule.NewResolver(config.ScheduleConfig{Timezone: "Europe/Rome", CutoverWeekday: "Saturday", CutoverHour: 24})
	require.Error(t, err)
}

func TestTargetWeekStartMidweek(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	// Wednesday morning stays in the current week.
	now := time.Date(2026, 1, 7, 10, 0, 0, 0, loc)
	start := resolver.TargetWeekStart(now)
	require.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, loc), start)
}

func TestTargetWeekStartCutoverBoundary(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	before := time.Date(2026, 1, 10, 7, 59, 59, 0, loc)
	require.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, loc), resolver.TargetWeekStart(before))

	at := time.Date(2026, 1, 10, 8, 0, 0, 0, loc)
	require.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, loc), resolver.TargetWeekStart(at))

	after := time.Date(2026, 1, 10, 23, 30, 0, 0, loc)
	require.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, loc), resolver.TargetWeekStart(after))
}

func TestTargetWeekStartAlwaysMonday(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	base := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)
	for day := 0; day < 14; day++ {
		for _, hour := range []int{0, 7, 8, 13, 23} {
			now := base.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
			start := resolver.TargetWeekStart(now)
			require.Equal(t, time.Monday, start.Weekday(), "now=%s", now)
			require.Equal(t, 0, start.Hour())
			require.Equal(t, 0, start.Minute())
		}
	}
}

func TestTargetWeekEnd(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)
	end := resolver.TargetWeekEnd(start)
	require.Equal(t, time.Date(2026, 1, 11, 23, 59, 59, 0, loc), end)
}

func TestTargetWeekEndOnDSTWeeks(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	// Clocks jump forward on Sunday 2026-03-29; the week still ends that
	// Sunday at 23:59:59 and next Monday stays out of the window.
	springStart := time.Date(2026, 3, 23, 0, 0, 0, 0, loc)
	springEnd := resolver.TargetWeekEnd(springStart)
	require.Equal(t, time.Date(2026, 3, 29, 23, 59, 59, 0, loc), springEnd)
	require.Equal(t, time.Sunday, springEnd.Weekday())

	springNow := time.Date(2026, 3, 25, 10, 0, 0, 0, loc)
	require.False(t, resolver.InTargetWeek(time.Date(2026, 3, 30, 0, 30, 0, 0, loc), springNow))

	// Clocks fall back on Sunday 2026-10-25; the last hour of that Sunday
	// still belongs to the week.
	fallStart := time.Date(2026, 10, 19, 0, 0, 0, 0, loc)
	fallEnd := resolver.TargetWeekEnd(fallStart)
	require.Equal(t, time.Date(2026, 10, 25, 23, 59, 59, 0, loc), fallEnd)
	require.Equal(t, time.Sunday, fallEnd.Weekday())

	fallNow := time.Date(2026, 10, 21, 10, 0, 0, 0, loc)
	require.True(t, resolver.InTargetWeek(time.Date(2026, 10, 25, 23, 30, 0, 0, loc), fallNow))
}

func TestWeekStartIgnoresCutover(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	// Saturday after the cutover: the fetch span still begins at the
	// current week's Monday, only the display window flips.
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, loc)
	require.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, loc), resolver.WeekStart(now))
	require.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, loc), resolver.TargetWeekStart(now))
}

func TestInTargetWeek(t *testing.T) {
	resolver := newResolver(t)
	loc := resolver.Location()

	now := time.Date(2026, 1, 7, 10, 0, 0, 0, loc)
	require.True(t, resolver.InTargetWeek(time.Date(2026, 1, 9, 18, 0, 0, 0, loc), now))
	require.True(t, resolver.InTargetWeek(time.Date(2026, 1, 11, 23, 59, 59, 0, loc), now))
	require.False(t, resolver.InTargetWeek(time.Date(2026, 1, 12, 0, 0, 0, 0, loc), now))
	require.False(t, resolver.InTargetWeek(time.Date(2026, 1, 4, 12, 0, 0, 0, loc), now))
}

func TestParseUpstreamOffsets(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// UTC instant rendered in the display zone: Rome is +0100 in winter.
	parsed, err := schedule.ParseUpstream("2026-01-07T18:00:00+0000", loc)
	require.NoError(t, err)
	require.Equal(t, 19, parsed.Hour())
	require.Equal(t, loc.String(), parsed.Location().String())

	// Summer timestamps already carry the +0200 offset.
	parsed, err = schedule.ParseUpstream("2026-07-15T18:00:00+0200", loc)
	require.NoError(t, err)
	require.Equal(t, 18, parsed.Hour())

	parsed, err = schedule.ParseUpstream("2026-01-07T18:00:00Z", loc)
	require.NoError(t, err)
	require.Equal(t, 19, parsed.Hour())

	_, err = schedule.ParseUpstream("07/01/2026 18:00", loc)
	require.Error(t, err)
}

func TestFormatUpstreamRoundTrip(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	instant := time.Date(2026, 1, 7, 18, 30, 0, 0, loc)
	rendered := schedule.FormatUpstream(instant)
	require.Equal(t, "2026-01-07T18:30:00+0100", rendered)

	parsed, err := schedule.ParseUpstream(rendered, loc)
	require.NoError(t, err)
	require.True(t, parsed.Equal(instant))
}

func TestDisplayFormatters(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	monday := time.Date(2026, 1, 5, 18, 0, 0, 0, loc)
	require.Equal(t, "Lunedì", schedule.WeekdayName(monday))
	require.Equal(t, "Domenica", schedule.WeekdayName(monday.AddDate(0, 0, 6)))

	end := monday.Add(2 * time.Hour)
	require.Equal(t, "18:00-20:00", schedule.FormatTimeRange(monday, end))

	require.Equal(t, "05 gen", schedule.FormatDayMonth(monday))
	require.Equal(t, "2026-01-05T18:00:00", schedule.FormatISO(monday))
}
