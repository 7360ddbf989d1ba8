package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/booking-gateway/internal/config"
)

// Resolver computes the target week boundaries for schedule display. The
// target week is the Monday-Sunday range containing now, except at/after the
// cutover instant, when it flips to the following week.
type Resolver struct {
	loc         *time.Location
	cutoverDay  time.Weekday
	cutoverHour int
}

// NewResolver validates the configured timezone and cutover weekday.
func NewResolver(cfg config.ScheduleConfig) (*Resolver, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule timezone %q: %w", cfg.Timezone, err)
	}
	day, err := parseWeekday(cfg.CutoverWeekday)
	if err != nil {
		return nil, err
	}
	if cfg.CutoverHour < 0 || cfg.CutoverHour > 23 {
		return nil, fmt.Errorf("invalid cutover hour %d", cfg.CutoverHour)
	}
	return &Resolver{loc: loc, cutoverDay: day, cutoverHour: cfg.CutoverHour}, nil
}

// Location returns the display timezone.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// TargetWeekStart returns the Monday 00:00:00 of the week whose schedule
// should be displayed at the given instant. At/after the cutover hour on the
// cutover weekday the result is the Monday of the following week.
func (r *Resolver) TargetWeekStart(now time.Time) time.Time {
	now = now.In(r.loc)
	if now.Weekday() == r.cutoverDay && now.Hour() >= r.cutoverHour {
		return truncateToMidnight(now.AddDate(0, 0, daysUntilNextMonday(now.Weekday())))
	}
	return truncateToMidnight(now.AddDate(0, 0, -daysSinceMonday(now.Weekday())))
}

// TargetWeekEnd returns the inclusive end of the target week: the following
// Sunday at 23:59:59 wall clock. Built from calendar fields rather than an
// added duration, so DST-transition weeks still end on Sunday.
func (r *Resolver) TargetWeekEnd(start time.Time) time.Time {
	d := start.AddDate(0, 0, 6)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

// WeekStart returns the Monday 00:00:00 of the calendar week containing now.
// Upstream fetch spans always begin here, independent of the cutover rule.
func (r *Resolver) WeekStart(now time.Time) time.Time {
	now = now.In(r.loc)
	return truncateToMidnight(now.AddDate(0, 0, -daysSinceMonday(now.Weekday())))
}

// InTargetWeek reports whether t falls inside the target week for now.
// Both instants are compared in the display timezone.
func (r *Resolver) InTargetWeek(t, now time.Time) bool {
	start := r.TargetWeekStart(now)
	end := r.TargetWeekEnd(start)
	t = t.In(r.loc)
	return !t.Before(start) && !t.After(end)
}

func daysSinceMonday(d time.Weekday) int {
	// time.Sunday is 0; shift so Monday is 0.
	return (int(d) + 6) % 7
}

func daysUntilNextMonday(d time.Weekday) int {
	return 7 - daysSinceMonday(d)
}

func truncateToMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid cutover weekday %q", name)
}
