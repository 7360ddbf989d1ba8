package schedule

import (
	"fmt"
	"time"
)

// upstreamLayout matches the LibreBooking timestamp format: a local date-time
// followed by a numeric UTC offset without a colon, or a literal Z for UTC.
const upstreamLayout = "2006-01-02T15:04:05Z0700"

// queryLayout is the offset-less local date-time used in listing query params.
const queryLayout = "2006-01-02T15:04:05"

// ParseUpstream parses an upstream timestamp and converts it to the display
// timezone. The source offset is honored so instants are never reinterpreted.
func ParseUpstream(value string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(upstreamLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse upstream timestamp %q: %w", value, err)
	}
	return t.In(loc), nil
}

// FormatUpstream renders a local instant in the upstream wire format with an
// explicit numeric offset.
func FormatUpstream(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-0700")
}

// FormatQuery renders a local instant for listing query parameters.
func FormatQuery(t time.Time) string {
	return t.Format(queryLayout)
}

// FormatISO renders a local instant as ISO-8601 without offset, the shape the
// frontend consumes.
func FormatISO(t time.Time) string {
	return t.Format(queryLayout)
}

var weekdayNames = [...]string{"Domenica", "Lunedì", "Martedì", "Mercoledì", "Giovedì", "Venerdì", "Sabato"}

// WeekdayName returns the localized weekday name for display.
func WeekdayName(t time.Time) string {
	return weekdayNames[int(t.Weekday())]
}

// FormatTimeRange renders "HH:MM-HH:MM" for schedule rows.
func FormatTimeRange(start, end time.Time) string {
	return start.Format("15:04") + "-" + end.Format("15:04")
}

var monthNames = [...]string{"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"}

// FormatDayMonth renders "dd MMM" with the localized month abbreviation.
func FormatDayMonth(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), monthNames[int(t.Month())-1])
}
