// Package timemath owns every conversion between stored UTC instants and
// the business's local calendar, plus duration arithmetic. Report and
// handler code must call into here instead of doing its own time math.
package timemath

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	// DisplayLayout is the local wall-clock format used on screens,
	// admin edit inputs and CSV exports.
	DisplayLayout = "2006-01-02 15:04:05"

	CurrencySymbol = "£"
)

var businessZone = mustLoadZone("Europe/London")

// Init loads the business time zone from BUSINESS_TIMEZONE. Defaults to
// Europe/London (GMT in winter, BST in summer).
func Init() error {
	name := os.Getenv("BUSINESS_TIMEZONE")
	if name == "" {
		return nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE %q: %w", name, err)
	}
	businessZone = loc
	log.Printf("Business time zone set to %s", name)
	return nil
}

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// tzdata missing from the host; fall back rather than crash.
		log.Printf("Warning: could not load %s time zone, falling back to UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// Zone returns the business's local time zone.
func Zone() *time.Location {
	return businessZone
}

// ToLocalDisplay renders a UTC instant as local wall-clock time using the
// offset that applied at that instant, not the offset in effect now. An
// entry made in winter still shows its GMT reading when viewed in summer.
func ToLocalDisplay(t time.Time) string {
	return t.In(businessZone).Format(DisplayLayout)
}

// LocalInputToUTC resolves a local wall-clock reading (admin edit input)
// to a UTC instant, deriving the standard/daylight offset in effect on
// that calendar date. Absolute RFC 3339 timestamps are accepted and pass
// through unchanged.
//
// Transition boundaries resolve deterministically: a reading inside a
// spring-forward gap is interpreted with the daylight offset (01:30 during
// the UK spring-forward night means 01:30 BST = 00:30 UTC), and an
// ambiguous fall-back reading resolves to the post-transition standard
// offset, i.e. the later of the two instants.
func LocalInputToUTC(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	var wall time.Time
	var err error
	for _, layout := range []string{DisplayLayout, "2006-01-02 15:04", "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if wall, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
	}

	// Two-pass offset resolution. The reading's components are first taken
	// as if they were UTC, the local offset at that instant is subtracted,
	// and the offset is re-derived at the candidate. Agreement means the
	// reading is a valid local time; disagreement means it falls inside a
	// transition window and the daylight offset wins.
	_, off1 := wall.In(businessZone).Zone()
	candidate := wall.Add(-time.Duration(off1) * time.Second)
	_, off2 := candidate.In(businessZone).Zone()
	if off1 == off2 {
		return candidate, nil
	}

	offset := off1
	if off2 > offset {
		offset = off2
	}
	return wall.Add(-time.Duration(offset) * time.Second), nil
}

// DurationMinutes is the billable length of a shift in whole minutes.
// Partial minutes truncate, never round up, and an inverted interval
// clamps to zero instead of going negative.
func DurationMinutes(clockIn, clockOut time.Time) int {
	d := clockOut.Sub(clockIn)
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// FormatMinutes renders whole minutes as "{H}h {M}m".
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatCurrency renders an amount with the fixed symbol and two decimals.
// Rounding happens here, at the presentation boundary, never mid-sum.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("%s%.2f", CurrencySymbol, amount)
}

// WeekWindow returns the UTC bounds [start, end) of the local calendar
// week (Monday 00:00 local) containing asOf. A shift starting 23:30 local
// on a Sunday lands in that Sunday's week, not the UTC week.
func WeekWindow(asOf time.Time) (time.Time, time.Time) {
	l := asOf.In(businessZone)
	daysSinceMonday := (int(l.Weekday()) + 6) % 7
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, businessZone).
		AddDate(0, 0, -daysSinceMonday)
	return start.UTC(), start.AddDate(0, 0, 7).UTC()
}

// MonthWindow returns the UTC bounds [start, end) of the local calendar
// month containing asOf.
func MonthWindow(asOf time.Time) (time.Time, time.Time) {
	l := asOf.In(businessZone)
	start := time.Date(l.Year(), l.Month(), 1, 0, 0, 0, 0, businessZone)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// DayWindow returns the UTC bounds [start, end) of the local calendar day
// daysAgo days before asOf's local date.
func DayWindow(asOf time.Time, daysAgo int) (time.Time, time.Time) {
	l := asOf.In(businessZone)
	start := time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, businessZone).
		AddDate(0, 0, -daysAgo)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
