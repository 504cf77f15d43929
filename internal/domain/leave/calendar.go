package leave

import (
	"math"
	"time"
)

// referenceZone is the fixed zone all calendar dates are evaluated in,
// regardless of server locale.
var referenceZone = loadReferenceZone()

func loadReferenceZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}

// DateKey formats a date as yyyy-MM-dd in the reference zone; holiday set
// membership and attendance days are keyed by this string.
func DateKey(t time.Time) string {
	return t.In(referenceZone).Format("2006-01-02")
}

// HolidaySet is the loaded holiday list, immutable for the duration of a
// calculation.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[DateKey(t)]
	return ok
}

// IsNonWorkingDay applies the working-calendar rules in order: Sundays are
// always off; Saturdays are off only on the 1st and 3rd occurrence within the
// month (2nd, 4th and 5th Saturdays are working days); any other day is off
// iff it appears in the holiday set.
func IsNonWorkingDay(date time.Time, holidays HolidaySet) bool {
	d := date.In(referenceZone)

	switch d.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		weekOfMonth := int(math.Ceil(float64(d.Day()) / 7))
		return weekOfMonth == 1 || weekOfMonth == 3
	}

	return holidays.Contains(d)
}
