package leave

import "time"

// CountWorkingDays counts working days in [start, end] inclusive, skipping
// weekends and holidays per IsNonWorkingDay. start after end yields zero.
func CountWorkingDays(start, end time.Time, holidays HolidaySet) int {
	days, _ := countDetailed(start, end, holidays, false)
	return days
}

// CountWorkingDaysDetailed additionally reports the excluded dates as
// yyyy-MM-dd strings, in order.
func CountWorkingDaysDetailed(start, end time.Time, holidays HolidaySet) (int, []string) {
	return countDetailed(start, end, holidays, true)
}

func countDetailed(start, end time.Time, holidays HolidaySet, collect bool) (int, []string) {
	start = start.In(referenceZone)
	end = end.In(referenceZone)

	days := 0
	var excluded []string
	for d := startOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if IsNonWorkingDay(d, holidays) {
			if collect {
				excluded = append(excluded, DateKey(d))
			}
			continue
		}
		days++
	}
	return days, excluded
}

func startOfDay(t time.Time) time.Time {
	d := t.In(referenceZone)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, referenceZone)
}
