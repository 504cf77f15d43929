package leave

import (
	"testing"
	"time"
)

func TestIsNonWorkingDaySundays(t *testing.T) {
	for _, d := range []time.Time{
		day(2025, time.January, 5),
		day(2025, time.January, 12),
		day(2025, time.June, 1),
	} {
		if !IsNonWorkingDay(d, nil) {
			t.Errorf("expected %s (Sunday) to be non-working", DateKey(d))
		}
	}
}

func TestIsNonWorkingDaySaturdays(t *testing.T) {
	tests := []struct {
		date time.Time
		off  bool
	}{
		{day(2025, time.January, 4), true},   // 1st Saturday
		{day(2025, time.January, 11), false}, // 2nd Saturday
		{day(2025, time.January, 18), true},  // 3rd Saturday
		{day(2025, time.January, 25), false}, // 4th Saturday
		{day(2025, time.May, 31), false},     // 5th Saturday
	}
	for _, tc := range tests {
		if got := IsNonWorkingDay(tc.date, nil); got != tc.off {
			t.Errorf("IsNonWorkingDay(%s) = %v, want %v", DateKey(tc.date), got, tc.off)
		}
	}
}

func TestIsNonWorkingDayHolidays(t *testing.T) {
	// Aug 15 2025 is a Friday.
	holidays := NewHolidaySet("2025-08-15")

	if !IsNonWorkingDay(day(2025, time.August, 15), holidays) {
		t.Error("listed holiday should be non-working")
	}
	if IsNonWorkingDay(day(2025, time.August, 14), holidays) {
		t.Error("plain Thursday should be working")
	}
}

func TestCountWorkingDays(t *testing.T) {
	// Jan 1 2025 is a Wednesday; Jan 4 is the 1st Saturday, Jan 5 a Sunday.
	got := CountWorkingDays(day(2025, time.January, 1), day(2025, time.January, 7), nil)
	if got != 5 {
		t.Fatalf("CountWorkingDays = %d, want 5", got)
	}
}

func TestCountWorkingDaysWithHoliday(t *testing.T) {
	holidays := NewHolidaySet("2025-01-01")
	got := CountWorkingDays(day(2025, time.January, 1), day(2025, time.January, 7), holidays)
	if got != 4 {
		t.Fatalf("CountWorkingDays = %d, want 4", got)
	}
}

func TestCountWorkingDaysStartAfterEnd(t *testing.T) {
	got := CountWorkingDays(day(2025, time.January, 7), day(2025, time.January, 1), nil)
	if got != 0 {
		t.Fatalf("CountWorkingDays = %d, want 0 for inverted range", got)
	}
}

func TestCountWorkingDaysDetailedExclusions(t *testing.T) {
	holidays := NewHolidaySet("2025-01-01")
	days, excluded := CountWorkingDaysDetailed(day(2025, time.January, 1), day(2025, time.January, 7), holidays)
	if days != 4 {
		t.Fatalf("days = %d, want 4", days)
	}
	want := []string{"2025-01-01", "2025-01-04", "2025-01-05"}
	if len(excluded) != len(want) {
		t.Fatalf("excluded = %v, want %v", excluded, want)
	}
	for i := range want {
		if excluded[i] != want[i] {
			t.Errorf("excluded[%d] = %s, want %s", i, excluded[i], want[i])
		}
	}
}
