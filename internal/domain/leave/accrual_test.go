package leave

import (
	"context"
	"testing"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

func TestAccrueProRataCreditsElapsedDays(t *testing.T) {
	emp := testEmployee("E1", auth.RoleEmployee, "", 2)
	emp.LastAccrualOn = day(2025, time.March, 1)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(newFakeStore(), dir, day(2025, time.March, 11))

	summary, err := svc.AccrueProRata(context.Background())
	if err != nil {
		t.Fatalf("AccrueProRata: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("updated = %d, want 1", summary.Updated)
	}

	// 10 elapsed days at 18/365, added to 2 and rounded.
	got, _ := dir.ByID(context.Background(), "E1")
	want := employee.Round2(2 + 10*18.0/365)
	if got.Balances.Casual != want {
		t.Fatalf("casual = %v, want %v", got.Balances.Casual, want)
	}
	if DateKey(got.LastAccrualOn) != "2025-03-11" {
		t.Fatalf("lastAccrualOn = %s, want 2025-03-11", DateKey(got.LastAccrualOn))
	}
}

func TestAccrueProRataSameDayRunIsNoOp(t *testing.T) {
	emp := testEmployee("E1", auth.RoleEmployee, "", 2)
	emp.LastAccrualOn = day(2025, time.March, 1)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(newFakeStore(), dir, day(2025, time.March, 11))

	if _, err := svc.AccrueProRata(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := dir.ByID(context.Background(), "E1")

	summary, err := svc.AccrueProRata(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.Updated != 0 || summary.Skipped != 1 {
		t.Fatalf("second run updated=%d skipped=%d, want 0/1", summary.Updated, summary.Skipped)
	}
	second, _ := dir.ByID(context.Background(), "E1")
	if second.Balances.Casual != first.Balances.Casual {
		t.Fatalf("casual changed on same-day rerun: %v -> %v", first.Balances.Casual, second.Balances.Casual)
	}
}

func TestAccrueProRataWindowStartsAtYearBoundary(t *testing.T) {
	// Last accrual in the prior year: the window opens on January 1.
	emp := testEmployee("E1", auth.RoleEmployee, "", 0)
	emp.LastAccrualOn = day(2024, time.November, 20)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(newFakeStore(), dir, day(2025, time.January, 11))

	if _, err := svc.AccrueProRata(context.Background()); err != nil {
		t.Fatalf("AccrueProRata: %v", err)
	}
	got, _ := dir.ByID(context.Background(), "E1")
	want := employee.Round2(10 * 18.0 / 365)
	if got.Balances.Casual != want {
		t.Fatalf("casual = %v, want %v (10 days from Jan 1)", got.Balances.Casual, want)
	}
}

func TestAccrueProRataWindowStartsAtJoining(t *testing.T) {
	// Joined mid-year after the recorded last accrual: the window opens at
	// the date of joining.
	emp := testEmployee("E1", auth.RoleEmployee, "", 0)
	emp.DateOfJoining = day(2025, time.April, 10)
	emp.LastAccrualOn = day(2025, time.January, 1)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(newFakeStore(), dir, day(2025, time.April, 20))

	if _, err := svc.AccrueProRata(context.Background()); err != nil {
		t.Fatalf("AccrueProRata: %v", err)
	}
	got, _ := dir.ByID(context.Background(), "E1")
	want := employee.Round2(10 * 18.0 / 365)
	if got.Balances.Casual != want {
		t.Fatalf("casual = %v, want %v (10 days from joining)", got.Balances.Casual, want)
	}
}

func TestAccrueProRataUsesLeapYearLength(t *testing.T) {
	emp := testEmployee("E1", auth.RoleEmployee, "", 0)
	emp.LastAccrualOn = day(2024, time.January, 1)
	emp.DateOfJoining = day(2023, time.March, 1)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(newFakeStore(), dir, day(2024, time.January, 11))

	if _, err := svc.AccrueProRata(context.Background()); err != nil {
		t.Fatalf("AccrueProRata: %v", err)
	}
	got, _ := dir.ByID(context.Background(), "E1")
	want := employee.Round2(10 * 18.0 / 366)
	if got.Balances.Casual != want {
		t.Fatalf("casual = %v, want %v (2024 has 366 days)", got.Balances.Casual, want)
	}
}

func TestAccrueProRataSkipsInactive(t *testing.T) {
	emp := testEmployee("E1", auth.RoleEmployee, "", 2)
	emp.Status = employee.StatusInactive
	emp.LastAccrualOn = day(2025, time.March, 1)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(newFakeStore(), dir, day(2025, time.March, 11))

	summary, err := svc.AccrueProRata(context.Background())
	if err != nil {
		t.Fatalf("AccrueProRata: %v", err)
	}
	if summary.Updated != 0 || summary.Skipped != 1 {
		t.Fatalf("updated=%d skipped=%d, want 0/1", summary.Updated, summary.Skipped)
	}
}

func TestAccrueFlatMonthly(t *testing.T) {
	active := testEmployee("E1", auth.RoleEmployee, "", 2)
	inactive := testEmployee("E2", auth.RoleEmployee, "", 2)
	inactive.Status = employee.StatusInactive
	dir := newFakeDirectory(active, inactive)

	// Not the first of the month: nothing happens.
	svc, _, _ := newTestService(newFakeStore(), dir, day(2025, time.June, 2))
	summary, err := svc.AccrueFlatMonthly(context.Background())
	if err != nil {
		t.Fatalf("AccrueFlatMonthly: %v", err)
	}
	if summary.Updated != 0 {
		t.Fatalf("updated = %d on a mid-month run, want 0", summary.Updated)
	}

	svc.Now = func() time.Time { return day(2025, time.June, 1) }
	summary, err = svc.AccrueFlatMonthly(context.Background())
	if err != nil {
		t.Fatalf("AccrueFlatMonthly: %v", err)
	}
	if summary.Updated != 1 || summary.Skipped != 1 {
		t.Fatalf("updated=%d skipped=%d, want 1/1", summary.Updated, summary.Skipped)
	}
	got, _ := dir.ByID(context.Background(), "E1")
	if got.Balances.Casual != 3.5 {
		t.Fatalf("casual = %v, want 3.5", got.Balances.Casual)
	}
}

// contendedDirectory lets a test slip a balance write in between the
// directory listing and the per-employee read-mutate-write cycle.
type contendedDirectory struct {
	*fakeDirectory
	afterList func()
}

func (c *contendedDirectory) List(ctx context.Context) ([]employee.Employee, error) {
	out, err := c.fakeDirectory.List(ctx)
	if c.afterList != nil {
		c.afterList()
		c.afterList = nil
	}
	return out, err
}

func TestApplyYearlyCarryOverSeesConcurrentDeduction(t *testing.T) {
	emp := testEmployee("E1", auth.RoleEmployee, "", 10)
	inner := newFakeDirectory(emp)
	dir := &contendedDirectory{fakeDirectory: inner}
	// A three-day deduction commits after the run has listed employees but
	// before it writes E1's carried balance.
	dir.afterList = func() {
		e := inner.employees["E1"]
		e.Balances.Casual = 7
		e.RowVersion++
	}

	svc := NewService(newFakeStore(), dir, &fakeAudit{}, &fakeNotifier{})
	svc.Now = func() time.Time { return day(2026, time.January, 1) }

	summary, err := svc.ApplyYearlyCarryOver(context.Background())
	if err != nil {
		t.Fatalf("ApplyYearlyCarryOver: %v", err)
	}
	if summary.Updated != 1 {
		t.Fatalf("updated = %d, want 1", summary.Updated)
	}

	// Half of the post-deduction balance plus one, not half of the stale
	// listing snapshot.
	got, _ := inner.ByID(context.Background(), "E1")
	if got.Balances.Casual != 4.5 {
		t.Fatalf("casual = %v, want 4.5", got.Balances.Casual)
	}
}

func TestApplyYearlyCarryOver(t *testing.T) {
	tests := []struct {
		casual float64
		want   float64
	}{
		{10, 6},
		{0, 1},
		{3.5, 2.75},
	}
	for _, tc := range tests {
		emp := testEmployee("E1", auth.RoleEmployee, "", tc.casual)
		emp.Status = employee.StatusInactive // carry-over applies regardless of status
		dir := newFakeDirectory(emp)
		svc, _, _ := newTestService(newFakeStore(), dir, day(2026, time.January, 1))

		if _, err := svc.ApplyYearlyCarryOver(context.Background()); err != nil {
			t.Fatalf("ApplyYearlyCarryOver: %v", err)
		}
		got, _ := dir.ByID(context.Background(), "E1")
		if got.Balances.Casual != tc.want {
			t.Errorf("carry-over of %v = %v, want %v", tc.casual, got.Balances.Casual, tc.want)
		}
	}
}
