package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hrms/internal/domain/employee"
)

const (
	// annualCasualEntitlement is the casual-leave allowance a full year of
	// pro-rata accrual adds up to.
	annualCasualEntitlement = 18.0

	// flatMonthlyCasual is the fixed casual-leave grant of the flat strategy,
	// credited on the first of each month.
	flatMonthlyCasual = 1.5
)

// AccrualSummary reports what one accrual run did.
type AccrualSummary struct {
	Strategy string    `json:"strategy"`
	RunOn    time.Time `json:"runOn"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
}

// AccrueProRata credits casual leave to every active employee for the days
// elapsed since their last accrual, at annualCasualEntitlement divided by the
// length of the current year. The accrual window starts at the later of the
// recorded last-accrual date, January 1 of the current year, or the date of
// joining for employees who joined this year. Running twice on the same day is
// a no-op for already-credited employees.
func (s *Service) AccrueProRata(ctx context.Context) (AccrualSummary, error) {
	today := startOfDay(s.Now().In(referenceZone))
	rate := annualCasualEntitlement / float64(daysInYear(today.Year()))

	employees, err := s.Directory.List(ctx)
	if err != nil {
		return AccrualSummary{}, err
	}

	summary := AccrualSummary{Strategy: "prorata", RunOn: today}
	for _, emp := range employees {
		if !emp.Active() {
			summary.Skipped++
			continue
		}
		start := accrualStart(emp, today)
		if !start.Before(today) {
			summary.Skipped++
			continue
		}
		days := int(today.Sub(start).Hours() / 24)
		credit := employee.Round2(float64(days) * rate)

		if err := s.credit(ctx, emp.EmpID, KeyCasual, credit, &today); err != nil {
			slog.Error("pro-rata accrual failed", "empId", emp.EmpID, "err", err)
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	s.audit(ctx, "system", "accrual.prorata",
		fmt.Sprintf("updated=%d skipped=%d failed=%d", summary.Updated, summary.Skipped, summary.Failed))
	return summary, nil
}

// AccrueFlatMonthly credits a fixed casual-leave grant to every active
// employee, but only when called on the first day of a month. On any other day
// it does nothing and reports every employee as skipped.
func (s *Service) AccrueFlatMonthly(ctx context.Context) (AccrualSummary, error) {
	today := startOfDay(s.Now().In(referenceZone))
	summary := AccrualSummary{Strategy: "flat", RunOn: today}

	employees, err := s.Directory.List(ctx)
	if err != nil {
		return AccrualSummary{}, err
	}
	if today.Day() != 1 {
		summary.Skipped = len(employees)
		return summary, nil
	}

	for _, emp := range employees {
		if !emp.Active() {
			summary.Skipped++
			continue
		}
		if err := s.credit(ctx, emp.EmpID, KeyCasual, flatMonthlyCasual, &today); err != nil {
			slog.Error("flat accrual failed", "empId", emp.EmpID, "err", err)
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	s.audit(ctx, "system", "accrual.flat",
		fmt.Sprintf("updated=%d skipped=%d failed=%d", summary.Updated, summary.Skipped, summary.Failed))
	return summary, nil
}

// ApplyYearlyCarryOver resets every employee's casual balance to half the
// current balance plus one, rounded to two decimals. It applies to all
// employees regardless of status and is meant for January 1.
func (s *Service) ApplyYearlyCarryOver(ctx context.Context) (AccrualSummary, error) {
	today := startOfDay(s.Now().In(referenceZone))
	summary := AccrualSummary{Strategy: "carryover", RunOn: today}

	employees, err := s.Directory.List(ctx)
	if err != nil {
		return AccrualSummary{}, err
	}
	for _, emp := range employees {
		// The carried amount must come from the balance writeBalance just read,
		// not from the List snapshot, or a deduction landing in between is
		// silently overwritten.
		err := s.writeBalance(ctx, emp.EmpID, nil, func(b employee.Balances) employee.Balances {
			b.Casual = employee.Round2(b.Casual*0.5 + 1)
			return b
		})
		if err != nil {
			slog.Error("carry-over failed", "empId", emp.EmpID, "err", err)
			summary.Failed++
			continue
		}
		summary.Updated++
	}

	s.audit(ctx, "system", "accrual.carryover",
		fmt.Sprintf("updated=%d failed=%d", summary.Updated, summary.Failed))
	return summary, nil
}

// accrualStart picks where the accrual window opens for an employee relative
// to today.
func accrualStart(emp employee.Employee, today time.Time) time.Time {
	start := startOfDay(emp.LastAccrualOn.In(referenceZone))
	yearStart := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, referenceZone)
	if start.Before(yearStart) {
		start = yearStart
	}
	doj := startOfDay(emp.DateOfJoining.In(referenceZone))
	if doj.Year() == today.Year() && doj.After(start) {
		start = doj
	}
	return start
}

func (s *Service) credit(ctx context.Context, empID string, key BalanceKey, amount float64, asOf *time.Time) error {
	return s.writeBalance(ctx, empID, asOf, func(b employee.Balances) employee.Balances {
		return ApplyDelta(b, key, amount)
	})
}

// writeBalance runs a read-mutate-write cycle under the optimistic
// row-version contract, retrying a bounded number of times on conflict.
func (s *Service) writeBalance(ctx context.Context, empID string, asOf *time.Time, mutate func(employee.Balances) employee.Balances) error {
	var err error
	for attempt := 0; attempt < balanceWriteAttempts; attempt++ {
		var emp employee.Employee
		emp, err = s.Directory.ByID(ctx, empID)
		if err != nil {
			return err
		}
		err = s.Directory.UpdateBalances(ctx, empID, mutate(emp.Balances), asOf, emp.RowVersion)
		if err == nil {
			return nil
		}
		if !errors.Is(err, employee.ErrVersionConflict) {
			return err
		}
	}
	return err
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
