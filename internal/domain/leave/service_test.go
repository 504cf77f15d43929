package leave

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

func testEmployee(id, role, managerID string, casual float64) employee.Employee {
	return employee.Employee{
		EmpID:         id,
		Name:          "Employee " + id,
		Email:         strings.ToLower(id) + "@example.com",
		Role:          role,
		Status:        employee.StatusActive,
		DateOfJoining: day(2023, time.March, 1),
		Balances:      employee.Balances{Casual: casual, Sick: 7},
		LastAccrualOn: day(2025, time.January, 1),
		ManagerID:     managerID,
	}
}

func TestSubmitFullDayCountsWorkingDays(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "M1", 10)
	dir := newFakeDirectory(emp, testEmployee("M1", auth.RoleManager, "", 10))
	svc, audit, notify := newTestService(store, dir, day(2025, time.June, 10))

	req, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Casual Leave",
		Session:   SessionFullDay,
		Start:     day(2025, time.January, 1),
		End:       day(2025, time.January, 7),
		Reason:    "family function",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Days != 5 {
		t.Fatalf("days = %v, want 5", req.Days)
	}
	if req.Status != StatusPending {
		t.Fatalf("status = %s, want Pending", req.Status)
	}
	if !strings.HasPrefix(req.RequestID, "LR-") {
		t.Fatalf("request id %q missing LR- prefix", req.RequestID)
	}
	if !audit.has("leave.submit") {
		t.Error("expected a submit audit entry")
	}
	// Manager and requester are both notified.
	if len(notify.sent) != 2 {
		t.Fatalf("notifications = %d, want 2", len(notify.sent))
	}
}

func TestSubmitHalfDayIsHalf(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "", 10)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	req, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Casual Leave",
		Session:   SessionFirstHalf,
		Start:     day(2025, time.June, 11),
		End:       day(2025, time.June, 11),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Days != 0.5 {
		t.Fatalf("days = %v, want 0.5", req.Days)
	}
}

func TestSubmitZeroDaysFails(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "", 10)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	// A single Sunday yields zero working days.
	_, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Casual Leave",
		Session:   SessionFullDay,
		Start:     day(2025, time.June, 1),
		End:       day(2025, time.June, 1),
	})
	if !errors.Is(err, ErrInvalidDays) {
		t.Fatalf("err = %v, want ErrInvalidDays", err)
	}
	if len(store.requests) != 0 {
		t.Fatal("no request row should be written for a rejected submission")
	}
}

func TestSubmitReservesAgainstPendingDays(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "", 5)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	// First request consumes 3 of the 5 available days.
	if _, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Casual Leave",
		Session:   SessionFullDay,
		Start:     day(2025, time.June, 10),
		End:       day(2025, time.June, 12),
	}); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	svc.Now = func() time.Time { return day(2025, time.June, 10).Add(time.Second) }

	// Second request for 3 more days exceeds balance minus pending.
	_, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Casual Leave",
		Session:   SessionFullDay,
		Start:     day(2025, time.June, 16),
		End:       day(2025, time.June, 18),
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if !strings.Contains(err.Error(), "pending") {
		t.Fatalf("error %q should mention pending days", err)
	}
}

func TestSubmitUntrackedTypeSkipsBalanceCheck(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "", 0)
	dir := newFakeDirectory(emp)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	if _, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Loss of Pay",
		Session:   SessionFullDay,
		Start:     day(2025, time.June, 16),
		End:       day(2025, time.June, 20),
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func submitPending(t *testing.T, svc *Service, emp employee.Employee, start, end time.Time) Request {
	t.Helper()
	req, err := svc.Submit(context.Background(), emp, SubmitForm{
		LeaveType: "Casual Leave",
		Session:   SessionFullDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return req
}

func TestApproveDeductsOnce(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "M1", 10)
	manager := testEmployee("M1", auth.RoleManager, "", 10)
	dir := newFakeDirectory(emp, manager)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	req := submitPending(t, svc, emp, day(2025, time.June, 10), day(2025, time.June, 12))

	if err := svc.Approve(context.Background(), manager, req.RequestID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	got, _ := dir.ByID(context.Background(), "E1")
	if got.Balances.Casual != 7 {
		t.Fatalf("casual = %v, want 7 after deducting 3", got.Balances.Casual)
	}

	if err := svc.Approve(context.Background(), manager, req.RequestID); !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("second approve err = %v, want ErrAlreadyProcessed", err)
	}
	got, _ = dir.ByID(context.Background(), "E1")
	if got.Balances.Casual != 7 {
		t.Fatalf("casual = %v after double approve, deduction must happen once", got.Balances.Casual)
	}
}

func TestApproveUnknownRequest(t *testing.T) {
	store := newFakeStore()
	admin := testEmployee("A1", auth.RoleAdmin, "", 10)
	dir := newFakeDirectory(admin)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	if err := svc.Approve(context.Background(), admin, "LR-0"); !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("err = %v, want ErrRequestNotFound", err)
	}
}

func TestApproveAuthorization(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "M1", 10)
	manager := testEmployee("M1", auth.RoleManager, "", 10)
	outsider := testEmployee("M2", auth.RoleManager, "", 10)
	hr := testEmployee("H1", auth.RoleHR, "", 10)
	dir := newFakeDirectory(emp, manager, outsider, hr)
	svc, audit, _ := newTestService(store, dir, day(2025, time.June, 10))

	req := submitPending(t, svc, emp, day(2025, time.June, 10), day(2025, time.June, 12))

	if err := svc.Approve(context.Background(), outsider, req.RequestID); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("outsider approve err = %v, want ErrNotAuthorized", err)
	}
	if !audit.has("leave.decide.denied") {
		t.Error("denied attempt should be audited")
	}
	got, _ := store.RequestByID(context.Background(), req.RequestID)
	if got.Status != StatusPending {
		t.Fatalf("status = %s, request must stay Pending after denied attempt", got.Status)
	}

	// HR may approve anyone's request.
	if err := svc.Approve(context.Background(), hr, req.RequestID); err != nil {
		t.Fatalf("hr approve: %v", err)
	}
}

func TestApproveMayOverdraw(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "", 5)
	admin := testEmployee("A1", auth.RoleAdmin, "", 10)
	dir := newFakeDirectory(emp, admin)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	req := submitPending(t, svc, emp, day(2025, time.June, 9), day(2025, time.June, 13)) // 5 days

	// Balance drains between submission and approval.
	dir.employees["E1"].Balances.Casual = 2

	if err := svc.Approve(context.Background(), admin, req.RequestID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	got, _ := dir.ByID(context.Background(), "E1")
	if got.Balances.Casual != -3 {
		t.Fatalf("casual = %v, want -3 (approval deducts unconditionally)", got.Balances.Casual)
	}
}

func TestRejectLeavesBalanceAlone(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "M1", 10)
	manager := testEmployee("M1", auth.RoleManager, "", 10)
	dir := newFakeDirectory(emp, manager)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	req := submitPending(t, svc, emp, day(2025, time.June, 10), day(2025, time.June, 12))

	if err := svc.Reject(context.Background(), manager, req.RequestID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	got, _ := dir.ByID(context.Background(), "E1")
	if got.Balances.Casual != 10 {
		t.Fatalf("casual = %v, rejection must not deduct", got.Balances.Casual)
	}
	stored, _ := store.RequestByID(context.Background(), req.RequestID)
	if stored.Status != StatusRejected {
		t.Fatalf("status = %s, want Rejected", stored.Status)
	}
}

func TestHolidayManagementRequiresPrivilege(t *testing.T) {
	store := newFakeStore()
	emp := testEmployee("E1", auth.RoleEmployee, "", 10)
	hr := testEmployee("H1", auth.RoleHR, "", 10)
	dir := newFakeDirectory(emp, hr)
	svc, _, _ := newTestService(store, dir, day(2025, time.June, 10))

	h := Holiday{Date: day(2025, time.August, 15), Title: "Independence Day", Kind: "Public"}
	if err := svc.AddHoliday(context.Background(), emp, h); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("employee add err = %v, want ErrNotAuthorized", err)
	}
	if err := svc.AddHoliday(context.Background(), hr, h); err != nil {
		t.Fatalf("hr add: %v", err)
	}

	days, _, err := svc.PlanDays(context.Background(), day(2025, time.August, 15), day(2025, time.August, 15))
	if err != nil {
		t.Fatalf("PlanDays: %v", err)
	}
	if days != 0 {
		t.Fatalf("days = %d, the new holiday should be excluded", days)
	}
}
