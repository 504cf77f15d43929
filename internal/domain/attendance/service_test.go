package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
)

type memStore struct {
	marks  []Mark
	nextID int64
}

func (m *memStore) Insert(_ context.Context, mark Mark) (Mark, error) {
	for _, existing := range m.marks {
		if existing.EmpID == mark.EmpID && existing.Day == mark.Day && existing.Kind == mark.Kind {
			return Mark{}, ErrAlreadyMarked
		}
	}
	m.nextID++
	mark.ID = m.nextID
	m.marks = append(m.marks, mark)
	return mark, nil
}

func (m *memStore) ForEmployeeDay(_ context.Context, empID, day string) ([]Mark, error) {
	var out []Mark
	for _, mark := range m.marks {
		if mark.EmpID == empID && mark.Day == day {
			out = append(out, mark)
		}
	}
	return out, nil
}

func (m *memStore) History(_ context.Context, empID string, _, _ time.Time) ([]Mark, error) {
	var out []Mark
	for _, mark := range m.marks {
		if mark.EmpID == empID {
			out = append(out, mark)
		}
	}
	return out, nil
}

func (m *memStore) Search(_ context.Context, day, _ string) ([]Mark, error) {
	var out []Mark
	for _, mark := range m.marks {
		if mark.Day == day {
			out = append(out, mark)
		}
	}
	return out, nil
}

type memHolidays struct {
	holidays []leave.Holiday
}

func (m *memHolidays) Holidays(_ context.Context) ([]leave.Holiday, error) {
	return m.holidays, nil
}

func ist(y int, mo time.Month, d, h int) time.Time {
	return time.Date(y, mo, d, h, 0, 0, 0, time.FixedZone("IST", 5*3600+30*60))
}

func testService(now time.Time, holidays ...leave.Holiday) (*Service, *memStore) {
	store := &memStore{}
	svc := NewService(store, &memHolidays{holidays: holidays}, nil)
	svc.Now = func() time.Time { return now }
	return svc, store
}

func worker() employee.Employee {
	return employee.Employee{EmpID: "E1", Email: "e1@example.com", Role: auth.RoleEmployee, Status: employee.StatusActive}
}

func TestMarkCheckInAndOut(t *testing.T) {
	// Tuesday.
	svc, store := testService(ist(2025, time.June, 10, 9))

	if _, err := svc.Mark(context.Background(), worker(), KindCheckIn, "", "", "web"); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := svc.Mark(context.Background(), worker(), KindCheckOut, "", "", "web"); err != nil {
		t.Fatalf("check out: %v", err)
	}
	if len(store.marks) != 2 {
		t.Fatalf("marks = %d, want 2", len(store.marks))
	}
}

func TestMarkDuplicateConflicts(t *testing.T) {
	svc, _ := testService(ist(2025, time.June, 10, 9))

	if _, err := svc.Mark(context.Background(), worker(), KindCheckIn, "", "", "web"); err != nil {
		t.Fatalf("first check in: %v", err)
	}
	if _, err := svc.Mark(context.Background(), worker(), KindCheckIn, "", "", "web"); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("err = %v, want ErrAlreadyMarked", err)
	}
}

func TestMarkRefusedOnNonWorkingDay(t *testing.T) {
	// Sunday.
	svc, _ := testService(ist(2025, time.June, 8, 9))
	if _, err := svc.Mark(context.Background(), worker(), KindCheckIn, "", "", "web"); !errors.Is(err, ErrNonWorkingDay) {
		t.Fatalf("err = %v, want ErrNonWorkingDay", err)
	}

	// Tuesday that is a listed holiday.
	svc, _ = testService(ist(2025, time.June, 10, 9), leave.Holiday{Date: ist(2025, time.June, 10, 0), Title: "Founders Day"})
	if _, err := svc.Mark(context.Background(), worker(), KindCheckIn, "", "", "web"); !errors.Is(err, ErrNonWorkingDay) {
		t.Fatalf("err = %v, want ErrNonWorkingDay", err)
	}
}

func TestMarkUnknownKind(t *testing.T) {
	svc, _ := testService(ist(2025, time.June, 10, 9))
	if _, err := svc.Mark(context.Background(), worker(), "Lunch", "", "", "web"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}

func TestHistoryScopedToSelfForRegularRoles(t *testing.T) {
	svc, store := testService(ist(2025, time.June, 10, 9))
	store.marks = []Mark{
		{EmpID: "E1", Day: "2025-06-09", Kind: KindCheckIn},
		{EmpID: "E2", Day: "2025-06-09", Kind: KindCheckIn},
	}

	from := ist(2025, time.June, 1, 0)
	to := ist(2025, time.June, 30, 0)

	marks, err := svc.History(context.Background(), worker(), "E2", from, to)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	for _, m := range marks {
		if m.EmpID != "E1" {
			t.Fatalf("employee saw %s's marks", m.EmpID)
		}
	}

	hr := employee.Employee{EmpID: "H1", Role: auth.RoleHR}
	marks, err = svc.History(context.Background(), hr, "E2", from, to)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(marks) != 1 || marks[0].EmpID != "E2" {
		t.Fatalf("hr history = %v, want E2's marks", marks)
	}
}

func TestSearchRequiresPrivilege(t *testing.T) {
	svc, _ := testService(ist(2025, time.June, 10, 9))

	if _, err := svc.Search(context.Background(), worker(), ist(2025, time.June, 10, 0), ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	accountant := employee.Employee{EmpID: "A1", Role: auth.RoleAccountant}
	if _, err := svc.Search(context.Background(), accountant, ist(2025, time.June, 10, 0), ""); err != nil {
		t.Fatalf("accountant search: %v", err)
	}
}
