package leave

import (
	"context"
	"fmt"
	"time"

	"hrms/internal/domain/employee"
)

type fakeStore struct {
	requests map[string]Request
	holidays []Holiday
}

func newFakeStore() *fakeStore {
	return &fakeStore{requests: map[string]Request{}}
}

func (f *fakeStore) InsertRequest(_ context.Context, req Request) error {
	f.requests[req.RequestID] = req
	return nil
}

func (f *fakeStore) RequestByID(_ context.Context, requestID string) (Request, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return Request{}, ErrRequestNotFound
	}
	return req, nil
}

func (f *fakeStore) SetStatus(_ context.Context, requestID, status string) error {
	req, ok := f.requests[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	req.Status = status
	f.requests[requestID] = req
	return nil
}

func (f *fakeStore) PendingDays(_ context.Context, empID, leaveType string) (float64, error) {
	var total float64
	for _, req := range f.requests {
		if req.EmpID == empID && req.LeaveType == leaveType && req.Status == StatusPending {
			total += req.Days
		}
	}
	return total, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, empID string) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.EmpID == empID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPending(_ context.Context) ([]Request, error) {
	var out []Request
	for _, req := range f.requests {
		if req.Status == StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPendingForManager(_ context.Context, _ string) ([]Request, error) {
	return nil, nil
}

func (f *fakeStore) Holidays(_ context.Context) ([]Holiday, error) {
	return f.holidays, nil
}

func (f *fakeStore) InsertHoliday(_ context.Context, h Holiday) error {
	f.holidays = append(f.holidays, h)
	return nil
}

func (f *fakeStore) DeleteHoliday(_ context.Context, date time.Time) error {
	kept := f.holidays[:0]
	for _, h := range f.holidays {
		if DateKey(h.Date) != DateKey(date) {
			kept = append(kept, h)
		}
	}
	f.holidays = kept
	return nil
}

type fakeDirectory struct {
	employees map[string]*employee.Employee
}

func newFakeDirectory(emps ...employee.Employee) *fakeDirectory {
	d := &fakeDirectory{employees: map[string]*employee.Employee{}}
	for i := range emps {
		e := emps[i]
		d.employees[e.EmpID] = &e
	}
	return d
}

func (f *fakeDirectory) ByID(_ context.Context, empID string) (employee.Employee, error) {
	e, ok := f.employees[empID]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return *e, nil
}

func (f *fakeDirectory) List(_ context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(f.employees))
	for _, e := range f.employees {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeDirectory) UpdateBalances(_ context.Context, empID string, balances employee.Balances, lastAccrualOn *time.Time, expectedVersion int64) error {
	e, ok := f.employees[empID]
	if !ok {
		return employee.ErrNotFound
	}
	if e.RowVersion != expectedVersion {
		return employee.ErrVersionConflict
	}
	e.Balances = balances
	if lastAccrualOn != nil {
		e.LastAccrualOn = *lastAccrualOn
	}
	e.RowVersion++
	return nil
}

type auditEntry struct {
	actor, action, details string
}

type fakeAudit struct {
	entries []auditEntry
}

func (f *fakeAudit) Record(_ context.Context, actor, action, details string) error {
	f.entries = append(f.entries, auditEntry{actor, action, details})
	return nil
}

func (f *fakeAudit) has(action string) bool {
	for _, e := range f.entries {
		if e.action == action {
			return true
		}
	}
	return false
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Notify(_ context.Context, recipient, subject, _ string) error {
	f.sent = append(f.sent, fmt.Sprintf("%s: %s", recipient, subject))
	return nil
}

func newTestService(store *fakeStore, dir *fakeDirectory, now time.Time) (*Service, *fakeAudit, *fakeNotifier) {
	audit := &fakeAudit{}
	notify := &fakeNotifier{}
	svc := NewService(store, dir, audit, notify)
	svc.Now = func() time.Time { return now }
	return svc, audit, notify
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, referenceZone)
}
