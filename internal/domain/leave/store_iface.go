package leave

import (
	"context"
	"time"

	"hrms/internal/domain/employee"
)

type StoreAPI interface {
	InsertRequest(ctx context.Context, req Request) error
	RequestByID(ctx context.Context, requestID string) (Request, error)
	SetStatus(ctx context.Context, requestID, status string) error
	// PendingDays sums the day counts of the employee's other Pending requests
	// with the same free-text type label; submissions reserve against it.
	PendingDays(ctx context.Context, empID, leaveType string) (float64, error)
	ListByEmployee(ctx context.Context, empID string) ([]Request, error)
	ListPending(ctx context.Context) ([]Request, error)
	ListPendingForManager(ctx context.Context, managerID string) ([]Request, error)

	Holidays(ctx context.Context) ([]Holiday, error)
	InsertHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, date time.Time) error
}

// DirectoryAPI is the slice of the employee store the workflow and accrual
// jobs need. *employee.Store satisfies it.
type DirectoryAPI interface {
	ByID(ctx context.Context, empID string) (employee.Employee, error)
	List(ctx context.Context) ([]employee.Employee, error)
	UpdateBalances(ctx context.Context, empID string, balances employee.Balances, lastAccrualOn *time.Time, expectedVersion int64) error
}

// Recorder is the append-only audit sink. Failures are logged by callers and
// never block the primary operation.
type Recorder interface {
	Record(ctx context.Context, actor, action, details string) error
}

// Notifier delivers best-effort messages; the workflow treats every failure
// as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}
