package employee

import (
	"context"
	"time"
)

type StoreAPI interface {
	ByEmail(ctx context.Context, email string) (Employee, error)
	ByID(ctx context.Context, empID string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Insert(ctx context.Context, emp Employee) error
	UpdateProfile(ctx context.Context, empID, mobile string, dob time.Time) error
	UpdateManager(ctx context.Context, empID, managerID string) error

	// UpdateBalances writes the balance fields and optionally advances the
	// last-accrual date. expectedVersion must match the row_version the caller
	// read; on mismatch the write is rejected with ErrVersionConflict and the
	// caller re-reads and retries.
	UpdateBalances(ctx context.Context, empID string, balances Balances, lastAccrualOn *time.Time, expectedVersion int64) error
}
