package attendance

import (
	"context"
	"time"

	"hrms/internal/domain/leave"
)

type StoreAPI interface {
	// Insert writes one mark; a second mark of the same kind for the same
	// employee and day fails with ErrAlreadyMarked.
	Insert(ctx context.Context, mark Mark) (Mark, error)
	ForEmployeeDay(ctx context.Context, empID, day string) ([]Mark, error)
	History(ctx context.Context, empID string, from, to time.Time) ([]Mark, error)
	// Search returns all marks for a day, optionally narrowed by a
	// case-insensitive employee name fragment.
	Search(ctx context.Context, day, nameQuery string) ([]Mark, error)
}

// HolidaySource supplies the holiday list the working-day check needs.
// *leave.Store satisfies it.
type HolidaySource interface {
	Holidays(ctx context.Context) ([]leave.Holiday, error)
}
