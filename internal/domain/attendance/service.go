package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
)

type Recorder interface {
	Record(ctx context.Context, actor, action, details string) error
}

type Service struct {
	Store    StoreAPI
	Holidays HolidaySource
	Audit    Recorder
	Now      func() time.Time
}

func NewService(store StoreAPI, holidays HolidaySource, audit Recorder) *Service {
	return &Service{Store: store, Holidays: holidays, Audit: audit, Now: time.Now}
}

// Mark records a check-in or check-out for the caller's current day. Marking
// is refused on non-working days, and at most one mark of each kind per day.
func (s *Service) Mark(ctx context.Context, actor employee.Employee, kind, lat, lng, device string) (Mark, error) {
	if kind != KindCheckIn && kind != KindCheckOut {
		return Mark{}, ErrUnknownKind
	}

	now := s.Now()
	holidays, err := s.holidaySet(ctx)
	if err != nil {
		return Mark{}, err
	}
	if leave.IsNonWorkingDay(now, holidays) {
		return Mark{}, ErrNonWorkingDay
	}

	mark := Mark{
		Day:      leave.DateKey(now),
		EmpID:    actor.EmpID,
		Kind:     kind,
		MarkedAt: now,
		Lat:      lat,
		Lng:      lng,
		Device:   device,
	}
	inserted, err := s.Store.Insert(ctx, mark)
	if err != nil {
		return Mark{}, err
	}

	if s.Audit != nil {
		if err := s.Audit.Record(ctx, actor.Email, "attendance.mark", fmt.Sprintf("%s on %s", kind, mark.Day)); err != nil {
			slog.Warn("audit attendance.mark failed", "err", err)
		}
	}
	return inserted, nil
}

// Today returns the caller's marks for the current day.
func (s *Service) Today(ctx context.Context, actor employee.Employee) ([]Mark, error) {
	return s.Store.ForEmployeeDay(ctx, actor.EmpID, leave.DateKey(s.Now()))
}

// History returns marks for one employee over a date range. Non-privileged
// callers are always scoped to their own records regardless of the requested
// employee.
func (s *Service) History(ctx context.Context, caller employee.Employee, empID string, from, to time.Time) ([]Mark, error) {
	if !auth.CanViewAllAttendance(caller.Role) {
		empID = caller.EmpID
	}
	if empID == "" {
		empID = caller.EmpID
	}
	return s.Store.History(ctx, empID, from, to)
}

// Search lists all marks on a day, optionally filtered by employee name.
// Restricted to roles that may view everyone's attendance.
func (s *Service) Search(ctx context.Context, caller employee.Employee, day time.Time, nameQuery string) ([]Mark, error) {
	if !auth.CanViewAllAttendance(caller.Role) {
		return nil, ErrForbidden
	}
	return s.Store.Search(ctx, leave.DateKey(day), nameQuery)
}

func (s *Service) holidaySet(ctx context.Context) (leave.HolidaySet, error) {
	holidays, err := s.Holidays.Holidays(ctx)
	if err != nil {
		return nil, err
	}
	set := make(leave.HolidaySet, len(holidays))
	for _, h := range holidays {
		set[leave.DateKey(h.Date)] = struct{}{}
	}
	return set, nil
}
