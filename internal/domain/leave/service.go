package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

type Service struct {
	Store     StoreAPI
	Directory DirectoryAPI
	Audit     Recorder
	Notify    Notifier

	// Now is swappable for tests; it stamps request IDs and accrual dates.
	Now func() time.Time
}

func NewService(store StoreAPI, directory DirectoryAPI, audit Recorder, notify Notifier) *Service {
	return &Service{Store: store, Directory: directory, Audit: audit, Notify: notify, Now: time.Now}
}

// Submit validates and records a leave request with status Pending. The day
// count is fixed here: half-day sessions are 0.5 regardless of the date range,
// full-day requests use the working-day counter. For types that resolve to a
// tracked balance the request must fit within balance minus the days already
// reserved by the employee's other Pending requests of the same type.
func (s *Service) Submit(ctx context.Context, requester employee.Employee, form SubmitForm) (Request, error) {
	var days float64
	if form.Session == SessionFirstHalf || form.Session == SessionSecondHalf {
		days = 0.5
	} else {
		holidays, err := s.holidaySet(ctx)
		if err != nil {
			return Request{}, err
		}
		days = float64(CountWorkingDays(form.Start, form.End, holidays))
	}

	if days <= 0 {
		return Request{}, ErrInvalidDays
	}

	if key, ok := ResolveBalanceKey(form.LeaveType); ok {
		pending, err := s.Store.PendingDays(ctx, requester.EmpID, form.LeaveType)
		if err != nil {
			return Request{}, err
		}
		available := BalanceFor(requester.Balances, key) - pending
		if available < days {
			return Request{}, fmt.Errorf("%w: available %.2f, requested %.2f (includes %.2f pending days)",
				ErrInsufficientBalance, available, days, pending)
		}
	}

	now := s.Now()
	req := Request{
		RequestID: fmt.Sprintf("LR-%d", now.UnixMilli()),
		EmpID:     requester.EmpID,
		LeaveType: form.LeaveType,
		StartDate: form.Start,
		EndDate:   form.End,
		Reason:    form.Reason,
		Status:    StatusPending,
		Days:      days,
		CreatedAt: now,
	}
	if err := s.Store.InsertRequest(ctx, req); err != nil {
		return Request{}, err
	}

	s.audit(ctx, requester.Email, "leave.submit", fmt.Sprintf("%v days %s (%s)", days, form.LeaveType, req.RequestID))
	s.notifySubmission(ctx, requester, req)
	return req, nil
}

// Approve transitions a Pending request to Approved and deducts the fixed day
// count from the requester's balance. The transition is terminal: a second
// attempt fails with ErrAlreadyProcessed and the balance is deducted exactly
// once. Deduction is unconditional; an intervening approval that drained the
// balance is not re-checked, so the balance may go negative.
func (s *Service) Approve(ctx context.Context, approver employee.Employee, requestID string) error {
	return s.decide(ctx, approver, requestID, StatusApproved)
}

// Reject transitions a Pending request to Rejected without touching balances.
func (s *Service) Reject(ctx context.Context, approver employee.Employee, requestID string) error {
	return s.decide(ctx, approver, requestID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, approver employee.Employee, requestID, nextStatus string) error {
	req, err := s.Store.RequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusPending {
		return ErrAlreadyProcessed
	}

	requester, err := s.Directory.ByID(ctx, req.EmpID)
	if err != nil {
		return err
	}

	if !auth.IsPrivileged(approver.Role) && requester.ManagerID != approver.EmpID {
		s.audit(ctx, approver.Email, "leave.decide.denied",
			fmt.Sprintf("unauthorized attempt by %s for %s", approver.EmpID, requestID))
		return ErrNotAuthorized
	}

	if nextStatus == StatusApproved {
		if key, ok := ResolveBalanceKey(req.LeaveType); ok {
			if err := s.deduct(ctx, req.EmpID, key, req.Days); err != nil {
				return err
			}
		}
	}

	if err := s.Store.SetStatus(ctx, requestID, nextStatus); err != nil {
		return err
	}

	s.audit(ctx, approver.Email, "leave."+lower(nextStatus), fmt.Sprintf("%s %s by %s", nextStatus, requestID, approver.Email))
	s.notifyDecision(ctx, requester, approver, req, nextStatus)
	return nil
}

const balanceWriteAttempts = 3

func (s *Service) deduct(ctx context.Context, empID string, key BalanceKey, days float64) error {
	return s.writeBalance(ctx, empID, nil, func(b employee.Balances) employee.Balances {
		return ApplyDelta(b, key, -days)
	})
}

// RequestsFor returns the caller's own requests plus the pending queue the
// caller may act on: everything for ADMIN/HR, direct reports for everyone
// else.
func (s *Service) RequestsFor(ctx context.Context, caller employee.Employee) (mine, team []Request, err error) {
	mine, err = s.Store.ListByEmployee(ctx, caller.EmpID)
	if err != nil {
		return nil, nil, err
	}
	if auth.IsPrivileged(caller.Role) {
		team, err = s.Store.ListPending(ctx)
	} else {
		team, err = s.Store.ListPendingForManager(ctx, caller.EmpID)
	}
	if err != nil {
		return nil, nil, err
	}
	return mine, team, nil
}

// PlanDays previews the day count for a date range the way Submit will fix
// it, with the excluded dates listed.
func (s *Service) PlanDays(ctx context.Context, start, end time.Time) (int, []string, error) {
	holidays, err := s.holidaySet(ctx)
	if err != nil {
		return 0, nil, err
	}
	days, excluded := CountWorkingDaysDetailed(start, end, holidays)
	return days, excluded, nil
}

func (s *Service) Holidays(ctx context.Context) ([]Holiday, error) {
	return s.Store.Holidays(ctx)
}

func (s *Service) AddHoliday(ctx context.Context, actor employee.Employee, h Holiday) error {
	if !auth.IsPrivileged(actor.Role) {
		return ErrNotAuthorized
	}
	if err := s.Store.InsertHoliday(ctx, h); err != nil {
		return err
	}
	s.audit(ctx, actor.Email, "holiday.add", fmt.Sprintf("%s %s", DateKey(h.Date), h.Title))
	return nil
}

func (s *Service) RemoveHoliday(ctx context.Context, actor employee.Employee, date time.Time) error {
	if !auth.IsPrivileged(actor.Role) {
		return ErrNotAuthorized
	}
	if err := s.Store.DeleteHoliday(ctx, date); err != nil {
		return err
	}
	s.audit(ctx, actor.Email, "holiday.remove", DateKey(date))
	return nil
}

func (s *Service) holidaySet(ctx context.Context) (HolidaySet, error) {
	holidays, err := s.Store.Holidays(ctx)
	if err != nil {
		return nil, err
	}
	set := make(HolidaySet, len(holidays))
	for _, h := range holidays {
		set[DateKey(h.Date)] = struct{}{}
	}
	return set, nil
}

func (s *Service) audit(ctx context.Context, actor, action, details string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actor, action, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func (s *Service) notifySubmission(ctx context.Context, requester employee.Employee, req Request) {
	if s.Notify == nil {
		return
	}
	body := fmt.Sprintf("Leave request %s: %v days %s from %s to %s.\nReason: %s",
		req.RequestID, req.Days, req.LeaveType, DateKey(req.StartDate), DateKey(req.EndDate), req.Reason)

	if requester.ManagerID != "" {
		if manager, err := s.Directory.ByID(ctx, requester.ManagerID); err == nil && manager.Email != "" {
			subject := fmt.Sprintf("Leave application from %s", requester.Name)
			if err := s.Notify.Notify(ctx, manager.Email, subject, body); err != nil {
				slog.Warn("manager notification failed", "requestId", req.RequestID, "err", err)
			}
		}
	}

	if err := s.Notify.Notify(ctx, requester.Email, "Your leave application has been submitted", body); err != nil {
		slog.Warn("requester notification failed", "requestId", req.RequestID, "err", err)
	}
}

func (s *Service) notifyDecision(ctx context.Context, requester, approver employee.Employee, req Request, status string) {
	if s.Notify == nil || requester.Email == "" {
		return
	}
	subject := fmt.Sprintf("Leave %s: %s", status, req.RequestID)
	body := fmt.Sprintf("%s has %s your leave request (%s).\n\nType: %s\nDays: %v",
		approver.Name, lower(status), req.RequestID, req.LeaveType, req.Days)
	if err := s.Notify.Notify(ctx, requester.Email, subject, body); err != nil {
		slog.Warn("decision notification failed", "requestId", req.RequestID, "err", err)
	}
}

func lower(status string) string {
	switch status {
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return status
}
