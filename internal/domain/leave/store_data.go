package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const requestColumns = `request_id, emp_id, leave_type, start_date, end_date, reason, status, days, created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.RequestID, &req.EmpID, &req.LeaveType, &req.StartDate,
		&req.EndDate, &req.Reason, &req.Status, &req.Days, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Request{}, ErrRequestNotFound
		}
		return Request{}, err
	}
	return req, nil
}

func (s *Store) InsertRequest(ctx context.Context, req Request) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO leave_requests (request_id, emp_id, leave_type, start_date, end_date, reason, status, days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		req.RequestID, req.EmpID, req.LeaveType, req.StartDate, req.EndDate,
		req.Reason, req.Status, req.Days, req.CreatedAt)
	return err
}

func (s *Store) RequestByID(ctx context.Context, requestID string) (Request, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM leave_requests
		WHERE request_id = $1`, requestID)
	return scanRequest(row)
}

func (s *Store) SetStatus(ctx context.Context, requestID, status string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE leave_requests SET status = $1 WHERE request_id = $2`, status, requestID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *Store) PendingDays(ctx context.Context, empID, leaveType string) (float64, error) {
	var days float64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(days), 0)
		FROM leave_requests
		WHERE emp_id = $1 AND leave_type = $2 AND status = $3`,
		empID, leaveType, StatusPending).Scan(&days)
	return days, err
}

func (s *Store) ListByEmployee(ctx context.Context, empID string) ([]Request, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM leave_requests
		WHERE emp_id = $1
		ORDER BY created_at DESC`, empID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (s *Store) ListPending(ctx context.Context) ([]Request, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM leave_requests
		WHERE status = $1
		ORDER BY created_at ASC`, StatusPending)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (s *Store) ListPendingForManager(ctx context.Context, managerID string) ([]Request, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.request_id, r.emp_id, r.leave_type, r.start_date, r.end_date, r.reason, r.status, r.days, r.created_at
		FROM leave_requests r
		JOIN employees e ON e.emp_id = r.emp_id
		WHERE r.status = $1 AND e.manager_id = $2
		ORDER BY r.created_at ASC`, StatusPending, managerID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (s *Store) Holidays(ctx context.Context) ([]Holiday, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT holiday_date, title, kind
		FROM holidays
		ORDER BY holiday_date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []Holiday{}
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.Date, &h.Title, &h.Kind); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *Store) InsertHoliday(ctx context.Context, h Holiday) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO holidays (holiday_date, title, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (holiday_date) DO UPDATE SET title = EXCLUDED.title, kind = EXCLUDED.kind`,
		h.Date, h.Title, h.Kind)
	return err
}

func (s *Store) DeleteHoliday(ctx context.Context, date time.Time) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM holidays WHERE holiday_date = $1`, date)
	return err
}
