package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Insert(ctx context.Context, mark Mark) (Mark, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO attendance (day, emp_id, kind, marked_at, lat, lng, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		mark.Day, mark.EmpID, mark.Kind, mark.MarkedAt, mark.Lat, mark.Lng, mark.Device).Scan(&mark.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Mark{}, ErrAlreadyMarked
		}
		return Mark{}, err
	}
	return mark, nil
}

func (s *Store) ForEmployeeDay(ctx context.Context, empID, day string) ([]Mark, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, to_char(a.day, 'YYYY-MM-DD'), a.emp_id, e.name, a.kind, a.marked_at, a.lat, a.lng, a.device
		FROM attendance a
		JOIN employees e ON e.emp_id = a.emp_id
		WHERE a.emp_id = $1 AND a.day = $2::date
		ORDER BY a.marked_at ASC`, empID, day)
	if err != nil {
		return nil, err
	}
	return collectMarks(rows)
}

func (s *Store) History(ctx context.Context, empID string, from, to time.Time) ([]Mark, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, to_char(a.day, 'YYYY-MM-DD'), a.emp_id, e.name, a.kind, a.marked_at, a.lat, a.lng, a.device
		FROM attendance a
		JOIN employees e ON e.emp_id = a.emp_id
		WHERE a.emp_id = $1 AND a.day BETWEEN $2 AND $3
		ORDER BY a.day DESC, a.marked_at ASC`, empID, from, to)
	if err != nil {
		return nil, err
	}
	return collectMarks(rows)
}

func (s *Store) Search(ctx context.Context, day, nameQuery string) ([]Mark, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, to_char(a.day, 'YYYY-MM-DD'), a.emp_id, e.name, a.kind, a.marked_at, a.lat, a.lng, a.device
		FROM attendance a
		JOIN employees e ON e.emp_id = a.emp_id
		WHERE a.day = $1::date AND ($2 = '' OR e.name ILIKE '%' || $2 || '%')
		ORDER BY e.name ASC, a.marked_at ASC`, day, nameQuery)
	if err != nil {
		return nil, err
	}
	return collectMarks(rows)
}

func collectMarks(rows pgx.Rows) ([]Mark, error) {
	defer rows.Close()

	marks := []Mark{}
	for rows.Next() {
		var m Mark
		if err := rows.Scan(&m.ID, &m.Day, &m.EmpID, &m.EmpName, &m.Kind, &m.MarkedAt, &m.Lat, &m.Lng, &m.Device); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}
