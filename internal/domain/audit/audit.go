package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID         int64     `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
}

// Service is the append-only audit log. Record never blocks the operation
// being audited: callers log and swallow its errors.
type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actor, action, details string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO audit_events (actor, action, details)
		VALUES ($1, $2, $3)`, actor, action, details)
	return err
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, occurred_at, actor, action, details
		FROM audit_events
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.OccurredAt, &evt.Actor, &evt.Action, &evt.Details); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}
