package notifications

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Enqueue(ctx context.Context, msg Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO outbox_messages (id, recipient, subject, body, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.Recipient, msg.Subject, msg.Body, msg.Status, msg.Attempts, msg.CreatedAt)
	return err
}

func (s *Store) DuePending(ctx context.Context, maxAttempts, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipient, subject, body, status, attempts, last_error, created_at, sent_at
		FROM outbox_messages
		WHERE status = $1 AND attempts < $2
		ORDER BY created_at ASC
		LIMIT $3`, StatusPending, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

func (s *Store) MarkSent(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE outbox_messages
		SET status = $1, attempts = attempts + 1, last_error = '', sent_at = now()
		WHERE id = $2`, StatusSent, id)
	return err
}

func (s *Store) MarkFailed(ctx context.Context, id string, errMsg string, final bool) error {
	status := StatusPending
	if final {
		status = StatusFailed
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE outbox_messages
		SET status = $1, attempts = attempts + 1, last_error = $2
		WHERE id = $3`, status, errMsg, id)
	return err
}

func (s *Store) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, recipient, subject, body, status, attempts, last_error, created_at, sent_at
		FROM outbox_messages
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.Recipient, &msg.Subject, &msg.Body,
			&msg.Status, &msg.Attempts, &msg.LastError, &msg.CreatedAt, &msg.SentAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
