package notifications

import "context"

type StoreAPI interface {
	Enqueue(ctx context.Context, msg Message) error
	// DuePending returns pending messages with fewer than maxAttempts delivery
	// attempts, oldest first.
	DuePending(ctx context.Context, maxAttempts, limit int) ([]Message, error)
	MarkSent(ctx context.Context, id string) error
	// MarkFailed bumps the attempt counter and records the error; final moves
	// the message to the failed status so the dispatcher stops retrying it.
	MarkFailed(ctx context.Context, id string, errMsg string, final bool) error
	Recent(ctx context.Context, limit int) ([]Message, error)
}
