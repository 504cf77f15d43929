package notifications

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// Service enqueues messages into the outbox; the Dispatcher delivers them.
// Splitting write from delivery keeps email availability out of the request
// path: a down SMTP server delays mail, it never fails an approval.
type Service struct {
	Store StoreAPI
	From  string
	Now   func() time.Time
}

func New(store StoreAPI, from string) *Service {
	return &Service{Store: store, From: from, Now: time.Now}
}

// Notify writes one outbox row. Blank recipients are dropped silently.
func (s *Service) Notify(ctx context.Context, recipient, subject, body string) error {
	if strings.TrimSpace(recipient) == "" {
		return nil
	}
	msg := Message{
		ID:        uuid.NewString(),
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    StatusPending,
		CreatedAt: s.Now(),
	}
	return s.Store.Enqueue(ctx, msg)
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Store.Recent(ctx, limit)
}

// Dispatcher drains the outbox on a fixed interval. A message that keeps
// failing is retried until it reaches MaxAttempts and is then parked as
// failed.
type Dispatcher struct {
	Store       StoreAPI
	Mailer      Mailer
	From        string
	Interval    time.Duration
	MaxAttempts int
	BatchSize   int
}

func NewDispatcher(store StoreAPI, mailer Mailer, from string, interval time.Duration, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		Store:       store,
		Mailer:      mailer,
		From:        from,
		Interval:    interval,
		MaxAttempts: maxAttempts,
		BatchSize:   50,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	go d.loop(ctx)
}

func (d *Dispatcher) loop(ctx context.Context) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.DispatchOnce(ctx); err != nil {
				slog.Warn("outbox dispatch failed", "err", err)
			}
		}
	}
}

// DispatchOnce processes one batch of due messages.
func (d *Dispatcher) DispatchOnce(ctx context.Context) error {
	due, err := d.Store.DuePending(ctx, d.MaxAttempts, d.BatchSize)
	if err != nil {
		return err
	}
	for _, msg := range due {
		if err := d.Mailer.Send(ctx, d.From, msg.Recipient, msg.Subject, msg.Body); err != nil {
			final := msg.Attempts+1 >= d.MaxAttempts
			if markErr := d.Store.MarkFailed(ctx, msg.ID, err.Error(), final); markErr != nil {
				slog.Warn("outbox mark failed", "id", msg.ID, "err", markErr)
			}
			if final {
				slog.Warn("outbox message abandoned", "id", msg.ID, "recipient", msg.Recipient, "err", err)
			}
			continue
		}
		if err := d.Store.MarkSent(ctx, msg.ID); err != nil {
			slog.Warn("outbox mark sent failed", "id", msg.ID, "err", err)
		}
	}
	return nil
}
