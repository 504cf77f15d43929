package notifications

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	messages map[string]*Message
	order    []string
}

func newMemStore() *memStore {
	return &memStore{messages: map[string]*Message{}}
}

func (m *memStore) Enqueue(_ context.Context, msg Message) error {
	m.messages[msg.ID] = &msg
	m.order = append(m.order, msg.ID)
	return nil
}

func (m *memStore) DuePending(_ context.Context, maxAttempts, limit int) ([]Message, error) {
	var out []Message
	for _, id := range m.order {
		msg := m.messages[id]
		if msg.Status == StatusPending && msg.Attempts < maxAttempts {
			out = append(out, *msg)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) MarkSent(_ context.Context, id string) error {
	msg := m.messages[id]
	msg.Status = StatusSent
	msg.Attempts++
	return nil
}

func (m *memStore) MarkFailed(_ context.Context, id, errMsg string, final bool) error {
	msg := m.messages[id]
	msg.Attempts++
	msg.LastError = errMsg
	if final {
		msg.Status = StatusFailed
	}
	return nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]Message, error) {
	return m.DuePending(context.Background(), 1<<30, limit)
}

type flakyMailer struct {
	failures int
	sent     []string
}

func (f *flakyMailer) Send(_ context.Context, _, to, _, _ string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestNotifySkipsBlankRecipient(t *testing.T) {
	store := newMemStore()
	svc := New(store, "hr@example.com")

	if err := svc.Notify(context.Background(), "  ", "subject", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(store.messages) != 0 {
		t.Fatal("blank recipient must not be enqueued")
	}
}

func TestDispatcherDeliversAndRetries(t *testing.T) {
	store := newMemStore()
	svc := New(store, "hr@example.com")
	if err := svc.Notify(context.Background(), "emp@example.com", "Leave approved", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	mailer := &flakyMailer{failures: 1}
	d := NewDispatcher(store, mailer, "hr@example.com", time.Minute, 3)

	// First pass fails, message stays pending with one attempt recorded.
	if err := d.DispatchOnce(context.Background()); err != nil {
		t.Fatalf("DispatchOnce: %v", err)
	}
	msg := store.messages[store.order[0]]
	if msg.Status != StatusPending || msg.Attempts != 1 {
		t.Fatalf("after failure: status=%s attempts=%d, want pending/1", msg.Status, msg.Attempts)
	}

	// Second pass succeeds.
	if err := d.DispatchOnce(context.Background()); err != nil {
		t.Fatalf("DispatchOnce: %v", err)
	}
	if msg.Status != StatusSent {
		t.Fatalf("status = %s, want sent", msg.Status)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "emp@example.com" {
		t.Fatalf("sent = %v", mailer.sent)
	}
}

func TestDispatcherAbandonsAfterMaxAttempts(t *testing.T) {
	store := newMemStore()
	svc := New(store, "hr@example.com")
	if err := svc.Notify(context.Background(), "emp@example.com", "subject", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	mailer := &flakyMailer{failures: 10}
	d := NewDispatcher(store, mailer, "hr@example.com", time.Minute, 2)

	for i := 0; i < 5; i++ {
		if err := d.DispatchOnce(context.Background()); err != nil {
			t.Fatalf("DispatchOnce: %v", err)
		}
	}

	msg := store.messages[store.order[0]]
	if msg.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", msg.Status)
	}
	if msg.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2 (no retries past the cap)", msg.Attempts)
	}
	if msg.LastError == "" {
		t.Fatal("last error should be recorded")
	}
}
