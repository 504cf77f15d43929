package announcements

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

var (
	ErrForbidden  = errors.New("admin or hr role required")
	ErrValidation = errors.New("title and message are required")
)

type Announcement struct {
	ID       int64     `json:"id"`
	PostedAt time.Time `json:"postedAt"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	PostedBy string    `json:"postedBy"`
}

type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

type Directory interface {
	List(ctx context.Context) ([]employee.Employee, error)
}

type Recorder interface {
	Record(ctx context.Context, actor, action, details string) error
}

type Service struct {
	DB        *pgxpool.Pool
	Directory Directory
	Audit     Recorder
	Notify    Notifier
}

func New(db *pgxpool.Pool, directory Directory, audit Recorder, notify Notifier) *Service {
	return &Service{DB: db, Directory: directory, Audit: audit, Notify: notify}
}

// Post stores an announcement and queues a best-effort broadcast to every
// active employee.
func (s *Service) Post(ctx context.Context, actor employee.Employee, title, message string) (Announcement, error) {
	if !auth.IsPrivileged(actor.Role) {
		return Announcement{}, ErrForbidden
	}
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" || message == "" {
		return Announcement{}, ErrValidation
	}

	ann := Announcement{Title: title, Message: message, PostedBy: actor.Email}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO announcements (title, message, posted_by)
		VALUES ($1, $2, $3)
		RETURNING id, posted_at`, title, message, actor.Email).Scan(&ann.ID, &ann.PostedAt)
	if err != nil {
		return Announcement{}, err
	}

	if s.Audit != nil {
		if err := s.Audit.Record(ctx, actor.Email, "announcement.post", title); err != nil {
			slog.Warn("audit announcement.post failed", "err", err)
		}
	}
	s.broadcast(ctx, ann)
	return ann, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, posted_at, title, message, posted_by
		FROM announcements
		ORDER BY posted_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Announcement{}
	for rows.Next() {
		var ann Announcement
		if err := rows.Scan(&ann.ID, &ann.PostedAt, &ann.Title, &ann.Message, &ann.PostedBy); err != nil {
			return nil, err
		}
		out = append(out, ann)
	}
	return out, rows.Err()
}

func (s *Service) broadcast(ctx context.Context, ann Announcement) {
	if s.Notify == nil || s.Directory == nil {
		return
	}
	employees, err := s.Directory.List(ctx)
	if err != nil {
		slog.Warn("announcement broadcast list failed", "err", err)
		return
	}
	subject := fmt.Sprintf("Announcement: %s", ann.Title)
	for _, emp := range employees {
		if !emp.Active() || emp.Email == "" {
			continue
		}
		if err := s.Notify.Notify(ctx, emp.Email, subject, ann.Message); err != nil {
			slog.Warn("announcement broadcast enqueue failed", "recipient", emp.Email, "err", err)
		}
	}
}
