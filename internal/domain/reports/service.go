package reports

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/announcements"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

type Overview struct {
	Employees       int                          `json:"employees"`
	ActiveEmployees int                          `json:"activeEmployees"`
	PendingLeaves   int                          `json:"pendingLeaves"`
	Announcements   []announcements.Announcement `json:"announcements"`
	RecentAudit     []audit.Event                `json:"recentAudit,omitempty"`
}

type Service struct {
	DB            *pgxpool.Pool
	Audit         *audit.Service
	Announcements *announcements.Service
}

func New(db *pgxpool.Pool, auditSvc *audit.Service, annSvc *announcements.Service) *Service {
	return &Service{DB: db, Audit: auditSvc, Announcements: annSvc}
}

// Dashboard assembles the landing-page numbers. The audit tail is included
// only for ADMIN and HR callers.
func (s *Service) Dashboard(ctx context.Context, caller employee.Employee) (Overview, error) {
	var out Overview

	err := s.DB.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)
		FROM employees`, employee.StatusActive).Scan(&out.Employees, &out.ActiveEmployees)
	if err != nil {
		return Overview{}, err
	}

	err = s.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM leave_requests WHERE status = 'Pending'`).Scan(&out.PendingLeaves)
	if err != nil {
		return Overview{}, err
	}

	anns, err := s.Announcements.Recent(ctx, 5)
	if err != nil {
		slog.Warn("dashboard announcements failed", "err", err)
		anns = []announcements.Announcement{}
	}
	out.Announcements = anns

	if auth.IsPrivileged(caller.Role) {
		events, err := s.Audit.Recent(ctx, 10)
		if err != nil {
			slog.Warn("dashboard audit tail failed", "err", err)
		} else {
			out.RecentAudit = events
		}
	}

	return out, nil
}
