package db

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed ensures a bootstrap ADMIN employee exists so the first operator can
// log in and create the rest of the directory.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	password := strings.TrimSpace(cfg.SeedAdminPassword)
	if email == "" || password == "" {
		slog.Info("seed skipped: admin credentials not configured")
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx,
		"SELECT emp_id FROM employees WHERE lower(email) = lower($1)", email).Scan(&existing)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	_, err = pool.Exec(ctx, `
		INSERT INTO employees (emp_id, name, email, role, date_of_joining, status, password_hash, bal_sick, last_accrual_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 7, $5)`,
		"ADMIN-1", "Administrator", email, auth.RoleAdmin, today, "Active", hash)
	if err != nil {
		return err
	}
	slog.Info("seeded admin employee", "email", email)
	return nil
}
