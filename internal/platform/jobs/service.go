package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/leave"
	"hrms/internal/platform/config"
)

const (
	JobAccrualProRata = "accrual_prorata"
	JobAccrualFlat    = "accrual_flat"
	JobCarryOver      = "leave_carryover"
)

// Service schedules the periodic leave jobs: the configured accrual strategy
// on every interval, the yearly carry-over once on January 1.
type Service struct {
	DB    *pgxpool.Pool
	Cfg   config.Config
	Leave *leave.Service
	Now   func() time.Time
}

func New(db *pgxpool.Pool, cfg config.Config, leaveSvc *leave.Service) *Service {
	return &Service{DB: db, Cfg: cfg, Leave: leaveSvc, Now: time.Now}
}

func (s *Service) Start(ctx context.Context) {
	if s.Cfg.AccrualInterval <= 0 {
		return
	}
	go s.loop(ctx)
}

func (s *Service) loop(ctx context.Context) {
	ticker := time.NewTicker(s.Cfg.AccrualInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one scheduler pass. Exported so an operator endpoint can force
// a run between intervals.
func (s *Service) Tick(ctx context.Context) {
	now := s.Now()

	if now.Month() == time.January && now.Day() == 1 {
		ran, err := s.ranThisYear(ctx, JobCarryOver, now.Year())
		if err != nil {
			slog.Warn("carry-over run lookup failed", "err", err)
		} else if !ran {
			if _, err := s.RunNow(ctx, JobCarryOver, func(runCtx context.Context) (any, error) {
				return s.Leave.ApplyYearlyCarryOver(runCtx)
			}); err != nil {
				slog.Warn("carry-over job failed", "err", err)
			}
		}
	}

	jobType, run := s.accrualJob()
	if _, err := s.RunNow(ctx, jobType, run); err != nil {
		slog.Warn("accrual job failed", "jobType", jobType, "err", err)
	}
}

func (s *Service) accrualJob() (string, func(context.Context) (any, error)) {
	if s.Cfg.AccrualStrategy == "flat" {
		return JobAccrualFlat, func(ctx context.Context) (any, error) {
			return s.Leave.AccrueFlatMonthly(ctx)
		}
	}
	return JobAccrualProRata, func(ctx context.Context) (any, error) {
		return s.Leave.AccrueProRata(ctx)
	}
}

// RunNow executes a job inline, recording the run in job_runs.
func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	var runID int64
	if err := s.DB.QueryRow(ctx, `
		INSERT INTO job_runs (job_type, status)
		VALUES ($1, $2)
		RETURNING id`, jobType, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != 0 {
		if _, updErr := s.DB.Exec(ctx, `
			UPDATE job_runs
			SET status = $1, details_json = $2, completed_at = now()
			WHERE id = $3`, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) ranThisYear(ctx context.Context, jobType string, year int) (bool, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	var count int
	err := s.DB.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM job_runs
		WHERE job_type = $1 AND status = 'completed' AND started_at >= $2`,
		jobType, yearStart).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
