package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"hrms/internal/domain/announcements"
	"hrms/internal/domain/assets"
	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/documents"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/reports"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	announcementshandler "hrms/internal/transport/http/handlers/announcements"
	assetshandler "hrms/internal/transport/http/handlers/assets"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	authhandler "hrms/internal/transport/http/handlers/auth"
	documentshandler "hrms/internal/transport/http/handlers/documents"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	reportshandler "hrms/internal/transport/http/handlers/reports"
	"hrms/internal/transport/http/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("dotenv load failed", "err", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.Environment == "development" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	employeeStore := employee.NewStore(pool)
	employeeSvc := employee.NewService(employeeStore)
	auditSvc := audit.New(pool)

	notifyStore := notifications.NewStore(pool)
	notifySvc := notifications.New(notifyStore, cfg.EmailFrom)
	dispatcher := notifications.NewDispatcher(notifyStore, email.New(cfg), cfg.EmailFrom, cfg.OutboxInterval, cfg.OutboxMaxAttempts)

	leaveStore := leave.NewStore(pool)
	leaveSvc := leave.NewService(leaveStore, employeeStore, auditSvc, notifySvc)

	attendanceSvc := attendance.NewService(attendance.NewStore(pool), leaveStore, auditSvc)
	announcementSvc := announcements.New(pool, employeeStore, auditSvc, notifySvc)
	assetSvc := assets.New(pool, employeeStore, auditSvc)
	payrollSvc := payroll.New(pool, employeeStore, auditSvc)
	documentSvc := documents.NewService(documents.NewStore(pool), employeeStore, auditSvc)
	reportSvc := reports.New(pool, auditSvc, announcementSvc)
	jobSvc := jobs.New(pool, cfg, leaveSvc)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret, employeeSvc))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		if !ok || !auth.IsPrivileged(user.Role) {
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(employeeSvc, cfg.JWTSecret, cfg.TokenTTL).RegisterRoutes(r)
		employeehandler.NewHandler(employeeSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, jobSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		announcementshandler.NewHandler(announcementSvc).RegisterRoutes(r)
		assetshandler.NewHandler(assetSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc).RegisterRoutes(r)
		documentshandler.NewHandler(documentSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc, auditSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
	})

	dispatcher.Start(ctx)
	jobSvc.Start(ctx)

	slog.Info("hrms server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
