package reportshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/reports"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
	Audit   *audit.Service
}

func NewHandler(service *reports.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
	r.Get("/audit", h.handleAuditTail)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	overview, err := h.Service.Dashboard(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to load dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, overview, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAuditTail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if !auth.IsPrivileged(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", middleware.GetRequestID(r.Context()))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.Audit.Recent(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, events, middleware.GetRequestID(r.Context()))
}
