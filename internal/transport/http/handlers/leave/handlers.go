package leavehandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/platform/jobs"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Jobs    *jobs.Service
}

func NewHandler(service *leave.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Post("/requests", h.handleSubmit)
		r.Get("/requests", h.handleListRequests)
		r.Post("/requests/{requestID}/approve", h.handleApprove)
		r.Post("/requests/{requestID}/reject", h.handleReject)
		r.Get("/plan", h.handlePlan)
		r.Get("/holidays", h.handleListHolidays)
		r.Post("/holidays", h.handleAddHoliday)
		r.Delete("/holidays/{date}", h.handleRemoveHoliday)
		r.Post("/accrual/run", h.handleRunAccrual)
	})
}

type submitPayload struct {
	LeaveType string `json:"leaveType"`
	Session   string `json:"session"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.LeaveType == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "leave type required", middleware.GetRequestID(r.Context()))
		return
	}
	start, err := shared.ParseDate(payload.StartDate)
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid start date", middleware.GetRequestID(r.Context()))
		return
	}
	end, err := shared.ParseDate(payload.EndDate)
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid end date", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.Submit(r.Context(), user, leave.SubmitForm{
		LeaveType: payload.LeaveType,
		Session:   payload.Session,
		Start:     start,
		End:       end,
		Reason:    payload.Reason,
	})
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, leave.ErrInvalidDays):
			api.Fail(w, http.StatusBadRequest, "invalid_dates", err.Error(), requestID)
		case errors.Is(err, leave.ErrInsufficientBalance):
			api.Fail(w, http.StatusBadRequest, "insufficient_balance", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_submit_failed", "failed to submit request", requestID)
		}
		return
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	mine, team, err := h.Service.RequestsFor(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_requests_failed", "failed to list requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"mine": mine,
		"team": team,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Approve, "approved")
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.Service.Reject, "rejected")
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, action func(context.Context, employee.Employee, string) error, status string) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	requestID := chi.URLParam(r, "requestID")
	if err := action(r.Context(), user, requestID); err != nil {
		rid := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, leave.ErrRequestNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", rid)
		case errors.Is(err, leave.ErrAlreadyProcessed):
			api.Fail(w, http.StatusConflict, "already_processed", err.Error(), rid)
		case errors.Is(err, leave.ErrNotAuthorized):
			api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), rid)
		default:
			api.Fail(w, http.StatusInternalServerError, "leave_decision_failed", "failed to process request", rid)
		}
		return
	}
	api.Success(w, map[string]string{"status": status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	start, err := shared.ParseDate(r.URL.Query().Get("start"))
	if err != nil || start.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid start date", middleware.GetRequestID(r.Context()))
		return
	}
	end, err := shared.ParseDate(r.URL.Query().Get("end"))
	if err != nil || end.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid end date", middleware.GetRequestID(r.Context()))
		return
	}

	days, excluded, err := h.Service.PlanDays(r.Context(), start, end)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_plan_failed", "failed to compute plan", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"days":     days,
		"excluded": excluded,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	holidays, err := h.Service.Holidays(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "holiday_list_failed", "failed to list holidays", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, holidays, middleware.GetRequestID(r.Context()))
}

type holidayPayload struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Kind  string `json:"kind"`
}

func (h *Handler) handleAddHoliday(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload holidayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Title == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "title required", middleware.GetRequestID(r.Context()))
		return
	}

	holiday := leave.Holiday{Date: date, Title: payload.Title, Kind: payload.Kind}
	if err := h.Service.AddHoliday(r.Context(), user, holiday); err != nil {
		if errors.Is(err, leave.ErrNotAuthorized) {
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "holiday_create_failed", "failed to create holiday", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, holiday, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRemoveHoliday(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	date, err := shared.ParseDate(chi.URLParam(r, "date"))
	if err != nil || date.IsZero() {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.RemoveHoliday(r.Context(), user, date); err != nil {
		if errors.Is(err, leave.ErrNotAuthorized) {
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "holiday_delete_failed", "failed to delete holiday", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

// handleRunAccrual forces one run of an accrual strategy outside the
// scheduler: prorata, flat or carryover.
func (h *Handler) handleRunAccrual(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if !auth.IsPrivileged(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", middleware.GetRequestID(r.Context()))
		return
	}

	strategy := r.URL.Query().Get("strategy")
	var jobType string
	var run func(context.Context) (any, error)
	switch strategy {
	case "", "prorata":
		jobType = jobs.JobAccrualProRata
		run = func(ctx context.Context) (any, error) { return h.Service.AccrueProRata(ctx) }
	case "flat":
		jobType = jobs.JobAccrualFlat
		run = func(ctx context.Context) (any, error) { return h.Service.AccrueFlatMonthly(ctx) }
	case "carryover":
		jobType = jobs.JobCarryOver
		run = func(ctx context.Context) (any, error) { return h.Service.ApplyYearlyCarryOver(ctx) }
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown strategy", middleware.GetRequestID(r.Context()))
		return
	}

	var summary any
	var err error
	if h.Jobs != nil {
		summary, err = h.Jobs.RunNow(r.Context(), jobType, run)
	} else {
		summary, err = run(r.Context())
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "accrual_failed", "failed to run accrual", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
