package attendancehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
}

func NewHandler(service *attendance.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Post("/mark", h.handleMark)
		r.Get("/today", h.handleToday)
		r.Get("/history", h.handleHistory)
		r.Get("/search", h.handleSearch)
	})
}

type markPayload struct {
	Kind   string `json:"kind"`
	Lat    string `json:"lat"`
	Lng    string `json:"lng"`
	Device string `json:"device"`
}

func (h *Handler) handleMark(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload markPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	mark, err := h.Service.Mark(r.Context(), user, payload.Kind, payload.Lat, payload.Lng, payload.Device)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, attendance.ErrUnknownKind):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		case errors.Is(err, attendance.ErrNonWorkingDay):
			api.Fail(w, http.StatusBadRequest, "non_working_day", err.Error(), requestID)
		case errors.Is(err, attendance.ErrAlreadyMarked):
			api.Fail(w, http.StatusConflict, "already_marked", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "attendance_mark_failed", "failed to mark attendance", requestID)
		}
		return
	}
	api.Created(w, mark, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	marks, err := h.Service.Today(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_today_failed", "failed to load today's marks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, marks, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	from, err := shared.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid from date", middleware.GetRequestID(r.Context()))
		return
	}
	to, err := shared.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid to date", middleware.GetRequestID(r.Context()))
		return
	}
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	marks, err := h.Service.History(r.Context(), user, r.URL.Query().Get("empId"), from, to)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_history_failed", "failed to load history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, marks, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	day, err := shared.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid date", middleware.GetRequestID(r.Context()))
		return
	}
	if day.IsZero() {
		day = time.Now()
	}

	marks, err := h.Service.Search(r.Context(), user, day, r.URL.Query().Get("name"))
	if err != nil {
		if errors.Is(err, attendance.ErrForbidden) {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "attendance_search_failed", "failed to search attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, marks, middleware.GetRequestID(r.Context()))
}
