package announcementshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/announcements"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *announcements.Service
}

func NewHandler(service *announcements.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/announcements", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handlePost)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.Service.Recent(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "announcement_list_failed", "failed to list announcements", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type postPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload postPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	ann, err := h.Service.Post(r.Context(), user, payload.Title, payload.Message)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, announcements.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, announcements.ErrValidation):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "announcement_post_failed", "failed to post announcement", requestID)
		}
		return
	}
	api.Created(w, ann, middleware.GetRequestID(r.Context()))
}
