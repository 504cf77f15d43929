package notificationshandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications/outbox", h.handleOutbox)
}

// handleOutbox exposes the recent outbox tail for delivery troubleshooting.
func (h *Handler) handleOutbox(w http.ResponseWriter, r *http.Request) {
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
	messages, err := h.Service.Recent(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "outbox_failed", "failed to list outbox messages", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, messages, middleware.GetRequestID(r.Context()))
}
