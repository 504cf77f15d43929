package assetshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/assets"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *assets.Service
}

func NewHandler(service *assets.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assets", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Post("/{assetID}/assign", h.handleAssign)
		r.Post("/{assetID}/return", h.handleReturn)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	out, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "asset_list_failed", "failed to list assets", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type createPayload struct {
	Kind     string `json:"kind"`
	Model    string `json:"model"`
	SerialNo string `json:"serialNo"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	asset, err := h.Service.Create(r.Context(), user, payload.Kind, payload.Model, payload.SerialNo)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, assets.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, assets.ErrValidation):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "asset_create_failed", "failed to create asset", requestID)
		}
		return
	}
	api.Created(w, asset, middleware.GetRequestID(r.Context()))
}

type assignPayload struct {
	EmpID string `json:"empId"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload assignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	assetID := chi.URLParam(r, "assetID")
	if err := h.Service.Assign(r.Context(), user, assetID, payload.EmpID); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, assets.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		case errors.Is(err, assets.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "asset not found", requestID)
		case errors.Is(err, assets.ErrAssetUnavailable):
			api.Fail(w, http.StatusConflict, "asset_unavailable", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "asset_assign_failed", "failed to assign asset", requestID)
		}
		return
	}
	api.Success(w, map[string]string{"status": "assigned"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	assetID := chi.URLParam(r, "assetID")
	if err := h.Service.Return(r.Context(), user, assetID); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, assets.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, assets.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "asset not found", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "asset_return_failed", "failed to return asset", requestID)
		}
		return
	}
	api.Success(w, map[string]string{"status": "returned"}, middleware.GetRequestID(r.Context()))
}
