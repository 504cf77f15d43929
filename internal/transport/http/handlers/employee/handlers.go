package employeehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *employee.Service
}

func NewHandler(service *employee.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{empID}", h.handleGet)
		r.Put("/profile", h.handleUpdateProfile)
		r.Post("/{empID}/manager", h.handleAssignManager)
	})
}

func actorOf(user employee.Employee) auth.UserContext {
	return auth.UserContext{
		EmpID:     user.EmpID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ManagerID: user.ManagerID,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	if !auth.IsPrivileged(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", middleware.GetRequestID(r.Context()))
		return
	}

	employees, err := h.Service.List(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

type createPayload struct {
	EmpID         string `json:"empId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	DateOfJoining string `json:"dateOfJoining"`
	DateOfBirth   string `json:"dateOfBirth"`
	Mobile        string `json:"mobile"`
	ManagerID     string `json:"managerId"`
	Password      string `json:"password"`
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
	doj, err := shared.ParseDate(payload.DateOfJoining)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid dateOfJoining", middleware.GetRequestID(r.Context()))
		return
	}
	dob, err := shared.ParseDate(payload.DateOfBirth)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid dateOfBirth", middleware.GetRequestID(r.Context()))
		return
	}

	created, err := h.Service.Create(r.Context(), actorOf(user), employee.CreateInput{
		EmpID:         payload.EmpID,
		Name:          payload.Name,
		Email:         payload.Email,
		Role:          payload.Role,
		Department:    payload.Department,
		Designation:   payload.Designation,
		DateOfJoining: doj,
		DateOfBirth:   dob,
		Mobile:        payload.Mobile,
		ManagerID:     payload.ManagerID,
		Password:      payload.Password,
	})
	if err != nil {
		h.failCreate(w, r, err)
		return
	}
	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failCreate(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
	case errors.Is(err, employee.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	case errors.Is(err, employee.ErrDuplicateID), errors.Is(err, employee.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "duplicate", err.Error(), requestID)
	case errors.Is(err, employee.ErrManagerNotFound):
		api.Fail(w, http.StatusBadRequest, "manager_not_found", err.Error(), requestID)
	case errors.Is(err, employee.ErrManagerCycle):
		api.Fail(w, http.StatusBadRequest, "manager_cycle", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	empID := chi.URLParam(r, "empID")
	if empID != user.EmpID && !auth.IsPrivileged(user.Role) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.ByID(r.Context(), empID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

type profilePayload struct {
	Mobile      string `json:"mobile"`
	DateOfBirth string `json:"dateOfBirth"`
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	dob, err := shared.ParseDate(payload.DateOfBirth)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid dateOfBirth", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.UpdateProfile(r.Context(), actorOf(user), payload.Mobile, dob); err != nil {
		if errors.Is(err, employee.ErrValidation) {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile_update_failed", "failed to update profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

type assignManagerPayload struct {
	ManagerID string `json:"managerId"`
}

func (h *Handler) handleAssignManager(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload assignManagerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	empID := chi.URLParam(r, "empID")
	if err := h.Service.AssignManager(r.Context(), actorOf(user), empID, payload.ManagerID); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, employee.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		case errors.Is(err, employee.ErrManagerNotFound):
			api.Fail(w, http.StatusBadRequest, "manager_not_found", err.Error(), requestID)
		case errors.Is(err, employee.ErrManagerCycle):
			api.Fail(w, http.StatusBadRequest, "manager_cycle", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "manager_assign_failed", "failed to assign manager", requestID)
		}
		return
	}
	api.Success(w, map[string]string{"status": "assigned"}, middleware.GetRequestID(r.Context()))
}
