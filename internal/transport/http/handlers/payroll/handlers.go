package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/employee"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *payroll.Service
}

func NewHandler(service *payroll.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Post("/payslips", h.handleGenerate)
		r.Get("/payslips", h.handleList)
		r.Get("/payslips/{payslipID}", h.handleGet)
		r.Get("/payslips/{payslipID}/pdf", h.handleDownloadPDF)
	})
}

type linePayload struct {
	Type   string `json:"type"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

type generatePayload struct {
	EmpID      string        `json:"empId"`
	Month      int           `json:"month"`
	Year       int           `json:"year"`
	BaseSalary string        `json:"baseSalary"`
	Lines      []linePayload `json:"lines"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	baseSalary, err := decimal.NewFromString(payload.BaseSalary)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid baseSalary", middleware.GetRequestID(r.Context()))
		return
	}
	lines := make([]payroll.Line, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		amount, err := decimal.NewFromString(line.Amount)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", fmt.Sprintf("invalid amount for %q", line.Label), middleware.GetRequestID(r.Context()))
			return
		}
		lines = append(lines, payroll.Line{Type: line.Type, Label: line.Label, Amount: amount})
	}

	slip, err := h.Service.Generate(r.Context(), user, payload.EmpID, payload.Month, payload.Year, baseSalary, lines)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, payroll.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, payroll.ErrInvalidPeriod):
			api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "payslip_generate_failed", "failed to generate payslip", requestID)
		}
		return
	}
	api.Created(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	slips, err := h.Service.List(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, slips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.ByID(r.Context(), user, chi.URLParam(r, "payslipID"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.ByID(r.Context(), user, chi.URLParam(r, "payslipID"))
	if err != nil {
		h.failLookup(w, r, err)
		return
	}

	pdf, err := payroll.RenderPDF(slip)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_pdf_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", slip.PayslipID+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip pdf write failed", "payslipId", slip.PayslipID, "err", err)
	}
}

func (h *Handler) failLookup(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
	case errors.Is(err, payroll.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "payslip_get_failed", "failed to load payslip", requestID)
	}
}
