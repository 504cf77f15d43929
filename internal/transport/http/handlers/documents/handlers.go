package documentshandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/documents"
	"hrms/internal/domain/employee"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *documents.Service
}

func NewHandler(service *documents.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleUpload)
		r.Get("/templates", h.handleListTemplates)
		r.Post("/templates", h.handleCreateTemplate)
		r.Get("/generated", h.handleListGenerated)
		r.Post("/generated", h.handleGenerate)
		r.Post("/generated/{genDocID}/approve", h.handleApprove)
		r.Post("/generated/{genDocID}/reject", h.handleReject)
		r.Get("/generated/{genDocID}/pdf", h.handleRender)
	})
}

type uploadPayload struct {
	EmpID    string `json:"empId"`
	DocType  string `json:"docType"`
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload uploadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	doc, err := h.Service.Upload(r.Context(), user, payload.EmpID, payload.DocType, payload.FileName, payload.FileURL)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, documents.ErrNotAuthorized):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
		case errors.Is(err, documents.ErrValidation):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "fileName and fileUrl are required", requestID)
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "document_upload_failed", "failed to record document", requestID)
		}
		return
	}
	api.Created(w, doc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	docs, err := h.Service.Documents(r.Context(), user, r.URL.Query().Get("empId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_list_failed", "failed to list documents", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, docs, middleware.GetRequestID(r.Context()))
}

type templatePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload templatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	tpl, err := h.Service.CreateTemplate(r.Context(), user, payload.Title, payload.Content)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, documents.ErrNotAuthorized):
			api.Fail(w, http.StatusForbidden, "forbidden", "admin or hr role required", requestID)
		case errors.Is(err, documents.ErrValidation):
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "title and content are required", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "template_create_failed", "failed to create template", requestID)
		}
		return
	}
	api.Created(w, tpl, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	templates, err := h.Service.Templates(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "template_list_failed", "failed to list templates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, templates, middleware.GetRequestID(r.Context()))
}

type generatePayload struct {
	TemplateID string            `json:"templateId"`
	EmpID      string            `json:"empId"`
	FormData   map[string]string `json:"formData"`
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

	gen, err := h.Service.Generate(r.Context(), user, payload.TemplateID, payload.EmpID, payload.FormData)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, documents.ErrNotAuthorized):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
		case errors.Is(err, documents.ErrTemplateNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "template not found", requestID)
		case errors.Is(err, employee.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "document_generate_failed", "failed to generate document", requestID)
		}
		return
	}
	api.Created(w, gen, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListGenerated(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	generated, err := h.Service.Generated(r.Context(), user)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "generated_list_failed", "failed to list generated documents", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, generated, middleware.GetRequestID(r.Context()))
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

	genDocID := chi.URLParam(r, "genDocID")
	if err := action(r.Context(), user, genDocID); err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, documents.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "document not found", requestID)
		case errors.Is(err, documents.ErrAlreadyProcessed):
			api.Fail(w, http.StatusConflict, "already_processed", err.Error(), requestID)
		case errors.Is(err, documents.ErrSelfApproval):
			api.Fail(w, http.StatusForbidden, "self_approval", err.Error(), requestID)
		case errors.Is(err, documents.ErrNotAuthorized):
			api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "document_decision_failed", "failed to process document", requestID)
		}
		return
	}
	api.Success(w, map[string]string{"status": status}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	genDocID := chi.URLParam(r, "genDocID")
	pdf, title, err := h.Service.Render(r.Context(), user, genDocID)
	if err != nil {
		requestID := middleware.GetRequestID(r.Context())
		switch {
		case errors.Is(err, documents.ErrNotFound), errors.Is(err, documents.ErrTemplateNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "document not found", requestID)
		case errors.Is(err, documents.ErrNotAuthorized):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
		case errors.Is(err, documents.ErrNotApproved):
			api.Fail(w, http.StatusConflict, "not_approved", err.Error(), requestID)
		default:
			api.Fail(w, http.StatusInternalServerError, "document_render_failed", "failed to render document", requestID)
		}
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("document pdf write failed", "genDocId", genDocID, "err", err)
	}
}
