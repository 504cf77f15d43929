package documents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

type Directory interface {
	ByID(ctx context.Context, empID string) (employee.Employee, error)
}

type Recorder interface {
	Record(ctx context.Context, actor, action, details string) error
}

type Service struct {
	Store     StoreAPI
	Directory Directory
	Audit     Recorder
	Now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, audit Recorder) *Service {
	return &Service{Store: store, Directory: directory, Audit: audit, Now: time.Now}
}

// Upload records document metadata. Regular employees may only file against
// their own record.
func (s *Service) Upload(ctx context.Context, actor employee.Employee, empID, docType, fileName, fileURL string) (Document, error) {
	if empID == "" {
		empID = actor.EmpID
	}
	if empID != actor.EmpID && !auth.IsPrivileged(actor.Role) {
		return Document{}, ErrNotAuthorized
	}
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(fileURL) == "" {
		return Document{}, ErrValidation
	}
	if _, err := s.Directory.ByID(ctx, empID); err != nil {
		return Document{}, err
	}

	doc := Document{
		DocID:      fmt.Sprintf("DOC-%d", s.Now().UnixMilli()),
		EmpID:      empID,
		DocType:    strings.TrimSpace(docType),
		FileName:   strings.TrimSpace(fileName),
		FileURL:    strings.TrimSpace(fileURL),
		UploadedAt: s.Now(),
	}
	if err := s.Store.InsertDocument(ctx, doc); err != nil {
		return Document{}, err
	}
	s.audit(ctx, actor.Email, "document.upload", fmt.Sprintf("%s for %s", doc.DocID, empID))
	return doc, nil
}

func (s *Service) Documents(ctx context.Context, caller employee.Employee, empID string) ([]Document, error) {
	if empID == "" || !auth.IsPrivileged(caller.Role) {
		empID = caller.EmpID
	}
	return s.Store.ListDocuments(ctx, empID)
}

func (s *Service) CreateTemplate(ctx context.Context, actor employee.Employee, title, content string) (Template, error) {
	if !auth.IsPrivileged(actor.Role) {
		return Template{}, ErrNotAuthorized
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return Template{}, ErrValidation
	}
	tpl := Template{
		TemplateID: fmt.Sprintf("TPL-%d", s.Now().UnixMilli()),
		Title:      strings.TrimSpace(title),
		Content:    content,
	}
	if err := s.Store.InsertTemplate(ctx, tpl); err != nil {
		return Template{}, err
	}
	s.audit(ctx, actor.Email, "document.template.create", tpl.TemplateID)
	return tpl, nil
}

func (s *Service) Templates(ctx context.Context) ([]Template, error) {
	return s.Store.ListTemplates(ctx)
}

// Generate creates a Pending templated document for an employee.
func (s *Service) Generate(ctx context.Context, actor employee.Employee, templateID, empID string, formData map[string]string) (Generated, error) {
	if empID == "" {
		empID = actor.EmpID
	}
	if empID != actor.EmpID && !auth.IsPrivileged(actor.Role) {
		return Generated{}, ErrNotAuthorized
	}
	if _, err := s.Store.TemplateByID(ctx, templateID); err != nil {
		return Generated{}, err
	}
	if _, err := s.Directory.ByID(ctx, empID); err != nil {
		return Generated{}, err
	}
	if formData == nil {
		formData = map[string]string{}
	}

	gen := Generated{
		GenDocID:   fmt.Sprintf("GEN-%d", s.Now().UnixMilli()),
		TemplateID: templateID,
		EmpID:      empID,
		Status:     StatusPending,
		CreatedAt:  s.Now(),
		FormData:   formData,
	}
	if err := s.Store.InsertGenerated(ctx, gen); err != nil {
		return Generated{}, err
	}
	s.audit(ctx, actor.Email, "document.generate", fmt.Sprintf("%s from %s for %s", gen.GenDocID, templateID, empID))
	return gen, nil
}

// Approve moves a Pending generated document to Approved. The approver must
// be ADMIN, HR or the subject's manager of record, and may not approve a
// document about themselves unless they are ADMIN.
func (s *Service) Approve(ctx context.Context, approver employee.Employee, genDocID string) error {
	return s.decide(ctx, approver, genDocID, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, approver employee.Employee, genDocID string) error {
	return s.decide(ctx, approver, genDocID, StatusRejected)
}

func (s *Service) decide(ctx context.Context, approver employee.Employee, genDocID, nextStatus string) error {
	gen, err := s.Store.GeneratedByID(ctx, genDocID)
	if err != nil {
		return err
	}
	if gen.Status != StatusPending {
		return ErrAlreadyProcessed
	}

	subject, err := s.Directory.ByID(ctx, gen.EmpID)
	if err != nil {
		return err
	}
	if !auth.IsPrivileged(approver.Role) && subject.ManagerID != approver.EmpID {
		s.audit(ctx, approver.Email, "document.decide.denied",
			fmt.Sprintf("unauthorized attempt by %s for %s", approver.EmpID, genDocID))
		return ErrNotAuthorized
	}
	if subject.EmpID == approver.EmpID && approver.Role != auth.RoleAdmin {
		return ErrSelfApproval
	}

	if err := s.Store.SetGeneratedStatus(ctx, genDocID, nextStatus); err != nil {
		return err
	}
	s.audit(ctx, approver.Email, "document."+strings.ToLower(nextStatus), genDocID)
	return nil
}

func (s *Service) Generated(ctx context.Context, caller employee.Employee) ([]Generated, error) {
	if auth.IsPrivileged(caller.Role) {
		return s.Store.ListGenerated(ctx, "")
	}
	return s.Store.ListGenerated(ctx, caller.EmpID)
}

// Render fills the template for an Approved document and returns the PDF.
func (s *Service) Render(ctx context.Context, caller employee.Employee, genDocID string) ([]byte, string, error) {
	gen, err := s.Store.GeneratedByID(ctx, genDocID)
	if err != nil {
		return nil, "", err
	}
	if gen.EmpID != caller.EmpID && !auth.IsPrivileged(caller.Role) {
		return nil, "", ErrNotAuthorized
	}
	if gen.Status != StatusApproved {
		return nil, "", ErrNotApproved
	}

	tpl, err := s.Store.TemplateByID(ctx, gen.TemplateID)
	if err != nil {
		return nil, "", err
	}
	subject, err := s.Directory.ByID(ctx, gen.EmpID)
	if err != nil {
		return nil, "", err
	}

	data := map[string]string{
		"empId":       subject.EmpID,
		"name":        subject.Name,
		"email":       subject.Email,
		"department":  subject.Department,
		"designation": subject.Designation,
		"today":       s.Now().Format("2006-01-02"),
	}
	for key, value := range gen.FormData {
		data[key] = value
	}

	body := Fill(tpl.Content, data)
	pdf, err := RenderPDF(tpl.Title, body)
	if err != nil {
		return nil, "", err
	}
	return pdf, tpl.Title, nil
}

func (s *Service) audit(ctx context.Context, actor, action, details string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actor, action, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
