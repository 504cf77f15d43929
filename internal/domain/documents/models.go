package documents

import (
	"errors"
	"time"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrNotAuthorized    = errors.New("you are not authorized to act on this document")
	ErrSelfApproval     = errors.New("you cannot approve your own document")
	ErrNotApproved      = errors.New("document is not approved")
	ErrValidation       = errors.New("validation failed")
)

// Document is an uploaded file reference; the file itself lives in external
// storage, only metadata is kept here.
type Document struct {
	DocID      string    `json:"docId"`
	EmpID      string    `json:"empId"`
	DocType    string    `json:"docType"`
	FileName   string    `json:"fileName"`
	FileURL    string    `json:"fileUrl"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Template is a letter body with {{placeholder}} markers.
type Template struct {
	TemplateID string `json:"templateId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// Generated is a templated document for one employee. It starts Pending and
// can be rendered only after approval.
type Generated struct {
	GenDocID   string            `json:"genDocId"`
	TemplateID string            `json:"templateId"`
	EmpID      string            `json:"empId"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	ApprovedAt *time.Time        `json:"approvedAt,omitempty"`
	FormData   map[string]string `json:"formData"`
}
