package documents

import "context"

type StoreAPI interface {
	InsertDocument(ctx context.Context, doc Document) error
	ListDocuments(ctx context.Context, empID string) ([]Document, error)

	InsertTemplate(ctx context.Context, tpl Template) error
	TemplateByID(ctx context.Context, templateID string) (Template, error)
	ListTemplates(ctx context.Context) ([]Template, error)

	InsertGenerated(ctx context.Context, gen Generated) error
	GeneratedByID(ctx context.Context, genDocID string) (Generated, error)
	SetGeneratedStatus(ctx context.Context, genDocID, status string) error
	ListGenerated(ctx context.Context, empID string) ([]Generated, error)
}
