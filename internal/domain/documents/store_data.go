package documents

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) InsertDocument(ctx context.Context, doc Document) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (doc_id, emp_id, doc_type, file_name, file_url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		doc.DocID, doc.EmpID, doc.DocType, doc.FileName, doc.FileURL, doc.UploadedAt)
	return err
}

func (s *Store) ListDocuments(ctx context.Context, empID string) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc_id, emp_id, doc_type, file_name, file_url, uploaded_at
		FROM documents
		WHERE emp_id = $1
		ORDER BY uploaded_at DESC`, empID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.DocID, &doc.EmpID, &doc.DocType, &doc.FileName, &doc.FileURL, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) InsertTemplate(ctx context.Context, tpl Template) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO document_templates (template_id, title, content)
		VALUES ($1, $2, $3)`, tpl.TemplateID, tpl.Title, tpl.Content)
	return err
}

func (s *Store) TemplateByID(ctx context.Context, templateID string) (Template, error) {
	var tpl Template
	err := s.pool.QueryRow(ctx, `
		SELECT template_id, title, content
		FROM document_templates
		WHERE template_id = $1`, templateID).Scan(&tpl.TemplateID, &tpl.Title, &tpl.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, ErrTemplateNotFound
		}
		return Template{}, err
	}
	return tpl, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT template_id, title, content
		FROM document_templates
		ORDER BY template_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []Template{}
	for rows.Next() {
		var tpl Template
		if err := rows.Scan(&tpl.TemplateID, &tpl.Title, &tpl.Content); err != nil {
			return nil, err
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

func (s *Store) InsertGenerated(ctx context.Context, gen Generated) error {
	formJSON, err := json.Marshal(gen.FormData)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO generated_documents (gen_doc_id, template_id, emp_id, status, created_at, form_data)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		gen.GenDocID, gen.TemplateID, gen.EmpID, gen.Status, gen.CreatedAt, formJSON)
	return err
}

func (s *Store) GeneratedByID(ctx context.Context, genDocID string) (Generated, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT gen_doc_id, template_id, emp_id, status, created_at, approved_at, form_data
		FROM generated_documents
		WHERE gen_doc_id = $1`, genDocID)
	return scanGenerated(row)
}

func (s *Store) SetGeneratedStatus(ctx context.Context, genDocID, status string) error {
	query := `UPDATE generated_documents SET status = $1 WHERE gen_doc_id = $2`
	if status == StatusApproved {
		query = `UPDATE generated_documents SET status = $1, approved_at = now() WHERE gen_doc_id = $2`
	}
	tag, err := s.pool.Exec(ctx, query, status, genDocID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListGenerated(ctx context.Context, empID string) ([]Generated, error) {
	query := `
		SELECT gen_doc_id, template_id, emp_id, status, created_at, approved_at, form_data
		FROM generated_documents`
	args := []any{}
	if empID != "" {
		query += ` WHERE emp_id = $1`
		args = append(args, empID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Generated{}
	for rows.Next() {
		gen, err := scanGenerated(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, gen)
	}
	return out, rows.Err()
}

func scanGenerated(row pgx.Row) (Generated, error) {
	var gen Generated
	var formJSON []byte
	err := row.Scan(&gen.GenDocID, &gen.TemplateID, &gen.EmpID, &gen.Status, &gen.CreatedAt, &gen.ApprovedAt, &formJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Generated{}, ErrNotFound
		}
		return Generated{}, err
	}
	gen.FormData = map[string]string{}
	if len(formJSON) > 0 {
		if err := json.Unmarshal(formJSON, &gen.FormData); err != nil {
			return Generated{}, err
		}
	}
	return gen, nil
}
