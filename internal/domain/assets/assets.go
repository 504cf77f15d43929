package assets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
)

const (
	StatusAvailable = "Available"
	StatusAssigned  = "Assigned"
)

var (
	ErrForbidden        = errors.New("admin or hr role required")
	ErrNotFound         = errors.New("asset not found")
	ErrAssetUnavailable = errors.New("asset unavailable")
	ErrValidation       = errors.New("kind and model are required")
)

type Asset struct {
	AssetID    string `json:"assetId"`
	Kind       string `json:"kind"`
	Model      string `json:"model"`
	SerialNo   string `json:"serialNo"`
	AssignedTo string `json:"assignedTo,omitempty"`
	Status     string `json:"status"`
}

type Directory interface {
	ByID(ctx context.Context, empID string) (employee.Employee, error)
}

type Recorder interface {
	Record(ctx context.Context, actor, action, details string) error
}

type Service struct {
	DB        *pgxpool.Pool
	Directory Directory
	Audit     Recorder
	Now       func() time.Time
}

func New(db *pgxpool.Pool, directory Directory, audit Recorder) *Service {
	return &Service{DB: db, Directory: directory, Audit: audit, Now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor employee.Employee, kind, model, serialNo string) (Asset, error) {
	if !auth.IsPrivileged(actor.Role) {
		return Asset{}, ErrForbidden
	}
	kind = strings.TrimSpace(kind)
	model = strings.TrimSpace(model)
	if kind == "" || model == "" {
		return Asset{}, ErrValidation
	}

	asset := Asset{
		AssetID:  fmt.Sprintf("AST-%d", s.Now().UnixMilli()),
		Kind:     kind,
		Model:    model,
		SerialNo: strings.TrimSpace(serialNo),
		Status:   StatusAvailable,
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO assets (asset_id, kind, model, serial_no, assigned_to, status)
		VALUES ($1, $2, $3, $4, '', $5)`,
		asset.AssetID, asset.Kind, asset.Model, asset.SerialNo, asset.Status)
	if err != nil {
		return Asset{}, err
	}

	s.audit(ctx, actor.Email, "asset.create", fmt.Sprintf("%s %s (%s)", kind, model, asset.AssetID))
	return asset, nil
}

// Assign hands an Available asset to an employee. Assigning an asset in any
// other state fails with ErrAssetUnavailable; the guard runs inside the
// UPDATE so two concurrent assignments cannot both win.
func (s *Service) Assign(ctx context.Context, actor employee.Employee, assetID, empID string) error {
	if !auth.IsPrivileged(actor.Role) {
		return ErrForbidden
	}
	if _, err := s.Directory.ByID(ctx, empID); err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, `
		UPDATE assets
		SET assigned_to = $1, status = $2
		WHERE asset_id = $3 AND status = $4`,
		empID, StatusAssigned, assetID, StatusAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := s.byID(ctx, assetID); err != nil {
			return err
		}
		return ErrAssetUnavailable
	}

	s.audit(ctx, actor.Email, "asset.assign", fmt.Sprintf("%s to %s", assetID, empID))
	return nil
}

// Return releases an assigned asset back to the Available pool.
func (s *Service) Return(ctx context.Context, actor employee.Employee, assetID string) error {
	if !auth.IsPrivileged(actor.Role) {
		return ErrForbidden
	}
	tag, err := s.DB.Exec(ctx, `
		UPDATE assets
		SET assigned_to = '', status = $1
		WHERE asset_id = $2`, StatusAvailable, assetID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.audit(ctx, actor.Email, "asset.return", assetID)
	return nil
}

func (s *Service) List(ctx context.Context) ([]Asset, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT asset_id, kind, model, serial_no, assigned_to, status
		FROM assets
		ORDER BY asset_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Asset{}
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.AssetID, &a.Kind, &a.Model, &a.SerialNo, &a.AssignedTo, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Service) byID(ctx context.Context, assetID string) (Asset, error) {
	var a Asset
	err := s.DB.QueryRow(ctx, `
		SELECT asset_id, kind, model, serial_no, assigned_to, status
		FROM assets
		WHERE asset_id = $1`, assetID).
		Scan(&a.AssetID, &a.Kind, &a.Model, &a.SerialNo, &a.AssignedTo, &a.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, err
	}
	return a, nil
}

func (s *Service) audit(ctx context.Context, actor, action, details string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actor, action, details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}
