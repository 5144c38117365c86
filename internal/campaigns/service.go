// Package campaigns provides workspace-scoped collection campaigns.
package campaigns

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cobranzahq/cobranza/internal/db"
	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// Service manages campaign rows, always scoped by the resolved tenant
// context.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a campaign service over the given pool.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "campaigns")),
	}
}

func (s *Service) Create(ctx context.Context, tctx tenant.Context, req CreateCampaignRequest) (Campaign, error) {
	if s.pool == nil {
		return Campaign{}, fmt.Errorf("campaign store not configured")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Campaign{}, httperr.Validation("campaign name is required")
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return Campaign{}, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO campaigns (workspace_id, name)
		VALUES ($1, $2)
		RETURNING id, workspace_id, name, status, created_at
	`, pgWorkspaceID, name)
	return scanCampaign(row)
}

func (s *Service) List(ctx context.Context, tctx tenant.Context) ([]Campaign, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("campaign store not configured")
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, workspace_id, name, status, created_at
		FROM campaigns
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`, pgWorkspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Campaign{}
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, campaign)
	}
	return items, rows.Err()
}

func (s *Service) Get(ctx context.Context, tctx tenant.Context, id string) (Campaign, error) {
	if s.pool == nil {
		return Campaign{}, fmt.Errorf("campaign store not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Campaign{}, ErrNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return Campaign{}, err
	}
	row := s.pool.QueryRow(ctx, `
		SELECT id, workspace_id, name, status, created_at
		FROM campaigns
		WHERE id = $1 AND workspace_id = $2
	`, pgID, pgWorkspaceID)
	campaign, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		return Campaign{}, err
	}
	return campaign, nil
}

func (s *Service) Update(ctx context.Context, tctx tenant.Context, id string, req UpdateCampaignRequest) (Campaign, error) {
	existing, err := s.Get(ctx, tctx, id)
	if err != nil {
		return Campaign{}, err
	}
	name := existing.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return Campaign{}, httperr.Validation("campaign name is required")
		}
	}
	status := existing.Status
	if req.Status != nil {
		status, err = normalizeStatus(*req.Status)
		if err != nil {
			return Campaign{}, err
		}
	}

	pgID, _ := db.ParseUUID(existing.ID)
	pgWorkspaceID, _ := db.ParseUUID(tctx.WorkspaceID)
	row := s.pool.QueryRow(ctx, `
		UPDATE campaigns SET name = $3, status = $4
		WHERE id = $1 AND workspace_id = $2
		RETURNING id, workspace_id, name, status, created_at
	`, pgID, pgWorkspaceID, name, status)
	campaign, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		return Campaign{}, err
	}
	return campaign, nil
}

func normalizeStatus(raw string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	switch status {
	case StatusActive, StatusPaused, StatusArchived:
		return status, nil
	}
	return "", httperr.Validation("invalid campaign status: " + raw)
}

func scanCampaign(row pgx.Row) (Campaign, error) {
	var (
		id          pgtype.UUID
		workspaceID pgtype.UUID
		name        string
		status      string
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &workspaceID, &name, &status, &createdAt); err != nil {
		return Campaign{}, err
	}
	return Campaign{
		ID:          db.UUIDString(id),
		WorkspaceID: db.UUIDString(workspaceID),
		Name:        name,
		Status:      status,
		CreatedAt:   db.TimeFromPg(createdAt),
	}, nil
}
