// Package clients provides workspace-scoped debtor contact records.
package clients

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

// Service manages client rows. Every query is scoped by the resolved tenant
// context; a client id from the request is never enough on its own.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a client service over the given pool.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "clients")),
	}
}

func (s *Service) Create(ctx context.Context, tctx tenant.Context, req CreateClientRequest) (Client, error) {
	if s.pool == nil {
		return Client{}, fmt.Errorf("client store not configured")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Client{}, httperr.Validation("client name is required")
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return Client{}, err
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO clients (workspace_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workspace_id, name, email, phone, created_at
	`, pgWorkspaceID, name, db.TextOrNull(req.Email), db.TextOrNull(req.Phone))
	return scanClient(row)
}

func (s *Service) List(ctx context.Context, tctx tenant.Context) ([]Client, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("client store not configured")
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, workspace_id, name, email, phone, created_at
		FROM clients
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`, pgWorkspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, client)
	}
	return items, rows.Err()
}

func (s *Service) Get(ctx context.Context, tctx tenant.Context, id string) (Client, error) {
	if s.pool == nil {
		return Client{}, fmt.Errorf("client store not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Client{}, ErrNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return Client{}, err
	}
	row := s.pool.QueryRow(ctx, `
		SELECT id, workspace_id, name, email, phone, created_at
		FROM clients
		WHERE id = $1 AND workspace_id = $2
	`, pgID, pgWorkspaceID)
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, tctx tenant.Context, id string, req UpdateClientRequest) (Client, error) {
	existing, err := s.Get(ctx, tctx, id)
	if err != nil {
		return Client{}, err
	}
	name := existing.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return Client{}, httperr.Validation("client name is required")
		}
	}
	email := existing.Email
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	phone := existing.Phone
	if req.Phone != nil {
		phone = strings.TrimSpace(*req.Phone)
	}

	pgID, _ := db.ParseUUID(existing.ID)
	pgWorkspaceID, _ := db.ParseUUID(tctx.WorkspaceID)
	row := s.pool.QueryRow(ctx, `
		UPDATE clients SET name = $3, email = $4, phone = $5
		WHERE id = $1 AND workspace_id = $2
		RETURNING id, workspace_id, name, email, phone, created_at
	`, pgID, pgWorkspaceID, name, db.TextOrNull(email), db.TextOrNull(phone))
	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Client{}, ErrNotFound
		}
		return Client{}, err
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, tctx tenant.Context, id string) error {
	if s.pool == nil {
		return fmt.Errorf("client store not configured")
	}
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(tctx.WorkspaceID)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM clients WHERE id = $1 AND workspace_id = $2
	`, pgID, pgWorkspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (Client, error) {
	var (
		id          pgtype.UUID
		workspaceID pgtype.UUID
		name        string
		email       pgtype.Text
		phone       pgtype.Text
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &workspaceID, &name, &email, &phone, &createdAt); err != nil {
		return Client{}, err
	}
	return Client{
		ID:          db.UUIDString(id),
		WorkspaceID: db.UUIDString(workspaceID),
		Name:        name,
		Email:       db.TextToString(email),
		Phone:       db.TextToString(phone),
		CreatedAt:   db.TimeFromPg(createdAt),
	}, nil
}
