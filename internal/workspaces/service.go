// Package workspaces manages workspaces and their memberships.
package workspaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/db"
	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// Service manages workspace and membership rows.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a workspace service over the given pool.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "workspaces")),
	}
}

// Create inserts a workspace and makes the creator its OWNER, ensuring the
// creator's user row exists first. All three writes commit atomically.
func (s *Service) Create(ctx context.Context, identity auth.Identity, req CreateWorkspaceRequest) (Workspace, error) {
	if s.pool == nil {
		return Workspace{}, fmt.Errorf("workspace store not configured")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Workspace{}, httperr.Validation("workspace name is required")
	}
	pgUserID, err := db.ParseUUID(identity.SubjectID)
	if err != nil {
		return Workspace{}, fmt.Errorf("invalid subject id: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Workspace{}, err
	}
	defer tx.Rollback(ctx)

	// First write-path touchpoint for a new subject: the session pipeline
	// never writes, so the user row is provisioned here.
	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET email = COALESCE(EXCLUDED.email, users.email)
	`, pgUserID, db.TextOrNull(identity.Email))
	if err != nil {
		return Workspace{}, fmt.Errorf("ensure user: %w", err)
	}

	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx, `
		INSERT INTO workspaces (name) VALUES ($1)
		RETURNING id, created_at
	`, name).Scan(&id, &createdAt)
	if err != nil {
		return Workspace{}, fmt.Errorf("create workspace: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memberships (user_id, workspace_id, role, status)
		VALUES ($1, $2, $3, $4)
	`, pgUserID, id, tenant.RoleOwner, tenant.StatusActive)
	if err != nil {
		return Workspace{}, fmt.Errorf("create owner membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Workspace{}, err
	}

	s.logger.Info("workspace created",
		slog.String("workspace_id", db.UUIDString(id)),
		slog.String("owner_id", identity.SubjectID),
	)
	return Workspace{
		ID:        db.UUIDString(id),
		Name:      name,
		CreatedAt: db.TimeFromPg(createdAt),
	}, nil
}

// ListMine returns the caller's active workspaces, most recently joined
// first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]Summary, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("workspace store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT w.id, w.name, m.role, m.joined_at
		FROM memberships m
		JOIN workspaces w ON w.id = m.workspace_id
		WHERE m.user_id = $1 AND m.status = $2
		ORDER BY m.joined_at DESC
	`, pgUserID, tenant.StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Summary{}
	for rows.Next() {
		var (
			id       pgtype.UUID
			name     string
			role     string
			joinedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &name, &role, &joinedAt); err != nil {
			return nil, err
		}
		items = append(items, Summary{
			ID:       db.UUIDString(id),
			Name:     name,
			Role:     role,
			JoinedAt: db.TimeFromPg(joinedAt),
		})
	}
	return items, rows.Err()
}

// Members lists a workspace's memberships, owners first, then by join time.
func (s *Service) Members(ctx context.Context, workspaceID string) ([]Member, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("workspace store not configured")
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT m.user_id, u.email, m.role, m.status, m.joined_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		WHERE m.workspace_id = $1
		ORDER BY m.role = 'OWNER' DESC, m.joined_at ASC
	`, pgWorkspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Member{}
	for rows.Next() {
		var (
			userID   pgtype.UUID
			email    pgtype.Text
			role     string
			status   string
			joinedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&userID, &email, &role, &status, &joinedAt); err != nil {
			return nil, err
		}
		items = append(items, Member{
			UserID:   db.UUIDString(userID),
			Email:    db.TextToString(email),
			Role:     role,
			Status:   status,
			JoinedAt: db.TimeFromPg(joinedAt),
		})
	}
	return items, rows.Err()
}

// AddMember creates a membership for an existing user in the workspace.
func (s *Service) AddMember(ctx context.Context, workspaceID string, req AddMemberRequest) (Member, error) {
	if s.pool == nil {
		return Member{}, fmt.Errorf("workspace store not configured")
	}
	role, err := NormalizeRole(req.Role)
	if err != nil {
		return Member{}, err
	}
	pgUserID, err := db.ParseUUID(req.UserID)
	if err != nil {
		return Member{}, ErrUserNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return Member{}, err
	}

	var email pgtype.Text
	if err := s.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, pgUserID).Scan(&email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrUserNotFound
		}
		return Member{}, err
	}

	var joinedAt pgtype.Timestamptz
	err = s.pool.QueryRow(ctx, `
		INSERT INTO memberships (user_id, workspace_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at
	`, pgUserID, pgWorkspaceID, role, tenant.StatusActive).Scan(&joinedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Member{}, ErrAlreadyMember
		}
		return Member{}, err
	}

	return Member{
		UserID:   req.UserID,
		Email:    db.TextToString(email),
		Role:     role,
		Status:   tenant.StatusActive,
		JoinedAt: db.TimeFromPg(joinedAt),
	}, nil
}

// UpdateMember changes a member's role and/or status. Memberships are never
// hard-deleted; removal is deactivation. The workspace's last active OWNER
// can be neither demoted nor deactivated.
func (s *Service) UpdateMember(ctx context.Context, workspaceID, userID string, req UpdateMemberRequest) (Member, error) {
	if s.pool == nil {
		return Member{}, fmt.Errorf("workspace store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return Member{}, ErrMemberNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return Member{}, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Member{}, err
	}
	defer tx.Rollback(ctx)

	var (
		role   string
		status string
	)
	err = tx.QueryRow(ctx, `
		SELECT role, status FROM memberships
		WHERE user_id = $1 AND workspace_id = $2
		FOR UPDATE
	`, pgUserID, pgWorkspaceID).Scan(&role, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrMemberNotFound
		}
		return Member{}, err
	}

	newRole := role
	if req.Role != nil {
		newRole, err = NormalizeRole(*req.Role)
		if err != nil {
			return Member{}, err
		}
	}
	newStatus := status
	if req.Status != nil {
		newStatus, err = NormalizeStatus(*req.Status)
		if err != nil {
			return Member{}, err
		}
	}

	losingOwner := role == tenant.RoleOwner && status == tenant.StatusActive &&
		(newRole != tenant.RoleOwner || newStatus != tenant.StatusActive)
	if losingOwner {
		var owners int
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM memberships
			WHERE workspace_id = $1 AND role = $2 AND status = $3
		`, pgWorkspaceID, tenant.RoleOwner, tenant.StatusActive).Scan(&owners)
		if err != nil {
			return Member{}, err
		}
		if owners <= 1 {
			return Member{}, ErrLastOwner
		}
	}

	var (
		email    pgtype.Text
		joinedAt pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx, `
		UPDATE memberships SET role = $3, status = $4
		WHERE user_id = $1 AND workspace_id = $2
		RETURNING joined_at, (SELECT email FROM users WHERE id = $1)
	`, pgUserID, pgWorkspaceID, newRole, newStatus).Scan(&joinedAt, &email)
	if err != nil {
		return Member{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Member{}, err
	}

	return Member{
		UserID:   userID,
		Email:    db.TextToString(email),
		Role:     newRole,
		Status:   newStatus,
		JoinedAt: db.TimeFromPg(joinedAt),
	}, nil
}

// NormalizeRole validates a role value, defaulting empty to AGENT.
func NormalizeRole(raw string) (string, error) {
	role := strings.ToUpper(strings.TrimSpace(raw))
	switch role {
	case "":
		return tenant.RoleAgent, nil
	case tenant.RoleOwner, tenant.RoleManager, tenant.RoleAgent:
		return role, nil
	}
	return "", httperr.Validation("invalid role: " + raw)
}

// NormalizeStatus validates a membership status value.
func NormalizeStatus(raw string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	switch status {
	case tenant.StatusActive, tenant.StatusInactive:
		return status, nil
	}
	return "", httperr.Validation("invalid status: " + raw)
}
