package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cobranzahq/cobranza/internal/db"
)

// PGStore answers membership lookups from PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a membership store over the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const membershipColumns = `
	m.user_id, m.workspace_id, w.name, m.role, m.status, m.joined_at
`

func (s *PGStore) ActiveMembership(ctx context.Context, userID, workspaceID string) (Membership, error) {
	if s.pool == nil {
		return Membership{}, fmt.Errorf("membership store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return Membership{}, ErrNotMember
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		// A malformed candidate can never match a membership.
		return Membership{}, ErrNotMember
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM memberships m
		JOIN workspaces w ON w.id = m.workspace_id
		WHERE m.user_id = $1 AND m.workspace_id = $2 AND m.status = $3
	`, pgUserID, pgWorkspaceID, StatusActive)

	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Membership{}, ErrNotMember
		}
		return Membership{}, err
	}
	return m, nil
}

func (s *PGStore) LatestMembership(ctx context.Context, userID string) (Membership, error) {
	if s.pool == nil {
		return Membership{}, fmt.Errorf("membership store not configured")
	}
	pgUserID, err := db.ParseUUID(userID)
	if err != nil {
		return Membership{}, ErrNoMembership
	}

	row := s.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM memberships m
		JOIN workspaces w ON w.id = m.workspace_id
		WHERE m.user_id = $1 AND m.status = $2
		ORDER BY m.joined_at DESC
		LIMIT 1
	`, pgUserID, StatusActive)

	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Membership{}, ErrNoMembership
		}
		return Membership{}, err
	}
	return m, nil
}

func scanMembership(row pgx.Row) (Membership, error) {
	var (
		userID      pgtype.UUID
		workspaceID pgtype.UUID
		name        string
		role        string
		status      string
		joinedAt    pgtype.Timestamptz
	)
	if err := row.Scan(&userID, &workspaceID, &name, &role, &status, &joinedAt); err != nil {
		return Membership{}, err
	}
	return Membership{
		UserID:        db.UUIDString(userID),
		WorkspaceID:   db.UUIDString(workspaceID),
		WorkspaceName: name,
		Role:          role,
		Status:        status,
		JoinedAt:      db.TimeFromPg(joinedAt),
	}, nil
}
