package debts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cobranzahq/cobranza/internal/db"
)

// PGStore persists debts in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a debt store over the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const debtColumns = `
	id, workspace_id, client_id, campaign_id, amount_cents, currency,
	reference, status, due_date, created_at, updated_at
`

func (s *PGStore) Insert(ctx context.Context, debt Debt) (Debt, error) {
	pgWorkspaceID, err := db.ParseUUID(debt.WorkspaceID)
	if err != nil {
		return Debt{}, err
	}
	pgClientID, err := db.ParseUUID(debt.ClientID)
	if err != nil {
		return Debt{}, err
	}
	pgCampaignID := pgtype.UUID{}
	if debt.CampaignID != "" {
		pgCampaignID, err = db.ParseUUID(debt.CampaignID)
		if err != nil {
			return Debt{}, err
		}
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO debts (workspace_id, client_id, campaign_id, amount_cents, currency, reference, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::date)
		RETURNING `+debtColumns+`
	`, pgWorkspaceID, pgClientID, pgCampaignID, debt.AmountCents, debt.Currency,
		db.TextOrNull(debt.Reference), debt.Status, debt.DueDate)
	return scanDebt(row)
}

func (s *PGStore) List(ctx context.Context, workspaceID string) ([]Debt, error) {
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`, pgWorkspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Debt{}
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, debt)
	}
	return items, rows.Err()
}

func (s *PGStore) GetInWorkspace(ctx context.Context, workspaceID, id string) (Debt, error) {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return Debt{}, ErrNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return Debt{}, err
	}
	row := s.pool.QueryRow(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE id = $1 AND workspace_id = $2
	`, pgID, pgWorkspaceID)
	debt, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, ErrNotFound
		}
		return Debt{}, err
	}
	return debt, nil
}

func (s *PGStore) Update(ctx context.Context, workspaceID string, debt Debt) (Debt, error) {
	pgID, err := db.ParseUUID(debt.ID)
	if err != nil {
		return Debt{}, ErrNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return Debt{}, err
	}
	pgCampaignID := pgtype.UUID{}
	if debt.CampaignID != "" {
		pgCampaignID, err = db.ParseUUID(debt.CampaignID)
		if err != nil {
			return Debt{}, err
		}
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE debts SET
			campaign_id = $3,
			amount_cents = $4,
			currency = $5,
			reference = $6,
			status = $7,
			due_date = NULLIF($8, '')::date,
			updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING `+debtColumns+`
	`, pgID, pgWorkspaceID, pgCampaignID, debt.AmountCents, debt.Currency,
		db.TextOrNull(debt.Reference), debt.Status, debt.DueDate)
	updated, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Debt{}, ErrNotFound
		}
		return Debt{}, err
	}
	return updated, nil
}

func (s *PGStore) Delete(ctx context.Context, workspaceID, id string) error {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return ErrNotFound
	}
	pgWorkspaceID, err := db.ParseUUID(workspaceID)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM debts WHERE id = $1 AND workspace_id = $2
	`, pgID, pgWorkspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) ClientWorkspace(ctx context.Context, clientID string) (string, error) {
	return s.ownerWorkspace(ctx, "clients", clientID)
}

func (s *PGStore) CampaignWorkspace(ctx context.Context, campaignID string) (string, error) {
	return s.ownerWorkspace(ctx, "campaigns", campaignID)
}

func (s *PGStore) ownerWorkspace(ctx context.Context, table, id string) (string, error) {
	pgID, err := db.ParseUUID(id)
	if err != nil {
		return "", nil
	}
	var workspaceID pgtype.UUID
	err = s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT workspace_id FROM %s WHERE id = $1`, table), pgID).Scan(&workspaceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return db.UUIDString(workspaceID), nil
}

func scanDebt(row pgx.Row) (Debt, error) {
	var (
		id          pgtype.UUID
		workspaceID pgtype.UUID
		clientID    pgtype.UUID
		campaignID  pgtype.UUID
		amountCents int64
		currency    string
		reference   pgtype.Text
		status      string
		dueDate     pgtype.Date
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(&id, &workspaceID, &clientID, &campaignID, &amountCents,
		&currency, &reference, &status, &dueDate, &createdAt, &updatedAt); err != nil {
		return Debt{}, err
	}
	due := ""
	if dueDate.Valid {
		due = dueDate.Time.Format("2006-01-02")
	}
	return Debt{
		ID:          db.UUIDString(id),
		WorkspaceID: db.UUIDString(workspaceID),
		ClientID:    db.UUIDString(clientID),
		CampaignID:  db.UUIDString(campaignID),
		AmountCents: amountCents,
		Currency:    currency,
		Reference:   db.TextToString(reference),
		Status:      status,
		DueDate:     due,
		CreatedAt:   db.TimeFromPg(createdAt),
		UpdatedAt:   db.TimeFromPg(updatedAt),
	}, nil
}
