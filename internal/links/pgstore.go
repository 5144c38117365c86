package links

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cobranzahq/cobranza/internal/db"
)

// PGStore persists debt links in PostgreSQL.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a link store over the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// IssueOrKeep runs a single upsert keyed by debt id. The CASE expressions
// replace the stored pair only when it has expired, so two concurrent calls
// for the same debt cannot leave two tokens disagreeing about which is
// canonical: whichever write lands second sees a live row and keeps it.
func (s *PGStore) IssueOrKeep(ctx context.Context, debtID, token string, expiresAt time.Time) (string, *time.Time, error) {
	pgDebtID, err := db.ParseUUID(debtID)
	if err != nil {
		return "", nil, err
	}
	pgToken, err := db.ParseUUID(token)
	if err != nil {
		return "", nil, err
	}

	var (
		stored pgtype.UUID
		expiry pgtype.Timestamptz
	)
	err = s.pool.QueryRow(ctx, `
		INSERT INTO debt_links (debt_id, token, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (debt_id) DO UPDATE SET
			token = CASE
				WHEN debt_links.expires_at IS NOT NULL AND debt_links.expires_at <= now()
				THEN EXCLUDED.token ELSE debt_links.token END,
			expires_at = CASE
				WHEN debt_links.expires_at IS NOT NULL AND debt_links.expires_at <= now()
				THEN EXCLUDED.expires_at ELSE debt_links.expires_at END,
			updated_at = now()
		RETURNING token, expires_at
	`, pgDebtID, pgToken, pgtype.Timestamptz{Time: expiresAt, Valid: true}).Scan(&stored, &expiry)
	if err != nil {
		return "", nil, err
	}

	var expiresPtr *time.Time
	if expiry.Valid {
		t := expiry.Time
		expiresPtr = &t
	}
	return db.UUIDString(stored), expiresPtr, nil
}
