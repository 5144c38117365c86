package links

import (
	"context"
	"time"
)

// Link is an issued personal link for one debt. The token is the whole
// security boundary: anyone holding the link can use the downstream payment
// flow it keys, so its entropy and expiry are what bound exposure.
type Link struct {
	Link      string     `json:"link"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Store persists one token per debt.
type Store interface {
	// IssueOrKeep atomically installs (token, expiresAt) for the debt when no
	// live token exists, and otherwise keeps the stored pair untouched. It
	// returns whichever pair is canonical after the call. Concurrent callers
	// must converge on a single token.
	IssueOrKeep(ctx context.Context, debtID, token string, expiresAt time.Time) (string, *time.Time, error)
}
