// Package links issues unguessable, workspace-scoped personal links for
// debt records.
package links

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cobranzahq/cobranza/internal/debts"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// Service issues personal links. Issuance is idempotent: while a token is
// live, every call returns the identical token and link; once it expires the
// next call installs a fresh one.
type Service struct {
	store   Store
	debts   *debts.Service
	baseURL string
	ttl     time.Duration
	logger  *slog.Logger
}

// NewService creates a link issuer. baseURL is the public origin links are
// built on; ttl is the validity window for newly issued tokens.
func NewService(log *slog.Logger, store Store, debtService *debts.Service, baseURL string, ttl time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:   store,
		debts:   debtService,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		ttl:     ttl,
		logger:  log.With(slog.String("service", "links")),
	}
}

// IssueOrGet returns the live personal link for the debt, creating one if
// none exists or the previous token expired. The debt must pass the same
// workspace check as a normal fetch: a debt outside the caller's workspace
// fails as not-found, exactly like a missing one.
func (s *Service) IssueOrGet(ctx context.Context, tctx tenant.Context, debtID string) (Link, error) {
	if s.store == nil || s.debts == nil {
		return Link{}, fmt.Errorf("link issuer not configured")
	}

	debt, err := s.debts.Get(ctx, tctx, debtID)
	if err != nil {
		return Link{}, err
	}

	// The candidate is only installed when no live token exists; the store
	// decides atomically and hands back the canonical pair either way.
	candidate := uuid.NewString()
	expiresAt := time.Now().UTC().Add(s.ttl)

	token, expiry, err := s.store.IssueOrKeep(ctx, debt.ID, candidate, expiresAt)
	if err != nil {
		return Link{}, err
	}
	return Link{
		Link:      s.buildURL(token),
		Token:     token,
		ExpiresAt: expiry,
	}, nil
}

func (s *Service) buildURL(token string) string {
	return s.baseURL + "/p?token=" + url.QueryEscape(token)
}
