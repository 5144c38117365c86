package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/httperr"
)

// Resolver derives the active workspace for a verified identity.
//
// Precedence, first match wins:
//  1. explicit x-workspace-id header: membership hit uses it, a miss fails
//     hard with 403 — an explicit-but-invalid workspace is never downgraded
//     to a default, so clients cannot probe for workspaces or silently land
//     in the wrong tenant;
//  2. workspace_id cookie: membership hit uses it, a miss falls through
//     (the cookie is a stale-able hint, not an explicit request);
//  3. the most recently joined ACTIVE membership; none at all is 403.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

// NewResolver creates a tenant resolver over the given membership store.
func NewResolver(log *slog.Logger, store Store) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		store:  store,
		logger: log.With(slog.String("component", "tenant")),
	}
}

// Resolve determines the tenant context for the request. headerID and
// cookieID are raw client-supplied candidates; both are only ever used as
// lookup keys and must match an ACTIVE membership before they are trusted.
func (r *Resolver) Resolve(ctx context.Context, identity auth.Identity, headerID, cookieID string) (Context, error) {
	if r.store == nil {
		return Context{}, fmt.Errorf("membership store not configured")
	}

	if headerID = strings.TrimSpace(headerID); headerID != "" {
		m, err := r.store.ActiveMembership(ctx, identity.SubjectID, headerID)
		if err != nil {
			if errors.Is(err, ErrNotMember) {
				return Context{}, httperr.Forbidden("workspace access denied")
			}
			return Context{}, err
		}
		return toContext(m), nil
	}

	if cookieID = strings.TrimSpace(cookieID); cookieID != "" {
		m, err := r.store.ActiveMembership(ctx, identity.SubjectID, cookieID)
		if err == nil {
			return toContext(m), nil
		}
		if !errors.Is(err, ErrNotMember) {
			return Context{}, err
		}
		r.logger.Debug("workspace cookie no longer valid, falling back",
			slog.String("user_id", identity.SubjectID),
			slog.String("workspace_id", cookieID),
		)
	}

	m, err := r.store.LatestMembership(ctx, identity.SubjectID)
	if err != nil {
		if errors.Is(err, ErrNoMembership) {
			return Context{}, httperr.NoWorkspace()
		}
		return Context{}, err
	}
	return toContext(m), nil
}

// Switch validates that the identity belongs to the requested workspace and
// returns its context. The caller persists the workspace cookie only after
// this succeeds; an unverified workspace id is never written anywhere.
func (r *Resolver) Switch(ctx context.Context, identity auth.Identity, workspaceID string) (Context, error) {
	if r.store == nil {
		return Context{}, fmt.Errorf("membership store not configured")
	}
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return Context{}, httperr.Validation("workspace_id is required")
	}
	m, err := r.store.ActiveMembership(ctx, identity.SubjectID, workspaceID)
	if err != nil {
		if errors.Is(err, ErrNotMember) {
			return Context{}, httperr.Forbidden("workspace access denied")
		}
		return Context{}, err
	}
	return toContext(m), nil
}
