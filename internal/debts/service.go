// Package debts provides workspace-scoped debt records.
//
// Every accessor re-derives ownership from the resolved tenant context:
// reads filter by the context's workspace id, and writes that reference a
// second tenant-owned entity re-verify that entity's ownership before
// touching anything. Workspace ids arriving in a request body are never
// trusted as scope.
package debts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// Service manages debt records under the workspace-isolation contract.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService creates a debt service over the given store.
func NewService(log *slog.Logger, store Store) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:  store,
		logger: log.With(slog.String("service", "debts")),
	}
}

// Create inserts a debt into the tenant's workspace after verifying that the
// referenced client (and campaign, when given) belong to that same
// workspace. Any ownership mismatch aborts the whole operation.
func (s *Service) Create(ctx context.Context, tctx tenant.Context, req CreateDebtRequest) (Debt, error) {
	if s.store == nil {
		return Debt{}, fmt.Errorf("debt store not configured")
	}
	if req.AmountCents < 0 {
		return Debt{}, httperr.Validation("amount_cents must not be negative")
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		return Debt{}, httperr.Validation("client_id is required")
	}
	if err := s.verifyClientOwnership(ctx, tctx, clientID); err != nil {
		return Debt{}, err
	}
	campaignID := strings.TrimSpace(req.CampaignID)
	if campaignID != "" {
		if err := s.verifyCampaignOwnership(ctx, tctx, campaignID); err != nil {
			return Debt{}, err
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	return s.store.Insert(ctx, Debt{
		WorkspaceID: tctx.WorkspaceID,
		ClientID:    clientID,
		CampaignID:  campaignID,
		AmountCents: req.AmountCents,
		Currency:    currency,
		Reference:   strings.TrimSpace(req.Reference),
		Status:      StatusOpen,
		DueDate:     strings.TrimSpace(req.DueDate),
	})
}

// List returns the tenant workspace's debts.
func (s *Service) List(ctx context.Context, tctx tenant.Context) ([]Debt, error) {
	if s.store == nil {
		return nil, fmt.Errorf("debt store not configured")
	}
	return s.store.List(ctx, tctx.WorkspaceID)
}

// Get loads a debt by id within the tenant workspace. A debt in another
// workspace is indistinguishable from one that does not exist.
func (s *Service) Get(ctx context.Context, tctx tenant.Context, id string) (Debt, error) {
	if s.store == nil {
		return Debt{}, fmt.Errorf("debt store not configured")
	}
	return s.store.GetInWorkspace(ctx, tctx.WorkspaceID, strings.TrimSpace(id))
}

// Update mutates a debt within the tenant workspace. A campaign change is
// re-verified against the workspace like any other cross-entity reference.
func (s *Service) Update(ctx context.Context, tctx tenant.Context, id string, req UpdateDebtRequest) (Debt, error) {
	existing, err := s.Get(ctx, tctx, id)
	if err != nil {
		return Debt{}, err
	}

	if req.CampaignID != nil {
		campaignID := strings.TrimSpace(*req.CampaignID)
		if campaignID != "" {
			if err := s.verifyCampaignOwnership(ctx, tctx, campaignID); err != nil {
				return Debt{}, err
			}
		}
		existing.CampaignID = campaignID
	}
	if req.AmountCents != nil {
		if *req.AmountCents < 0 {
			return Debt{}, httperr.Validation("amount_cents must not be negative")
		}
		existing.AmountCents = *req.AmountCents
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			return Debt{}, httperr.Validation("currency must not be empty")
		}
		existing.Currency = currency
	}
	if req.Reference != nil {
		existing.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.Status != nil {
		status, err := normalizeStatus(*req.Status)
		if err != nil {
			return Debt{}, err
		}
		existing.Status = status
	}
	if req.DueDate != nil {
		existing.DueDate = strings.TrimSpace(*req.DueDate)
	}
	existing.UpdatedAt = time.Now().UTC()

	return s.store.Update(ctx, tctx.WorkspaceID, existing)
}

// Delete removes a debt within the tenant workspace.
func (s *Service) Delete(ctx context.Context, tctx tenant.Context, id string) error {
	if s.store == nil {
		return fmt.Errorf("debt store not configured")
	}
	return s.store.Delete(ctx, tctx.WorkspaceID, strings.TrimSpace(id))
}

func (s *Service) verifyClientOwnership(ctx context.Context, tctx tenant.Context, clientID string) error {
	owner, err := s.store.ClientWorkspace(ctx, clientID)
	if err != nil {
		return err
	}
	// A missing client and a foreign one fail identically.
	if owner == "" || owner != tctx.WorkspaceID {
		return ErrClientNotInWorkspace
	}
	return nil
}

func (s *Service) verifyCampaignOwnership(ctx context.Context, tctx tenant.Context, campaignID string) error {
	owner, err := s.store.CampaignWorkspace(ctx, campaignID)
	if err != nil {
		return err
	}
	if owner == "" || owner != tctx.WorkspaceID {
		return ErrCampaignNotInWorkspace
	}
	return nil
}

func normalizeStatus(raw string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	switch status {
	case StatusOpen, StatusPromised, StatusPaid, StatusWrittenOff:
		return status, nil
	}
	return "", httperr.Validation("invalid debt status: " + raw)
}
