package debts

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

type fakeStore struct {
	debts     map[string]Debt   // id -> debt
	clients   map[string]string // client id -> workspace id
	campaigns map[string]string // campaign id -> workspace id
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		debts:     map[string]Debt{},
		clients:   map[string]string{},
		campaigns: map[string]string{},
	}
}

func (f *fakeStore) Insert(_ context.Context, debt Debt) (Debt, error) {
	f.nextID++
	debt.ID = fmt.Sprintf("%s-debt-%d", debt.WorkspaceID, f.nextID)
	f.debts[debt.ID] = debt
	return debt, nil
}

func (f *fakeStore) List(_ context.Context, workspaceID string) ([]Debt, error) {
	var out []Debt
	for _, d := range f.debts {
		if d.WorkspaceID == workspaceID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) GetInWorkspace(_ context.Context, workspaceID, id string) (Debt, error) {
	d, ok := f.debts[id]
	if !ok || d.WorkspaceID != workspaceID {
		return Debt{}, ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) Update(_ context.Context, workspaceID string, debt Debt) (Debt, error) {
	existing, ok := f.debts[debt.ID]
	if !ok || existing.WorkspaceID != workspaceID {
		return Debt{}, ErrNotFound
	}
	f.debts[debt.ID] = debt
	return debt, nil
}

func (f *fakeStore) Delete(_ context.Context, workspaceID, id string) error {
	d, ok := f.debts[id]
	if !ok || d.WorkspaceID != workspaceID {
		return ErrNotFound
	}
	delete(f.debts, id)
	return nil
}

func (f *fakeStore) ClientWorkspace(_ context.Context, clientID string) (string, error) {
	return f.clients[clientID], nil
}

func (f *fakeStore) CampaignWorkspace(_ context.Context, campaignID string) (string, error) {
	return f.campaigns[campaignID], nil
}

func tctx(workspaceID string) tenant.Context {
	return tenant.Context{WorkspaceID: workspaceID, Role: tenant.RoleAgent}
}

func TestCreateValidation(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	service := NewService(nil, store)

	tests := []struct {
		name string
		req  CreateDebtRequest
	}{
		{"missing client", CreateDebtRequest{AmountCents: 100}},
		{"negative amount", CreateDebtRequest{ClientID: "client-a", AmountCents: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tctx("ws-a"), tt.req)
			var herr *httperr.Error
			if !errors.As(err, &herr) || herr.Code != httperr.CodeValidation {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}
}

func TestCreateGuardsClientOwnership(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	store.clients["client-b"] = "ws-b"
	service := NewService(nil, store)

	tests := []struct {
		name     string
		clientID string
		wantErr  error
	}{
		{"own client", "client-a", nil},
		{"foreign client", "client-b", ErrClientNotInWorkspace},
		{"missing client", "client-x", ErrClientNotInWorkspace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{
				ClientID:    tt.clientID,
				AmountCents: 1000,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateGuardsCampaignOwnership(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	store.campaigns["camp-a"] = "ws-a"
	store.campaigns["camp-b"] = "ws-b"
	service := NewService(nil, store)

	if _, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{
		ClientID:    "client-a",
		CampaignID:  "camp-b",
		AmountCents: 1000,
	}); !errors.Is(err, ErrCampaignNotInWorkspace) {
		t.Errorf("Create() error = %v, want ErrCampaignNotInWorkspace", err)
	}

	debt, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{
		ClientID:    "client-a",
		CampaignID:  "camp-a",
		AmountCents: 1000,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if debt.Status != StatusOpen {
		t.Errorf("Status = %q, want OPEN", debt.Status)
	}
	if debt.Currency != "USD" {
		t.Errorf("Currency = %q, want USD default", debt.Currency)
	}
	if debt.WorkspaceID != "ws-a" {
		t.Errorf("WorkspaceID = %q, want ws-a", debt.WorkspaceID)
	}
}

func TestGetIsWorkspaceScoped(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	service := NewService(nil, store)

	created, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{
		ClientID:    "client-a",
		AmountCents: 500,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.Get(context.Background(), tctx("ws-a"), created.ID); err != nil {
		t.Errorf("Get() in own workspace error = %v", err)
	}
	// From another workspace the same id reads as missing, not forbidden.
	if _, err := service.Get(context.Background(), tctx("ws-b"), created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() cross-workspace error = %v, want ErrNotFound", err)
	}
}

func TestUpdateReverifiesCampaignChange(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	store.campaigns["camp-b"] = "ws-b"
	service := NewService(nil, store)

	created, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{
		ClientID:    "client-a",
		AmountCents: 500,
	})
	if err != nil {
		t.Fatal(err)
	}

	foreign := "camp-b"
	if _, err := service.Update(context.Background(), tctx("ws-a"), created.ID, UpdateDebtRequest{
		CampaignID: &foreign,
	}); !errors.Is(err, ErrCampaignNotInWorkspace) {
		t.Errorf("Update() error = %v, want ErrCampaignNotInWorkspace", err)
	}

	status := "paid"
	updated, err := service.Update(context.Background(), tctx("ws-a"), created.ID, UpdateDebtRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != StatusPaid {
		t.Errorf("Status = %q, want PAID", updated.Status)
	}

	bad := "SETTLED"
	if _, err := service.Update(context.Background(), tctx("ws-a"), created.ID, UpdateDebtRequest{
		Status: &bad,
	}); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestDeleteIsWorkspaceScoped(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	service := NewService(nil, store)

	created, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{
		ClientID:    "client-a",
		AmountCents: 500,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := service.Delete(context.Background(), tctx("ws-b"), created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() cross-workspace error = %v, want ErrNotFound", err)
	}
	if err := service.Delete(context.Background(), tctx("ws-a"), created.ID); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestListOnlyOwnWorkspace(t *testing.T) {
	store := newFakeStore()
	store.clients["client-a"] = "ws-a"
	store.clients["client-b"] = "ws-b"
	service := NewService(nil, store)

	if _, err := service.Create(context.Background(), tctx("ws-a"), CreateDebtRequest{ClientID: "client-a", AmountCents: 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Create(context.Background(), tctx("ws-b"), CreateDebtRequest{ClientID: "client-b", AmountCents: 2}); err != nil {
		t.Fatal(err)
	}

	listed, err := service.List(context.Background(), tctx("ws-a"))
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 {
		t.Fatalf("List() returned %d debts, want 1", len(listed))
	}
	if listed[0].WorkspaceID != "ws-a" {
		t.Errorf("leaked debt from %q", listed[0].WorkspaceID)
	}
}
