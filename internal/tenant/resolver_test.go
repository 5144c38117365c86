package tenant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/httperr"
)

type fakeStore struct {
	// memberships[userID][workspaceID]
	memberships map[string]map[string]Membership
}

func (f *fakeStore) ActiveMembership(_ context.Context, userID, workspaceID string) (Membership, error) {
	m, ok := f.memberships[userID][workspaceID]
	if !ok || m.Status != StatusActive {
		return Membership{}, ErrNotMember
	}
	return m, nil
}

func (f *fakeStore) LatestMembership(_ context.Context, userID string) (Membership, error) {
	var latest Membership
	found := false
	for _, m := range f.memberships[userID] {
		if m.Status != StatusActive {
			continue
		}
		if !found || m.JoinedAt.After(latest.JoinedAt) {
			latest = m
			found = true
		}
	}
	if !found {
		return Membership{}, ErrNoMembership
	}
	return latest, nil
}

func membership(userID, workspaceID, role string, joined time.Time) Membership {
	return Membership{
		UserID:        userID,
		WorkspaceID:   workspaceID,
		WorkspaceName: "ws " + workspaceID,
		Role:          role,
		Status:        StatusActive,
		JoinedAt:      joined,
	}
}

func newTestResolver(store Store) *Resolver {
	return NewResolver(nil, store)
}

func TestResolveHeaderPrecedence(t *testing.T) {
	now := time.Now()
	store := &fakeStore{memberships: map[string]map[string]Membership{
		"user-1": {
			"ws-a": membership("user-1", "ws-a", RoleOwner, now.Add(-time.Hour)),
			"ws-b": membership("user-1", "ws-b", RoleAgent, now),
		},
	}}
	resolver := newTestResolver(store)
	identity := auth.Identity{SubjectID: "user-1"}

	tctx, err := resolver.Resolve(context.Background(), identity, "ws-a", "ws-b")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tctx.WorkspaceID != "ws-a" {
		t.Errorf("WorkspaceID = %q, want ws-a (header over cookie)", tctx.WorkspaceID)
	}
	if tctx.Role != RoleOwner {
		t.Errorf("Role = %q, want OWNER", tctx.Role)
	}
}

func TestResolveHeaderMissFailsHard(t *testing.T) {
	now := time.Now()
	store := &fakeStore{memberships: map[string]map[string]Membership{
		"user-1": {
			"ws-a": membership("user-1", "ws-a", RoleOwner, now),
		},
	}}
	resolver := newTestResolver(store)
	identity := auth.Identity{SubjectID: "user-1"}

	// The cookie points at a perfectly valid workspace, but an explicit
	// header naming a foreign workspace must never fall through to it.
	_, err := resolver.Resolve(context.Background(), identity, "ws-foreign", "ws-a")
	var herr *httperr.Error
	if !errors.As(err, &herr) {
		t.Fatalf("Resolve() error = %v, want *httperr.Error", err)
	}
	if herr.Status != 403 || herr.Code != httperr.CodeForbidden {
		t.Errorf("got status=%d code=%q, want 403 forbidden", herr.Status, herr.Code)
	}
}

func TestResolveCookieFallsThrough(t *testing.T) {
	now := time.Now()
	store := &fakeStore{memberships: map[string]map[string]Membership{
		"user-1": {
			"ws-a": membership("user-1", "ws-a", RoleManager, now),
		},
	}}
	resolver := newTestResolver(store)
	identity := auth.Identity{SubjectID: "user-1"}

	// Stale cookie: silently fall back to the default workspace.
	tctx, err := resolver.Resolve(context.Background(), identity, "", "ws-gone")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tctx.WorkspaceID != "ws-a" {
		t.Errorf("WorkspaceID = %q, want ws-a", tctx.WorkspaceID)
	}
}

func TestResolveLatestJoinedWins(t *testing.T) {
	now := time.Now()
	store := &fakeStore{memberships: map[string]map[string]Membership{
		"user-1": {
			"ws-old": membership("user-1", "ws-old", RoleOwner, now.Add(-48*time.Hour)),
			"ws-new": membership("user-1", "ws-new", RoleAgent, now),
		},
	}}
	resolver := newTestResolver(store)
	identity := auth.Identity{SubjectID: "user-1"}

	tctx, err := resolver.Resolve(context.Background(), identity, "", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tctx.WorkspaceID != "ws-new" {
		t.Errorf("WorkspaceID = %q, want ws-new (most recently joined)", tctx.WorkspaceID)
	}
}

func TestResolveNoMembership(t *testing.T) {
	resolver := newTestResolver(&fakeStore{memberships: map[string]map[string]Membership{}})
	identity := auth.Identity{SubjectID: "user-1"}

	_, err := resolver.Resolve(context.Background(), identity, "", "")
	var herr *httperr.Error
	if !errors.As(err, &herr) {
		t.Fatalf("Resolve() error = %v, want *httperr.Error", err)
	}
	if herr.Status != 403 || herr.Code != httperr.CodeNoWorkspace {
		t.Errorf("got status=%d code=%q, want 403 no_workspace", herr.Status, herr.Code)
	}
}

func TestSwitch(t *testing.T) {
	now := time.Now()
	store := &fakeStore{memberships: map[string]map[string]Membership{
		"user-1": {
			"ws-a": membership("user-1", "ws-a", RoleOwner, now),
		},
	}}
	resolver := newTestResolver(store)
	identity := auth.Identity{SubjectID: "user-1"}

	tests := []struct {
		name        string
		workspaceID string
		wantErrCode string
	}{
		{"member", "ws-a", ""},
		{"not a member", "ws-b", httperr.CodeForbidden},
		{"blank", "  ", httperr.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tctx, err := resolver.Switch(context.Background(), identity, tt.workspaceID)
			if tt.wantErrCode == "" {
				if err != nil {
					t.Fatalf("Switch() error = %v", err)
				}
				if tctx.WorkspaceID != tt.workspaceID {
					t.Errorf("WorkspaceID = %q, want %q", tctx.WorkspaceID, tt.workspaceID)
				}
				return
			}
			var herr *httperr.Error
			if !errors.As(err, &herr) || herr.Code != tt.wantErrCode {
				t.Errorf("Switch() error = %v, want code %q", err, tt.wantErrCode)
			}
		})
	}
}

func TestCanManageMembers(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleOwner, true},
		{RoleManager, true},
		{RoleAgent, false},
	}
	for _, tt := range tests {
		if got := (Context{Role: tt.role}).CanManageMembers(); got != tt.want {
			t.Errorf("CanManageMembers(%s) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
