// Package tenant resolves the active workspace for each request and carries
// the resolved tenant context every data access is scoped by.
package tenant

import (
	"context"
	"errors"
	"time"
)

// Membership roles, ordered by privilege.
const (
	RoleOwner   = "OWNER"
	RoleManager = "MANAGER"
	RoleAgent   = "AGENT"
)

// Membership statuses.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

var (
	// ErrNotMember is returned when the user has no active membership in the
	// requested workspace.
	ErrNotMember = errors.New("not a member of workspace")
	// ErrNoMembership is returned when the user has no active membership in
	// any workspace.
	ErrNoMembership = errors.New("no workspace membership")
)

// Membership is a user's role within one workspace.
type Membership struct {
	UserID        string    `json:"user_id"`
	WorkspaceID   string    `json:"workspace_id"`
	WorkspaceName string    `json:"workspace_name"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Context is the per-request resolved tenant. It is derived fresh on every
// request and never persisted or cached across requests.
type Context struct {
	WorkspaceID   string `json:"workspace_id"`
	WorkspaceName string `json:"workspace_name"`
	Role          string `json:"role"`
}

// CanManageMembers reports whether the caller's role may change workspace
// membership.
func (c Context) CanManageMembers() bool {
	return c.Role == RoleOwner || c.Role == RoleManager
}

// Store answers the two membership questions resolution needs.
type Store interface {
	// ActiveMembership returns the caller's ACTIVE membership in the given
	// workspace, or ErrNotMember.
	ActiveMembership(ctx context.Context, userID, workspaceID string) (Membership, error)
	// LatestMembership returns the caller's most recently joined ACTIVE
	// membership, or ErrNoMembership.
	LatestMembership(ctx context.Context, userID string) (Membership, error)
}

func toContext(m Membership) Context {
	return Context{
		WorkspaceID:   m.WorkspaceID,
		WorkspaceName: m.WorkspaceName,
		Role:          m.Role,
	}
}
