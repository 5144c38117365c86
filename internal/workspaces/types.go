package workspaces

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrAlreadyMember  = errors.New("user is already a member")
	ErrMemberNotFound = errors.New("member not found")
	ErrLastOwner      = errors.New("workspace must keep at least one active owner")
)

// Workspace is one tenant's data partition.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is a workspace as seen from one user's membership.
type Summary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Member is one membership row within a workspace.
type Member struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role"`
	Status   string    `json:"status"`
	JoinedAt time.Time `json:"joined_at"`
}

// CreateWorkspaceRequest is the body for POST /workspaces.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
}

// SwitchWorkspaceRequest is the body for POST /workspaces/switch.
type SwitchWorkspaceRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

// AddMemberRequest is the body for POST /workspaces/current/members.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpdateMemberRequest is the body for PUT /workspaces/current/members/:user_id.
type UpdateMemberRequest struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// ListWorkspacesResponse wraps the caller's workspaces.
type ListWorkspacesResponse struct {
	Items []Summary `json:"items"`
}

// ListMembersResponse wraps a workspace's members.
type ListMembersResponse struct {
	Items []Member `json:"items"`
}
