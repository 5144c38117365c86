package debts

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound covers both a missing debt and one owned by another
	// workspace; the caller cannot tell the two apart.
	ErrNotFound = errors.New("debt not found")
	// ErrClientNotInWorkspace is returned when a referenced client does not
	// belong to the caller's workspace (or does not exist).
	ErrClientNotInWorkspace = errors.New("client does not belong to workspace")
	// ErrCampaignNotInWorkspace is returned when a referenced campaign does
	// not belong to the caller's workspace (or does not exist).
	ErrCampaignNotInWorkspace = errors.New("campaign does not belong to workspace")
)

// Debt statuses.
const (
	StatusOpen       = "OPEN"
	StatusPromised   = "PROMISED"
	StatusPaid       = "PAID"
	StatusWrittenOff = "WRITTEN_OFF"
)

// Debt is one receivable owned by a workspace. WorkspaceID is set at
// creation and never changes.
type Debt struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	ClientID    string    `json:"client_id"`
	CampaignID  string    `json:"campaign_id,omitempty"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Reference   string    `json:"reference,omitempty"`
	Status      string    `json:"status"`
	DueDate     string    `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateDebtRequest is the body for POST /debts.
type CreateDebtRequest struct {
	ClientID    string `json:"client_id"`
	CampaignID  string `json:"campaign_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	DueDate     string `json:"due_date"`
}

// UpdateDebtRequest is the body for PUT /debts/:id.
type UpdateDebtRequest struct {
	CampaignID  *string `json:"campaign_id"`
	AmountCents *int64  `json:"amount_cents"`
	Currency    *string `json:"currency"`
	Reference   *string `json:"reference"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

// ListDebtsResponse wraps a workspace's debts.
type ListDebtsResponse struct {
	Items []Debt `json:"items"`
}

// Store is the persistence surface for debts. Every method that touches a
// debt row takes the workspace id as a mandatory filter; there is no
// fetch-by-id without it.
type Store interface {
	Insert(ctx context.Context, debt Debt) (Debt, error)
	List(ctx context.Context, workspaceID string) ([]Debt, error)
	// GetInWorkspace returns ErrNotFound for a missing row and for a row in
	// another workspace alike.
	GetInWorkspace(ctx context.Context, workspaceID, id string) (Debt, error)
	Update(ctx context.Context, workspaceID string, debt Debt) (Debt, error)
	Delete(ctx context.Context, workspaceID, id string) error
	// ClientWorkspace returns the owning workspace id of a client, or ""
	// when the client does not exist.
	ClientWorkspace(ctx context.Context, clientID string) (string, error)
	// CampaignWorkspace returns the owning workspace id of a campaign, or ""
	// when the campaign does not exist.
	CampaignWorkspace(ctx context.Context, campaignID string) (string, error)
}
