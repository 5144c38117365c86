package campaigns

import (
	"errors"
	"time"
)

// ErrNotFound covers both a missing campaign and one owned by another
// workspace.
var ErrNotFound = errors.New("campaign not found")

// Campaign statuses.
const (
	StatusActive   = "ACTIVE"
	StatusPaused   = "PAUSED"
	StatusArchived = "ARCHIVED"
)

// Campaign is a collection campaign owned by one workspace.
type Campaign struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCampaignRequest is the body for POST /campaigns.
type CreateCampaignRequest struct {
	Name string `json:"name"`
}

// UpdateCampaignRequest is the body for PUT /campaigns/:id.
type UpdateCampaignRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

// ListCampaignsResponse wraps a workspace's campaigns.
type ListCampaignsResponse struct {
	Items []Campaign `json:"items"`
}
