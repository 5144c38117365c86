package clients

import (
	"errors"
	"time"
)

// ErrNotFound covers both a missing client and one owned by another
// workspace.
var ErrNotFound = errors.New("client not found")

// Client is a debtor contact owned by one workspace.
type Client struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateClientRequest is the body for POST /clients.
type CreateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// UpdateClientRequest is the body for PUT /clients/:id.
type UpdateClientRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ListClientsResponse wraps a workspace's clients.
type ListClientsResponse struct {
	Items []Client `json:"items"`
}
