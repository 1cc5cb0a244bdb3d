// Package client provides a typed Go client for the Post Hole REST API,
// used by the CLI commands.
package client

import (
	"encoding/json"
	"fmt"

	"github.com/avi-perl/posthole/internal/model"
)

// CreateItemRequest is the body for POST /v1/items.
type CreateItemRequest struct {
	Model   string          `json:"model"`
	Version *float64        `json:"version,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Deleted bool            `json:"deleted,omitempty"`
}

// ListItemsRequest carries the query parameters for GET /v1/items.
// Model, when set, targets GET /v1/models/{model} instead.
type ListItemsRequest struct {
	Model       string
	ShowDeleted bool
	Offset      int
	Limit       int
}

// ListItemsResponse is the body of a list response.
type ListItemsResponse struct {
	Items []*model.Item `json:"items"`
	Count int           `json:"count"`
}

// ModelSummaryResponse is the body of GET /v1/models.
type ModelSummaryResponse struct {
	Models []*model.ModelSummary `json:"models"`
	Count  int                   `json:"count"`
}

// APIError is an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}
