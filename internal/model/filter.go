package model

import "time"

// ListFilter narrows and pages a listing.
type ListFilter struct {
	Model       string // equality filter on the model tag; empty = all models
	ShowDeleted bool   // include soft-deleted items
	Offset      int
	Limit       int // 0 = service default; capped by the service
}

// ModelSummary is one aggregate row of the model metadata listing: counts,
// created-timestamp bounds, and a version frequency histogram for every item
// sharing one model tag.
type ModelSummary struct {
	Model            string         `json:"model"`
	ActiveCount      int            `json:"count"`
	DeletedCount     int            `json:"delete_count"`
	TotalCount       int            `json:"total_count"`
	OldestCreated    time.Time      `json:"oldest_timestamp"`
	NewestCreated    time.Time      `json:"newest_timestamp"`
	VersionHistogram map[string]int `json:"versions"`
}
