// Package model defines the record types shared by the store backends and the
// service layer.
package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// Item is one stored record: an arbitrary JSON payload grouped under a
// caller-chosen model name, plus the bookkeeping fields the service maintains.
//
// Data is opaque: neither the store nor the service ever inspects it beyond
// checking that it is valid JSON. It round-trips byte-for-byte apart from
// re-serialization.
type Item struct {
	ID          string          `json:"id"`
	Model       string          `json:"model"`
	Version     float64         `json:"version"`
	Data        json.RawMessage `json:"data"`
	Deleted     bool            `json:"deleted"`
	Created     time.Time       `json:"created"`
	LastUpdated *time.Time      `json:"last_updated,omitempty"`
}

// Clone returns a deep copy of the item. Stores hand out clones so callers
// can't mutate the in-memory document behind the store's back.
func (it *Item) Clone() *Item {
	cp := *it
	if it.Data != nil {
		cp.Data = append(json.RawMessage(nil), it.Data...)
	}
	if it.LastUpdated != nil {
		t := *it.LastUpdated
		cp.LastUpdated = &t
	}
	return &cp
}

// FormatVersion renders a version tag as a canonical decimal string, used as
// the key of ModelSummary.VersionHistogram (JSON object keys must be strings).
func FormatVersion(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
