// Package service encodes the product rules that are independent of the
// storage backend: timestamping, soft-delete visibility, pagination, and
// model-level aggregation.
package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/store"
)

// MaxListLimit caps the page size of any listing.
const MaxListLimit = 100

// DefaultListLimit is used when the caller supplies no limit.
const DefaultListLimit = 100

// Service applies domain rules on top of raw store operations.
type Service struct {
	store store.Store
	now   func() time.Time
}

// New returns a Service backed by the given store.
func New(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Patch carries the fields of a partial update. Nil pointers (and nil Data)
// mean "not supplied"; only supplied fields change.
type Patch struct {
	Model   *string
	Version *float64
	Data    json.RawMessage
	Deleted *bool
}

// Create stamps a new item and inserts it. The assigned identifier is
// written into the returned item.
func (s *Service) Create(ctx context.Context, modelName string, version float64, data json.RawMessage) (*model.Item, error) {
	item := &model.Item{
		Model:   modelName,
		Version: version,
		Data:    data,
		Created: s.now().UTC(),
	}
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Read fetches one item. A soft-deleted item is reported as not found unless
// showDeleted is set; callers cannot distinguish "absent" from "hidden".
func (s *Service) Read(ctx context.Context, id string, showDeleted bool) (*model.Item, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Deleted && !showDeleted {
		return nil, store.ErrNotFound
	}
	return item, nil
}

// List returns a page of items. The filtered set is materialized first and
// paged in memory, ordered by creation time (ties broken by ID) so the same
// page is returned regardless of backend.
func (s *Service) List(ctx context.Context, filter model.ListFilter) ([]*model.Item, error) {
	var (
		items []*model.Item
		err   error
	)
	if filter.Model != "" {
		items, err = s.store.ListByModel(ctx, filter.Model)
	} else {
		items, err = s.store.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.Item, 0, len(items))
	for _, it := range items {
		if it.Deleted && !filter.ShowDeleted {
			continue
		}
		filtered = append(filtered, it)
	}

	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].Created.Equal(filtered[j].Created) {
			return filtered[i].Created.Before(filtered[j].Created)
		}
		return filtered[i].ID < filtered[j].ID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return []*model.Item{}, nil
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

// Replace overwrites the mutable fields of an existing item, preserving its
// creation timestamp and deleted flag, and stamps last_updated.
func (s *Service) Replace(ctx context.Context, id string, modelName string, version float64, data json.RawMessage) (*model.Item, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &model.Item{
		ID:          id,
		Model:       modelName,
		Version:     version,
		Data:        data,
		Deleted:     existing.Deleted,
		Created:     existing.Created,
		LastUpdated: &now,
	}
	if err := s.store.Update(ctx, id, item); err != nil {
		return nil, err
	}
	return item, nil
}

// PartialUpdate applies only the fields supplied in patch. A soft-deleted
// item is treated as not found unless allowDeleted is set; clearing the
// deleted flag through the patch resurrects the item. last_updated is
// stamped unconditionally on success.
func (s *Service) PartialUpdate(ctx context.Context, id string, patch Patch, allowDeleted bool) (*model.Item, error) {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Deleted && !allowDeleted {
		return nil, store.ErrNotFound
	}

	if patch.Model != nil {
		item.Model = *patch.Model
	}
	if patch.Version != nil {
		item.Version = *patch.Version
	}
	if patch.Data != nil {
		item.Data = patch.Data
	}
	if patch.Deleted != nil {
		item.Deleted = *patch.Deleted
	}
	now := s.now().UTC()
	item.LastUpdated = &now

	if err := s.store.Update(ctx, id, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item: permanently when permanent is set, otherwise by
// marking it deleted and stamping last_updated.
func (s *Service) Delete(ctx context.Context, id string, permanent bool) error {
	item, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	if permanent {
		return s.store.Delete(ctx, id)
	}

	item.Deleted = true
	now := s.now().UTC()
	item.LastUpdated = &now
	return s.store.Update(ctx, id, item)
}

// ModelSummary aggregates the whole collection into one row per distinct
// model tag: counts, created-timestamp bounds, and a version histogram.
// It is computed from a single full listing, never per-model queries.
func (s *Service) ModelSummary(ctx context.Context) ([]*model.ModelSummary, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*model.ModelSummary)
	for _, it := range items {
		g, ok := groups[it.Model]
		if !ok {
			g = &model.ModelSummary{
				Model:            it.Model,
				OldestCreated:    it.Created,
				NewestCreated:    it.Created,
				VersionHistogram: make(map[string]int),
			}
			groups[it.Model] = g
		}

		g.TotalCount++
		if it.Deleted {
			g.DeletedCount++
		} else {
			g.ActiveCount++
		}
		if it.Created.Before(g.OldestCreated) {
			g.OldestCreated = it.Created
		}
		if it.Created.After(g.NewestCreated) {
			g.NewestCreated = it.Created
		}
		g.VersionHistogram[model.FormatVersion(it.Version)]++
	}

	summaries := make([]*model.ModelSummary, 0, len(groups))
	for _, g := range groups {
		summaries = append(summaries, g)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Model < summaries[j].Model
	})
	return summaries, nil
}
