// Package store defines the persistence interface for items.
package store

import (
	"context"
	"errors"

	"github.com/avi-perl/posthole/internal/model"
)

// ErrNotFound is returned when no record exists for a requested identifier.
// The service layer also uses it to report records hidden by the soft-delete
// visibility policy; callers cannot tell the two cases apart.
var ErrNotFound = errors.New("item not found")

// Store is the uniform persistence contract implemented by every backend.
//
// Identifiers are opaque strings at this boundary regardless of how a backend
// represents them internally. Data payloads pass through uninterpreted.
// Backends must serialize concurrent mutations to the same record; a
// persistence failure propagates to the caller unretried.
type Store interface {
	// Insert persists the item under a freshly assigned identifier and
	// writes the identifier back into item.ID.
	Insert(ctx context.Context, item *model.Item) error

	// Get returns the item with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.Item, error)

	// ListAll returns every stored item. Order is backend-dependent.
	ListAll(ctx context.Context) ([]*model.Item, error)

	// ListByModel returns every item whose model tag equals model.
	ListByModel(ctx context.Context, model string) ([]*model.Item, error)

	// Update replaces the stored record body under id. ErrNotFound if absent.
	Update(ctx context.Context, id string, item *model.Item) error

	// Delete permanently removes the record. ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Flush forces a write-through of any in-memory state. Backends whose
	// operations are individually durable implement this as a no-op.
	Flush(ctx context.Context) error

	// Lifecycle
	Close() error
}
