// Package document implements store.Store as a single JSON document: the whole
// collection lives in memory and is rewritten through a Blob after every
// mutation. A crash between mutation and write-back loses that one mutation
// only; there is no batching and no write-ahead log.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avi-perl/posthole/internal/idgen"
	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/store"
)

// Store implements store.Store over an in-memory map of records, with the
// serialized collection pushed through a Blob on every mutating operation.
// One mutex guards the read-mutate-write sequence so concurrent writers
// cannot clobber each other's changes.
type Store struct {
	mu   sync.Mutex
	blob Blob
	recs map[string]*docRecord
}

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// New loads the collection document from blob. If the blob reports
// ErrNoDocument, a fresh empty document is seeded and written back
// immediately.
func New(ctx context.Context, blob Blob) (*Store, error) {
	s := &Store{
		blob: blob,
		recs: make(map[string]*docRecord),
	}

	data, err := blob.Load(ctx)
	if errors.Is(err, ErrNoDocument) {
		if err := s.flushLocked(ctx); err != nil {
			return nil, fmt.Errorf("seed document: %w", err)
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	if err := json.Unmarshal(data, &s.recs); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return s, nil
}

func (s *Store) Insert(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Regenerate on the (vanishingly unlikely) collision with a live ID.
	var id string
	for {
		var err error
		id, err = idgen.Generate()
		if err != nil {
			return err
		}
		if _, exists := s.recs[id]; !exists {
			break
		}
	}

	s.recs[id] = recordFromItem(item)
	if err := s.flushLocked(ctx); err != nil {
		delete(s.recs, id)
		return err
	}
	item.ID = id
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec.toItem(id), nil
}

func (s *Store) ListAll(_ context.Context) ([]*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*model.Item, 0, len(s.recs))
	for id, rec := range s.recs {
		items = append(items, rec.toItem(id))
	}
	return items, nil
}

func (s *Store) ListByModel(_ context.Context, modelName string) ([]*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Full scan; the document variants have no index.
	var items []*model.Item
	for id, rec := range s.recs {
		if rec.Model == modelName {
			items = append(items, rec.toItem(id))
		}
	}
	return items, nil
}

func (s *Store) Update(ctx context.Context, id string, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.recs[id]
	if !ok {
		return store.ErrNotFound
	}

	rec := recordFromItem(item)
	// Ad hoc metadata flags written by older revisions survive rewrites.
	rec.Metadata.Extra = prev.Metadata.Extra

	s.recs[id] = rec
	if err := s.flushLocked(ctx); err != nil {
		s.recs[id] = prev
		return err
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.recs[id]
	if !ok {
		return store.ErrNotFound
	}

	delete(s.recs, id)
	if err := s.flushLocked(ctx); err != nil {
		s.recs[id] = prev
		return err
	}
	return nil
}

func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

func (s *Store) Close() error {
	return nil
}

// flushLocked serializes the whole collection and writes it through the blob.
// Callers must hold s.mu.
func (s *Store) flushLocked(ctx context.Context) error {
	data, err := json.MarshalIndent(s.recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.blob.Save(ctx, data); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// docRecord is the persisted shape of one record: bookkeeping fields at the
// top level and the soft-delete flag nested under metadata.
type docRecord struct {
	Model       string          `json:"model"`
	Version     float64         `json:"version"`
	Data        json.RawMessage `json:"data"`
	Created     time.Time       `json:"created"`
	LastUpdated *time.Time      `json:"last_updated"`
	Metadata    docMetadata     `json:"metadata"`
}

// docMetadata carries the deleted flag plus any ad hoc keys found in older
// documents (e.g. test_record), which are preserved verbatim.
type docMetadata struct {
	Deleted bool
	Extra   map[string]json.RawMessage
}

func (m docMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Extra)+1)
	for k, v := range m.Extra {
		out[k] = v
	}
	deleted, err := json.Marshal(m.Deleted)
	if err != nil {
		return nil, err
	}
	out["deleted"] = deleted
	return json.Marshal(out)
}

func (m *docMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["deleted"]; ok {
		if err := json.Unmarshal(v, &m.Deleted); err != nil {
			return err
		}
		delete(raw, "deleted")
	}
	if len(raw) > 0 {
		m.Extra = raw
	}
	return nil
}

func recordFromItem(it *model.Item) *docRecord {
	rec := &docRecord{
		Model:    it.Model,
		Version:  it.Version,
		Data:     append(json.RawMessage(nil), it.Data...),
		Created:  it.Created,
		Metadata: docMetadata{Deleted: it.Deleted},
	}
	if it.LastUpdated != nil {
		t := *it.LastUpdated
		rec.LastUpdated = &t
	}
	return rec
}

func (r *docRecord) toItem(id string) *model.Item {
	it := &model.Item{
		ID:      id,
		Model:   r.Model,
		Version: r.Version,
		Data:    append(json.RawMessage(nil), r.Data...),
		Created: r.Created,
		Deleted: r.Metadata.Deleted,
	}
	if r.LastUpdated != nil {
		t := *r.LastUpdated
		it.LastUpdated = &t
	}
	return it
}
