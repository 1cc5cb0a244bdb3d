package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/avi-perl/posthole/internal/events"
	"github.com/avi-perl/posthole/internal/model"
	"github.com/avi-perl/posthole/internal/service"
	"github.com/avi-perl/posthole/internal/store"
)

type createItemInput struct {
	Model   string          `json:"model"`
	Version *float64        `json:"version"`
	Data    json.RawMessage `json:"data"`
	Deleted bool            `json:"deleted"`
}

// handleCreateItem handles POST /v1/items.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in createItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Model == "" {
		writeError(w, http.StatusBadRequest, "model is required")
		return
	}

	version := s.defaults.Version
	if in.Version != nil {
		version = *in.Version
	}

	item, err := s.svc.Create(r.Context(), in.Model, version, in.Data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if in.Deleted {
		// Created directly in the soft-deleted state.
		if err := s.svc.Delete(r.Context(), item.ID, false); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if item, err = s.svc.Read(r.Context(), item.ID, true); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.publish(r.Context(), events.TopicItemCreated, item.ID, events.ItemCreated{Item: item})

	writeJSON(w, http.StatusCreated, item)
}

// handleListItems handles GET /v1/items.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	filter, err := s.listFilter(r.URL.Query(), "")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// handleGetItem handles GET /v1/items/{id}.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	showDeleted, err := boolParam(r.URL.Query(), "show_deleted", s.defaults.ShowDeleted)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := s.svc.Read(r.Context(), id, showDeleted)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

type replaceItemInput struct {
	Model   string          `json:"model"`
	Version *float64        `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// handleReplaceItem handles PUT /v1/items/{id}.
func (s *Server) handleReplaceItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in replaceItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Model == "" {
		writeError(w, http.StatusBadRequest, "model is required")
		return
	}

	version := s.defaults.Version
	if in.Version != nil {
		version = *in.Version
	}

	item, err := s.svc.Replace(r.Context(), id, in.Model, version, in.Data)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to replace item")
		return
	}

	s.publish(r.Context(), events.TopicItemUpdated, id, events.ItemUpdated{
		Item:    item,
		Changes: map[string]any{"model": item.Model, "version": item.Version, "data": item.Data},
	})

	writeJSON(w, http.StatusOK, item)
}

type patchItemInput struct {
	Model   *string         `json:"model"`
	Version *float64        `json:"version"`
	Data    json.RawMessage `json:"data"`
	Deleted *bool           `json:"deleted"`
}

// handlePatchItem handles PATCH /v1/items/{id}.
func (s *Server) handlePatchItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in patchItemInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Model == nil && in.Version == nil && in.Data == nil && in.Deleted == nil {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	updateDeleted, err := boolParam(r.URL.Query(), "update_deleted", s.defaults.UpdateDeleted)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := service.Patch{
		Model:   in.Model,
		Version: in.Version,
		Data:    in.Data,
		Deleted: in.Deleted,
	}
	item, err := s.svc.PartialUpdate(r.Context(), id, patch, updateDeleted)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	changes := make(map[string]any)
	if in.Model != nil {
		changes["model"] = *in.Model
	}
	if in.Version != nil {
		changes["version"] = *in.Version
	}
	if in.Data != nil {
		changes["data"] = in.Data
	}
	if in.Deleted != nil {
		changes["deleted"] = *in.Deleted
	}
	s.publish(r.Context(), events.TopicItemUpdated, id, events.ItemUpdated{Item: item, Changes: changes})

	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem handles DELETE /v1/items/{id}.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	permanent, err := boolParam(r.URL.Query(), "permanent", s.defaults.Permanent)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Fetch first so the event can carry the model tag.
	item, err := s.svc.Read(r.Context(), id, true)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	if err := s.svc.Delete(r.Context(), id, permanent); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	s.publish(r.Context(), events.TopicItemDeleted, id, events.ItemDeleted{
		ItemID:    id,
		Model:     item.Model,
		Permanent: permanent,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// listFilter builds a ListFilter from query parameters, applying the
// configured defaults.
func (s *Server) listFilter(q url.Values, modelName string) (model.ListFilter, error) {
	filter := model.ListFilter{Model: modelName, Limit: s.defaults.ListLimit}

	var err error
	if filter.ShowDeleted, err = boolParam(q, "show_deleted", s.defaults.ShowDeleted); err != nil {
		return model.ListFilter{}, err
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return model.ListFilter{}, inputError("offset must be a non-negative integer")
		}
		filter.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return model.ListFilter{}, inputError("limit must be a positive integer")
		}
		filter.Limit = n
	}
	return filter, nil
}

// boolParam parses an optional boolean query parameter.
func boolParam(q url.Values, name string, fallback bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, inputError(name + " must be a boolean")
	}
	return b, nil
}
