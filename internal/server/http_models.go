package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/avi-perl/posthole/internal/events"
	"github.com/avi-perl/posthole/internal/model"
)

// handleModelSummary handles GET /v1/models.
func (s *Server) handleModelSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.ModelSummary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to summarize models")
		return
	}
	if summaries == nil {
		summaries = []*model.ModelSummary{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"models": summaries,
		"count":  len(summaries),
	})
}

// handleListModelItems handles GET /v1/models/{model}.
func (s *Server) handleListModelItems(w http.ResponseWriter, r *http.Request) {
	modelName := r.PathValue("model")
	filter, err := s.listFilter(r.URL.Query(), modelName)
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

// handleCreateModelItem handles POST /v1/models/{model}: the raw JSON body
// becomes the item's data, the model tag comes from the path.
func (s *Server) handleCreateModelItem(w http.ResponseWriter, r *http.Request) {
	modelName := r.PathValue("model")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading body")
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	version := s.defaults.Version
	if v := r.URL.Query().Get("version"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "version must be a number")
			return
		}
		version = f
	}

	item, err := s.svc.Create(r.Context(), modelName, version, body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicItemCreated, item.ID, events.ItemCreated{Item: item})

	writeJSON(w, http.StatusCreated, item)
}

// handleCreateFromForm handles POST /v1/forms/{model}: form fields become the
// item's data object. Repeated fields keep all their values.
func (s *Server) handleCreateFromForm(w http.ResponseWriter, r *http.Request) {
	modelName := r.PathValue("model")

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	fields := make(map[string]any, len(r.PostForm))
	for name, values := range r.PostForm {
		if len(values) == 1 {
			fields[name] = values[0]
		} else {
			fields[name] = values
		}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding form fields")
		return
	}

	version := s.defaults.Version
	if v := r.URL.Query().Get("version"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "version must be a number")
			return
		}
		version = f
	}

	item, err := s.svc.Create(r.Context(), modelName, version, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.publish(r.Context(), events.TopicItemCreated, item.ID, events.ItemCreated{Item: item})

	writeJSON(w, http.StatusCreated, item)
}
