package server

import (
	"encoding/json"
	"net/http"
)

// NewHTTPHandler returns an http.Handler with all enabled routes registered.
// Disabled endpoints are simply not registered, so they answer 404 like any
// unknown path.
func (s *Server) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	if s.endpoints.Create {
		mux.HandleFunc("POST /v1/items", s.handleCreateItem)
	}
	if s.endpoints.List {
		mux.HandleFunc("GET /v1/items", s.handleListItems)
	}
	if s.endpoints.Read {
		mux.HandleFunc("GET /v1/items/{id}", s.handleGetItem)
	}
	if s.endpoints.Replace {
		mux.HandleFunc("PUT /v1/items/{id}", s.handleReplaceItem)
	}
	if s.endpoints.Patch {
		mux.HandleFunc("PATCH /v1/items/{id}", s.handlePatchItem)
	}
	if s.endpoints.Delete {
		mux.HandleFunc("DELETE /v1/items/{id}", s.handleDeleteItem)
	}
	if s.endpoints.Models {
		mux.HandleFunc("GET /v1/models", s.handleModelSummary)
		mux.HandleFunc("GET /v1/models/{model}", s.handleListModelItems)
	}
	if s.endpoints.Create {
		mux.HandleFunc("POST /v1/models/{model}", s.handleCreateModelItem)
	}
	if s.endpoints.Forms {
		mux.HandleFunc("POST /v1/forms/{model}", s.handleCreateFromForm)
	}
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return mux
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
