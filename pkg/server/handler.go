package server

import (
	"encoding/json"
	"log"
	"net/http"
)

// ReloadResponse is the payload of the /reload endpoint.
type ReloadResponse struct {
	Success      bool     `json:"success"`
	ReloadedAPIs []string `json:"reloaded_apis,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// HandleReload returns a handler that re-runs catalog construction through
// reloadFunc. Reload replaces the catalog wholesale; it never mutates one in
// place.
func HandleReload(reloadFunc func() ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		reloadedAPIs, err := reloadFunc()

		response := ReloadResponse{
			Success:      err == nil,
			ReloadedAPIs: reloadedAPIs,
		}
		if err != nil {
			response.Error = err.Error()
			log.Printf("Reload failed: %v", err)
		} else {
			log.Printf("Successfully reloaded %d APIs: %v", len(reloadedAPIs), reloadedAPIs)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Printf("Failed to encode reload response: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

// HandleHealth returns the /health handler.
func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		response := map[string]any{
			"status":  "healthy",
			"service": "anyapi-mcp",
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Printf("Failed to encode health response: %v", err)
		}
	}
}

// HandleServerInfo returns a handler exposing one server description for
// introspection and smoke tests.
func HandleServerInfo(describe func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(describe()); err != nil {
			log.Printf("Failed to encode server info: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}
