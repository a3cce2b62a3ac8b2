package engine

import (
	"encoding/json"
	"net/http"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

// NewHandler serves c over HTTP:
//
//	POST /calculate   Request -> Result
//	GET  /parameters  the registry definitions
//	GET  /healthz
//
// A body that is not valid JSON yields an unsuccessful Result, not an
// HTTP error, so clients see the message like any other engine error.
func NewHandler(reg *registry.Registry, c Calculator) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calculate", func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusOK, &Result{Success: false, Errors: []string{"Invalid parameter JSON: " + err.Error()}})
			return
		}
		res, err := c.Calculate(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, res)
	})
	mux.HandleFunc("GET /parameters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"parameters": reg.All(),
			"sections":   reg.Sections(),
		})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logf("", "write response: %v", err)
	}
}
