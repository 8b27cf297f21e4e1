package query

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Handler holds the dependencies for the historical-query HTTP API.
type Handler struct {
	querier Querier
}

// NewHandler builds a Handler backed by the given Querier.
func NewHandler(q Querier) *Handler {
	return &Handler{querier: q}
}

// Register wires the handler's routes onto r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/v1/estimates", h.rangeHandler).Methods("GET")
}

// rangeHandler serves GET /api/v1/estimates?start=<RFC3339>&end=<RFC3339>.
// Omitting "end" defaults to now; omitting "start" defaults to the zero
// time (i.e. everything up to end).
func (h *Handler) rangeHandler(w http.ResponseWriter, r *http.Request) {
	var rng Range

	if s := r.URL.Query().Get("start"); s != "" {
		start, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid start: "+err.Error(), http.StatusBadRequest)
			return
		}
		rng.Start = start
	}
	if e := r.URL.Query().Get("end"); e != "" {
		end, err := time.Parse(time.RFC3339, e)
		if err != nil {
			http.Error(w, "invalid end: "+err.Error(), http.StatusBadRequest)
			return
		}
		rng.End = end
	}

	points, err := h.querier.QueryRange(r.Context(), rng)
	if err != nil {
		http.Error(w, "failed to query estimates: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(points)
}
