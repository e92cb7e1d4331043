package web

import (
	"net/http"
)

type Index struct {
	Name      string   `json:"name"`
	Endpoints []string `json:"endpoints"`
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, Index{
		Name: "collective-tools",
		Endpoints: []string{
			"GET /api/events",
			"POST /api/events",
			"GET /api/events/{event_id}",
			"GET /api/events/{event_id}/qr",
			"POST /api/events/{event_id}/order",
			"GET /api/events/{event_id}/tiers/{tier_id}/selection",
			"GET /export",
			"POST /export",
		},
	})
}

func (h *handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) NotFound(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Not found", http.StatusNotFound)
}
