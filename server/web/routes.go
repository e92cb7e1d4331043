package web

import (
	"net/http"

	"github.com/topi314/collective-tools/server"
)

type handler struct {
	*server.Server
}

func Routes(srv *server.Server) http.Handler {
	h := &handler{
		Server: srv,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET  /api/events", h.Events)
	mux.HandleFunc("POST /api/events", h.ImportEvent)
	mux.HandleFunc("GET  /api/events/{event_id}", h.Event)
	mux.HandleFunc("GET  /api/events/{event_id}/qr", h.EventQRCode)
	mux.HandleFunc("POST /api/events/{event_id}/order", h.OrderTier)
	mux.HandleFunc("GET  /api/events/{event_id}/tiers/{tier_id}/selection", h.TierSelection)

	mux.HandleFunc("GET  /export", h.Export)
	mux.HandleFunc("POST /export", h.DoExport)

	mux.HandleFunc("/", h.NotFound)

	return cleanPath(logRequests(mux))
}
