package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"

	"github.com/topi314/collective-tools/internal/xio"
	"github.com/topi314/collective-tools/server/collective"
	"github.com/topi314/collective-tools/server/database"
)

// EventQRCode renders a QR code pointing at the event's ticket order page.
func (h *handler) EventQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := strconv.ParseInt(r.PathValue("event_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'event_id' parameter", http.StatusBadRequest)
		return
	}

	event, err := h.FetchEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, database.ErrEventNotFound) || errors.Is(err, collective.ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch event", slog.Int64("event_id", eventID), slog.Any("err", err))
		http.Error(w, "Failed to fetch event", http.StatusInternalServerError)
		return
	}

	qr, err := qrcode.New(h.Cfg.Server.PublicURL + event.Path() + "/order")
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create qrcode", slog.Any("err", err))
		http.Error(w, "Failed to create qrcode", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	qrW := standard.NewWithWriter(xio.NewWriteCloser(w),
		standard.WithBgTransparent(),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	defer func() {
		_ = qrW.Close()
	}()
	if err = qr.Save(qrW); err != nil {
		slog.ErrorContext(ctx, "Failed to save qrcode", slog.Any("err", err))
	}
}
