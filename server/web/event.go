package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/topi314/collective-tools/server/advisory"
	"github.com/topi314/collective-tools/server/collective"
	"github.com/topi314/collective-tools/server/database"
	"github.com/topi314/collective-tools/server/response"
)

func (h *handler) Event(w http.ResponseWriter, r *http.Request) {
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

	c := response.Classify(*event)
	for _, diagnostic := range c.Diagnostics {
		slog.WarnContext(ctx, "Skipped malformed record",
			slog.Int64("event_id", eventID),
			slog.String("kind", string(diagnostic.Kind)),
			slog.Int64("record_id", diagnostic.RecordID),
		)
	}

	rs := response.Aggregate(c.Interested, c.Yes)

	isOver := h.Evaluator.EventOver(*event)
	var notice *advisory.Advisory
	if n, ok := h.Evaluator.Evaluate(*event, isOver, h.CanEditEvent(r, *event)); ok {
		notice = &n
	}

	respondJSON(w, r, http.StatusOK, newEventDetail(*event, c, rs, isOver, notice))
}
