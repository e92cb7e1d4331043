package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/topi314/collective-tools/server/collective"
)

func (h *handler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.GetEvents(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list events", slog.Any("err", err))
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, newEventFromRow(row))
	}

	respondJSON(w, r, http.StatusOK, events)
}

func (h *handler) ImportEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventIDStr := r.FormValue("event")
	if eventIDStr == "" {
		http.Error(w, "Missing 'event' parameter", http.StatusBadRequest)
		return
	}
	eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'event' parameter", http.StatusBadRequest)
		return
	}

	slog.InfoContext(ctx, "Importing event", slog.Int64("event_id", eventID))

	event, err := h.Client.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, collective.ErrEventNotFound) {
			http.Error(w, "Event not found", http.StatusNotFound)
			return
		}
		slog.ErrorContext(ctx, "Failed to fetch event", slog.Int64("event_id", eventID), slog.Any("err", err))
		http.Error(w, "Failed to fetch event", http.StatusInternalServerError)
		return
	}

	if err = h.DB.InsertEventAggregate(ctx, *event); err != nil {
		slog.ErrorContext(ctx, "Failed to store event", slog.Int64("event_id", eventID), slog.Any("err", err))
		http.Error(w, "Failed to store event", http.StatusInternalServerError)
		return
	}

	respondJSON(w, r, http.StatusCreated, newEvent(*event))
}
