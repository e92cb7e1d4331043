package web

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/topi314/collective-tools/internal/xquery"
	"github.com/topi314/collective-tools/server/collective"
	"github.com/topi314/collective-tools/server/response"
)

const maxExportEvents = 50

type exportEvent struct {
	event     collective.Event
	responses response.Responses
}

func (h *handler) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	h.doExportEvents(w, r, xquery.ParseStringSlice(query, "events", nil), xquery.ParseBool(query, "combine_csv", false))
}

func (h *handler) DoExport(w http.ResponseWriter, r *http.Request) {
	eventIDs := strings.FieldsFunc(r.FormValue("events"), func(r rune) bool {
		return r == '\n' || r == ','
	})

	combineCSVs := false
	if combineCSVsStr := r.FormValue("combine_csv"); combineCSVsStr != "" {
		parsed, err := strconv.ParseBool(combineCSVsStr)
		if err != nil {
			http.Error(w, "Invalid 'combine_csv' parameter", http.StatusBadRequest)
			return
		}
		combineCSVs = parsed
	}

	h.doExportEvents(w, r, eventIDs, combineCSVs)
}

func (h *handler) doExportEvents(w http.ResponseWriter, r *http.Request, eventIDs []string, combineCSVs bool) {
	ctx := r.Context()

	slog.InfoContext(ctx, "Received export request", slog.Any("events", eventIDs), slog.Bool("combine_csv", combineCSVs))

	if len(eventIDs) == 0 {
		http.Error(w, "Missing 'events' parameter", http.StatusBadRequest)
		return
	}
	if len(eventIDs) > maxExportEvents {
		http.Error(w, fmt.Sprintf("please limit the number of events to %d, got %d", maxExportEvents, len(eventIDs)), http.StatusBadRequest)
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	var events []exportEvent
	var mu sync.Mutex
	for _, eventIDStr := range eventIDs {
		eventIDStr = strings.TrimSpace(eventIDStr)
		if eventIDStr == "" {
			continue
		}
		eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid event ID: "+eventIDStr, http.StatusBadRequest)
			return
		}

		eg.Go(func() error {
			event, err := h.FetchEvent(egCtx, eventID)
			if err != nil {
				return fmt.Errorf("failed to fetch event %d: %w", eventID, err)
			}

			c := response.Classify(*event)
			rs := response.Aggregate(c.Interested, c.Yes)

			mu.Lock()
			defer mu.Unlock()
			events = append(events, exportEvent{
				event:     *event,
				responses: rs,
			})

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		slog.ErrorContext(ctx, "Failed to fetch events for export", slog.Any("err", err))
		http.Error(w, "Failed to fetch events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if len(events) == 0 {
		http.Error(w, "No events found for the provided IDs", http.StatusNotFound)
		return
	}

	if combineCSVs {
		records := [][]string{
			{"id", "name", "slug", "status", "created_at", "event_id", "event_name"},
		}
		for _, ee := range events {
			for _, guest := range ee.responses.Guests {
				records = append(records, append(guestRecord(guest),
					strconv.FormatInt(ee.event.ID, 10),
					ee.event.Name,
				))
			}
		}

		slog.InfoContext(ctx, "Combined CSV records", slog.Int("records", len(records)))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=export.csv")
		if err := csv.NewWriter(w).WriteAll(records); err != nil {
			slog.ErrorContext(ctx, "Failed to write CSV records", slog.Any("err", err))
		}
		return
	}

	allRecords := make([][][]string, 0, len(events))
	for _, ee := range events {
		records := [][]string{
			{"id", "name", "slug", "status", "created_at"},
		}
		for _, guest := range ee.responses.Guests {
			records = append(records, guestRecord(guest))
		}
		allRecords = append(allRecords, records)
	}

	if len(allRecords) == 1 {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=export.csv")
		if err := csv.NewWriter(w).WriteAll(allRecords[0]); err != nil {
			slog.ErrorContext(ctx, "Failed to write CSV records", slog.Any("err", err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", "attachment; filename=export.zip")
	zw := zip.NewWriter(w)
	for i, records := range allRecords {
		filename := fmt.Sprintf("export_%s_%d.csv", events[i].event.Slug, events[i].event.ID)
		f, err := zw.Create(filename)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create zip entry", slog.String("filename", filename), slog.Any("err", err))
			return
		}

		if err = csv.NewWriter(f).WriteAll(records); err != nil {
			slog.ErrorContext(ctx, "Failed to write CSV records", slog.String("filename", filename), slog.Any("err", err))
			return
		}
	}
	if err := zw.Close(); err != nil {
		slog.ErrorContext(ctx, "Failed to close zip writer", slog.Any("err", err))
		return
	}

	slog.InfoContext(ctx, "Export completed", slog.Int("files", len(allRecords)))
}

func guestRecord(guest response.Entry) []string {
	createdAt := ""
	if !guest.CreatedAt.IsZero() {
		createdAt = guest.CreatedAt.Format(time.RFC3339)
	}
	return []string{
		strconv.FormatInt(guest.User.ID, 10),
		guest.User.Name,
		guest.User.Slug,
		string(guest.Status),
		createdAt,
	}
}
