package server

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/topi314/collective-tools/server/advisory"
)

func (s *Server) importEvents() {
	for {
		s.doImportEvents()
		time.Sleep(10 * time.Minute)
	}
}

func (s *Server) doImportEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, slug := range s.Cfg.Import.Collectives {
		if err := s.importCollectiveEvents(ctx, slug); err != nil {
			slog.ErrorContext(ctx, "Failed to import collective events", slog.String("collective", slug), slog.Any("err", err))
			s.SendNotification(ctx, fmt.Sprintf("Failed to import events for `%s`: %s", slug, err))
		}
	}

	s.doNotifyOpenBalances(ctx)
}

func (s *Server) importCollectiveEvents(ctx context.Context, slug string) error {
	events, err := s.Client.GetCollectiveEvents(ctx, slug)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Found events to import", slog.String("collective", slug), slog.Int("events", len(events)))

	for _, event := range events {
		full, err := s.Client.GetEvent(ctx, event.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to fetch event", slog.String("collective", slug), slog.Int64("event_id", event.ID), slog.Any("err", err))
			continue
		}

		if err = s.DB.InsertEventAggregate(ctx, *full); err != nil {
			slog.ErrorContext(ctx, "Failed to store event", slog.String("collective", slug), slog.Int64("event_id", event.ID), slog.Any("err", err))
			continue
		}

		slog.InfoContext(ctx, "Imported event",
			slog.String("collective", slug),
			slog.Int64("event_id", full.ID),
			slog.String("event_name", full.Name),
			slog.Int("members", len(full.Members)),
			slog.Int("orders", len(full.Orders)),
		)
	}

	return nil
}

// doNotifyOpenBalances reports events that ended with money left on the
// table, once per event.
func (s *Server) doNotifyOpenBalances(ctx context.Context) {
	rows, err := s.DB.GetEvents(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list events for balance check", slog.Any("err", err))
		return
	}

	for _, row := range rows {
		if slices.Contains(s.sentAdvisoryNotifications, row.ID) {
			continue
		}

		event, err := s.DB.GetEventAggregate(ctx, row.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load event aggregate", slog.Int64("event_id", row.ID), slog.Any("err", err))
			continue
		}

		notice, ok := s.Evaluator.Evaluate(*event, s.Evaluator.EventOver(*event), true)
		if !ok {
			continue
		}

		s.SendNotification(ctx, fmt.Sprintf("`%s` is over and still has a balance of `%s %s`",
			event.Name, advisory.FormatAmount(notice.Balance), notice.Currency))
		s.sentAdvisoryNotifications = append(s.sentAdvisoryNotifications, row.ID)
	}
}
