package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/disgoorg/disgo/webhook"

	"github.com/topi314/collective-tools/server/advisory"
	"github.com/topi314/collective-tools/server/collective"
	"github.com/topi314/collective-tools/server/database"
)

func New(cfg Config) (*Server, error) {
	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var webhookClient *webhook.Client
	if cfg.Notifications.Enabled {
		webhookClient, err = webhook.NewWithURL(cfg.Notifications.WebhookURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create webhook client: %w", err)
		}
	}

	httpClient := &http.Client{
		Timeout: 20 * time.Second,
	}

	s := &Server{
		Cfg:           cfg,
		HTTPClient:    httpClient,
		Client:        collective.New(cfg.Collective, httpClient),
		DB:            db,
		Evaluator:     advisory.NewEvaluator(nil),
		webhookClient: webhookClient,
		selections:    newSelections(),
	}
	s.CanEditEvent = s.adminTokenCanEdit

	go s.cleanupSelections()
	if cfg.Collective.EventAutoImport {
		go s.importEvents()
	}

	return s, nil
}

type Server struct {
	Cfg        Config
	HTTPClient *http.Client
	Client     *collective.Client
	DB         *database.Database
	Evaluator  *advisory.Evaluator

	// CanEditEvent decides whether the request's viewer may edit the event.
	// It is an opaque predicate, replaceable for testing and embedding.
	CanEditEvent func(r *http.Request, event collective.Event) bool

	server        *http.Server
	webhookClient *webhook.Client
	selections    *selections

	sentAdvisoryNotifications []int64
}

func (s *Server) Start(handler http.Handler) {
	s.server = &http.Server{
		Addr:    s.Cfg.Server.Addr,
		Handler: handler,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.Any("err", err))
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown failed", slog.Any("err", err))
		}
	}

	if err := s.DB.Close(); err != nil {
		slog.Error("Database close failed", slog.Any("err", err))
	}
}

// FetchEvent loads the event aggregate from storage, falling back to the
// upstream API and importing the result on a miss.
func (s *Server) FetchEvent(ctx context.Context, eventID int64) (*collective.Event, error) {
	event, err := s.DB.GetEventAggregate(ctx, eventID)
	if err == nil {
		return event, nil
	}
	if !errors.Is(err, database.ErrEventNotFound) {
		return nil, err
	}

	event, err = s.Client.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err = s.DB.InsertEventAggregate(ctx, *event); err != nil {
		slog.ErrorContext(ctx, "Failed to store fetched event", slog.Int64("event_id", eventID), slog.Any("err", err))
	}

	return event, nil
}

func (s *Server) adminTokenCanEdit(r *http.Request, _ collective.Event) bool {
	if s.Cfg.Server.AdminToken == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.Cfg.Server.AdminToken)) == 1
}
