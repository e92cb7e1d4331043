package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/topi314/collective-tools/server/order"
)

const maxSelectionSessionAge = 24 * time.Hour

func newSelections() *selections {
	return &selections{
		sessions: make(map[string]*selectionSession),
	}
}

// selections holds one order selection store per viewing session. Stores are
// created on first use and dropped again after a day without activity.
type selections struct {
	mu       sync.Mutex
	sessions map[string]*selectionSession
}

type selectionSession struct {
	store    *order.Store
	lastSeen time.Time
}

// NewSelectionSession returns a fresh session ID.
func (s *Server) NewSelectionSession() string {
	return uuid.NewString()
}

// SelectionStore returns the session's selection store, creating it if
// needed.
func (s *Server) SelectionStore(sessionID string) *order.Store {
	s.selections.mu.Lock()
	defer s.selections.mu.Unlock()

	session, ok := s.selections.sessions[sessionID]
	if !ok {
		session = &selectionSession{
			store: order.NewStore(),
		}
		s.selections.sessions[sessionID] = session
	}
	session.lastSeen = time.Now()

	return session.store
}

func (s *Server) cleanupSelections() {
	for {
		s.doCleanupSelections()
		time.Sleep(1 * time.Hour)
	}
}

func (s *Server) doCleanupSelections() {
	s.selections.mu.Lock()
	defer s.selections.mu.Unlock()

	for id, session := range s.selections.sessions {
		if time.Since(session.lastSeen) > maxSelectionSessionAge {
			delete(s.selections.sessions, id)
		}
	}
}
