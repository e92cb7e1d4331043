package order

import (
	"sync"

	"github.com/topi314/collective-tools/internal/omit"
	"github.com/topi314/collective-tools/server/collective"
)

// Input are the last submitted values for one tier.
type Input struct {
	Tier     collective.Tier `json:"tier"`
	Quantity omit.Omit[int]  `json:"quantity,omitzero"`
}

// NewStore returns an empty per-session selection store.
func NewStore() *Store {
	return &Store{
		inputs: make(map[int64]Input),
	}
}

// Store remembers the last submitted values per tier, keyed by tier ID, so
// switching tiers and back restores prior input. One store belongs to one
// viewing session.
type Store struct {
	mu     sync.Mutex
	inputs map[int64]Input
}

func (s *Store) put(input Input) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inputs[input.Tier.ID] = input
}

// Last returns the last submitted values for the tier, if any.
func (s *Store) Last(tierID int64) (Input, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input, ok := s.inputs[tierID]
	return input, ok
}
