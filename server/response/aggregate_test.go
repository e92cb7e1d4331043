package response

import (
	"testing"
	"time"

	"github.com/topi314/collective-tools/server/collective"
)

func interestedEntry(userID int64) Entry {
	return Entry{
		User:   collective.Collective{ID: userID},
		Status: StatusInterested,
	}
}

func yesEntry(userID int64, createdAt time.Time) Entry {
	return Entry{
		User:      collective.Collective{ID: userID},
		CreatedAt: createdAt,
		Status:    StatusYes,
	}
}

func TestAggregateSortsByRecency(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rs := Aggregate(nil, []Entry{
		yesEntry(1, base),
		yesEntry(2, base.Add(2*time.Hour)),
		yesEntry(3, base.Add(time.Hour)),
	})

	if len(rs.Guests) != 3 {
		t.Fatalf("expected 3 guests, got %d", len(rs.Guests))
	}
	for i, want := range []int64{2, 3, 1} {
		if rs.Guests[i].User.ID != want {
			t.Fatalf("expected guest %d at position %d, got %d", want, i, rs.Guests[i].User.ID)
		}
	}
}

func TestAggregateDeduplicatesByUser(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rs := Aggregate(nil, []Entry{
		yesEntry(1, base),
		yesEntry(1, base.Add(time.Hour)),
	})

	if len(rs.Guests) != 1 {
		t.Fatalf("expected 1 guest after dedupe, got %d", len(rs.Guests))
	}
	// most recent order wins when both entries carry real timestamps
	if !rs.Guests[0].CreatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected most recent entry to survive, got %s", rs.Guests[0].CreatedAt)
	}
}

func TestAggregateInterestedWinsForDualStatusUser(t *testing.T) {
	// A user who both follows the event and bought a ticket keeps the
	// INTERESTED entry: undated entries precede dated ones in the union and
	// never reorder, and dedupe keeps the first occurrence.
	rs := Aggregate(
		[]Entry{interestedEntry(1)},
		[]Entry{yesEntry(1, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))},
	)

	if len(rs.Guests) != 1 {
		t.Fatalf("expected 1 guest after dedupe, got %d", len(rs.Guests))
	}
	if rs.Guests[0].Status != StatusInterested {
		t.Fatalf("expected INTERESTED entry to survive, got %q", rs.Guests[0].Status)
	}
	if len(rs.Going) != 0 || len(rs.Interested) != 1 {
		t.Fatalf("expected the user counted as interested, got going %d, interested %d", len(rs.Going), len(rs.Interested))
	}
}

func TestAggregateMissingTimestampsDoNotPanic(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rs := Aggregate(
		[]Entry{interestedEntry(1), interestedEntry(2), interestedEntry(3)},
		[]Entry{yesEntry(4, base.Add(time.Hour)), yesEntry(5, base)},
	)

	if len(rs.Guests) != 5 {
		t.Fatalf("expected 5 guests, got %d", len(rs.Guests))
	}
	// dated entries still order among themselves, most recent first
	var dated []Entry
	for _, guest := range rs.Guests {
		if !guest.CreatedAt.IsZero() {
			dated = append(dated, guest)
		}
	}
	if len(dated) != 2 || dated[0].User.ID != 4 || dated[1].User.ID != 5 {
		t.Fatalf("expected dated guests ordered by recency, got %v", dated)
	}
}

func TestAggregateCounts(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		interested []Entry
		yes        []Entry
	}{
		{
			name: "empty",
		},
		{
			name:       "disjoint users",
			interested: []Entry{interestedEntry(1), interestedEntry(2)},
			yes:        []Entry{yesEntry(3, base), yesEntry(4, base.Add(time.Hour))},
		},
		{
			name:       "overlapping users",
			interested: []Entry{interestedEntry(1), interestedEntry(2)},
			yes:        []Entry{yesEntry(2, base), yesEntry(2, base.Add(time.Hour)), yesEntry(3, base)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := Aggregate(tt.interested, tt.yes)

			if got := len(rs.Going) + len(rs.Interested); got != len(rs.Guests) {
				t.Fatalf("expected going+interested == guests, got %d+%d != %d", len(rs.Going), len(rs.Interested), len(rs.Guests))
			}
			if len(rs.Guests) > len(tt.interested)+len(tt.yes) {
				t.Fatalf("expected no more guests than raw candidates, got %d > %d", len(rs.Guests), len(tt.interested)+len(tt.yes))
			}

			seen := make(map[int64]struct{})
			for _, guest := range rs.Guests {
				if _, ok := seen[guest.User.ID]; ok {
					t.Fatalf("expected unique users in guest list, got duplicate %d", guest.User.ID)
				}
				seen[guest.User.ID] = struct{}{}
			}
		})
	}
}

func TestAggregatePreservesDedupedOrderInViews(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	rs := Aggregate(
		[]Entry{interestedEntry(1), interestedEntry(2)},
		[]Entry{yesEntry(3, base), yesEntry(4, base.Add(time.Hour))},
	)

	if len(rs.Interested) != 2 || rs.Interested[0].User.ID != 1 || rs.Interested[1].User.ID != 2 {
		t.Fatalf("expected interested view in guest order, got %v", rs.Interested)
	}
	if len(rs.Going) != 2 || rs.Going[0].User.ID != 4 || rs.Going[1].User.ID != 3 {
		t.Fatalf("expected going view in guest order, got %v", rs.Going)
	}
}
