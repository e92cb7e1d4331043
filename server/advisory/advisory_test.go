package advisory

import (
	"strings"
	"testing"
	"time"

	"github.com/topi314/collective-tools/server/collective"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

func TestEventOver(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvaluator(fixedClock(now))

	tests := []struct {
		name   string
		endsAt time.Time
		over   bool
	}{
		{name: "ended", endsAt: now.Add(-time.Hour), over: true},
		{name: "ongoing", endsAt: now.Add(time.Hour), over: false},
		{name: "ends exactly now", endsAt: now, over: false},
		{name: "no end date", over: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := collective.Event{EndsAt: tt.endsAt}
			if got := e.EventOver(event); got != tt.over {
				t.Fatalf("expected over=%t, got %t", tt.over, got)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvaluator(fixedClock(now))

	event := collective.Event{
		Name:     "Summer Meetup",
		Slug:     "summer-meetup",
		EndsAt:   now.Add(-24 * time.Hour),
		Currency: "EUR",
		Stats:    collective.EventStats{Balance: 10000},
		ParentCollective: &collective.Collective{
			Name: "Gopher Collective",
			Slug: "gophers",
		},
	}

	tests := []struct {
		name    string
		balance int64
		over    bool
		canEdit bool
		want    bool
	}{
		{name: "all conditions hold", balance: 10000, over: true, canEdit: true, want: true},
		{name: "zero balance", balance: 0, over: true, canEdit: true, want: false},
		{name: "negative balance", balance: -500, over: true, canEdit: true, want: false},
		{name: "event not over", balance: 10000, over: false, canEdit: true, want: false},
		{name: "viewer cannot edit", balance: 10000, over: true, canEdit: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := event
			ev.Stats.Balance = tt.balance

			advisory, ok := e.Evaluate(ev, tt.over, tt.canEdit)
			if ok != tt.want {
				t.Fatalf("expected advisory=%t, got %t", tt.want, ok)
			}
			// absent means absent, not placeholder text
			if !tt.want && (advisory.Title != "" || advisory.Description != "" || advisory.Actions != nil) {
				t.Fatalf("expected zero advisory when absent, got %+v", advisory)
			}
		})
	}
}

func TestEvaluatePopulatesAdvisory(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e := NewEvaluator(fixedClock(now))

	event := collective.Event{
		Name:     "Summer Meetup",
		Slug:     "summer-meetup",
		EndsAt:   now.Add(-24 * time.Hour),
		Currency: "EUR",
		Stats:    collective.EventStats{Balance: 100},
		ParentCollective: &collective.Collective{
			Name: "Gopher Collective",
			Slug: "gophers",
		},
	}

	advisory, ok := e.Evaluate(event, e.EventOver(event), true)
	if !ok {
		t.Fatal("expected advisory to be present")
	}

	if advisory.Title == "" {
		t.Fatal("expected non-empty title")
	}
	if !strings.Contains(advisory.Description, "Gopher Collective") {
		t.Fatalf("expected description to name the parent collective, got %q", advisory.Description)
	}
	if !strings.Contains(advisory.TransactionDescription, "Summer Meetup") {
		t.Fatalf("expected transaction description to name the event, got %q", advisory.TransactionDescription)
	}
	if !strings.Contains(advisory.TransactionDescription, "1.00 EUR") {
		t.Fatalf("expected transaction description to carry the balance, got %q", advisory.TransactionDescription)
	}
	if advisory.Balance != 100 || advisory.Currency != "EUR" {
		t.Fatalf("expected balance 100 EUR, got %d %s", advisory.Balance, advisory.Currency)
	}
	if len(advisory.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %v", advisory.Actions)
	}
	if !strings.HasPrefix(advisory.Actions[0].URL, "/gophers/events/summer-meetup") {
		t.Fatalf("expected action URL below the event path, got %q", advisory.Actions[0].URL)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{amount: 0, want: "0.00"},
		{amount: 5, want: "0.05"},
		{amount: 100, want: "1.00"},
		{amount: 12345, want: "123.45"},
		{amount: -250, want: "-2.50"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.amount); got != tt.want {
			t.Errorf("FormatAmount(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
