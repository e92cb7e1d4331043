package response

import (
	"reflect"
	"testing"
	"time"

	"github.com/topi314/collective-tools/server/collective"
)

func newCollective(id int64, name string) *collective.Collective {
	return &collective.Collective{
		ID:   id,
		Type: "USER",
		Name: name,
		Slug: name,
	}
}

func TestClassifyFollowers(t *testing.T) {
	event := collective.Event{
		Members: []collective.Member{
			{ID: 1, Role: collective.RoleFollower, Member: newCollective(10, "alice")},
			{ID: 2, Role: "ADMIN", Member: newCollective(11, "bob")},
			{ID: 3, Role: collective.RoleFollower, Member: newCollective(12, "carol")},
		},
	}

	c := Classify(event)

	if len(c.Interested) != 2 {
		t.Fatalf("expected 2 interested candidates, got %d", len(c.Interested))
	}
	if c.Interested[0].User.ID != 10 || c.Interested[1].User.ID != 12 {
		t.Fatalf("expected candidates in record order, got %v", c.Interested)
	}
	for _, entry := range c.Interested {
		if entry.Status != StatusInterested {
			t.Fatalf("expected status INTERESTED, got %q", entry.Status)
		}
		if !entry.CreatedAt.IsZero() {
			t.Fatalf("expected no creation time on interested entry, got %s", entry.CreatedAt)
		}
	}
	if len(c.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", c.Diagnostics)
	}
}

func TestClassifyOrders(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	event := collective.Event{
		Orders: []collective.Order{
			{
				ID:             1,
				CreatedAt:      createdAt,
				FromCollective: newCollective(20, "dave"),
				Tier:           &collective.Tier{ID: 100, Name: "Ticket"},
			},
			{
				ID:             2,
				CreatedAt:      createdAt.Add(time.Hour),
				FromCollective: newCollective(21, "acme"),
				Tier:           &collective.Tier{ID: 101, Name: "Gold Sponsor"},
			},
			{
				ID:             3,
				CreatedAt:      createdAt.Add(2 * time.Hour),
				FromCollective: newCollective(22, "erin"),
			},
		},
	}

	c := Classify(event)

	if len(c.Yes) != 2 {
		t.Fatalf("expected 2 yes candidates, got %d", len(c.Yes))
	}
	if c.Yes[0].User.ID != 20 || c.Yes[1].User.ID != 22 {
		t.Fatalf("expected candidates in record order, got %v", c.Yes)
	}
	if c.Yes[0].Status != StatusYes {
		t.Fatalf("expected status YES, got %q", c.Yes[0].Status)
	}
	if !c.Yes[0].CreatedAt.Equal(createdAt) {
		t.Fatalf("expected order creation time to carry over, got %s", c.Yes[0].CreatedAt)
	}

	if len(c.Sponsors) != 1 {
		t.Fatalf("expected 1 sponsor, got %d", len(c.Sponsors))
	}
	sponsor := c.Sponsors[0]
	if sponsor.Collective.ID != 21 {
		t.Fatalf("expected sponsor collective 21, got %d", sponsor.Collective.ID)
	}
	if sponsor.Tier.ID != 101 {
		t.Fatalf("expected sponsor tier 101, got %d", sponsor.Tier.ID)
	}
	if !sponsor.CreatedAt.Equal(createdAt.Add(time.Hour)) {
		t.Fatalf("expected sponsor creation time from order, got %s", sponsor.CreatedAt)
	}
}

func TestClassifySponsorTierMatch(t *testing.T) {
	tests := []struct {
		name    string
		tier    *collective.Tier
		sponsor bool
	}{
		{name: "lowercase", tier: &collective.Tier{Name: "sponsor"}, sponsor: true},
		{name: "uppercase", tier: &collective.Tier{Name: "SPONSOR"}, sponsor: true},
		{name: "substring", tier: &collective.Tier{Name: "Silver Sponsorship"}, sponsor: true},
		{name: "ticket", tier: &collective.Tier{Name: "Ticket"}, sponsor: false},
		{name: "no tier", tier: nil, sponsor: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := collective.Event{
				Orders: []collective.Order{
					{ID: 1, FromCollective: newCollective(30, "frank"), Tier: tt.tier},
				},
			}

			c := Classify(event)

			if got := len(c.Sponsors) == 1; got != tt.sponsor {
				t.Fatalf("expected sponsor=%t, got sponsors %v, yes %v", tt.sponsor, c.Sponsors, c.Yes)
			}
		})
	}
}

func TestClassifyMalformedRecords(t *testing.T) {
	event := collective.Event{
		Members: []collective.Member{
			{ID: 1, Role: collective.RoleFollower},
			{ID: 2, Role: collective.RoleFollower, Member: newCollective(10, "alice")},
		},
		Orders: []collective.Order{
			{ID: 3},
			{ID: 4, FromCollective: newCollective(11, "bob")},
		},
	}

	c := Classify(event)

	if len(c.Interested) != 1 || c.Interested[0].User.ID != 10 {
		t.Fatalf("expected only the valid member to be classified, got %v", c.Interested)
	}
	if len(c.Yes) != 1 || c.Yes[0].User.ID != 11 {
		t.Fatalf("expected only the valid order to be classified, got %v", c.Yes)
	}

	if len(c.Diagnostics) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", c.Diagnostics)
	}
	if c.Diagnostics[0].Kind != DiagnosticMemberMissingCollective || c.Diagnostics[0].RecordID != 1 {
		t.Fatalf("expected member diagnostic for record 1, got %+v", c.Diagnostics[0])
	}
	if c.Diagnostics[1].Kind != DiagnosticOrderMissingCollective || c.Diagnostics[1].RecordID != 3 {
		t.Fatalf("expected order diagnostic for record 3, got %+v", c.Diagnostics[1])
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	event := collective.Event{
		Members: []collective.Member{
			{ID: 1, Role: collective.RoleFollower, Member: newCollective(10, "alice")},
			{ID: 2, Role: collective.RoleFollower, Member: newCollective(11, "bob")},
		},
		Orders: []collective.Order{
			{ID: 3, CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), FromCollective: newCollective(12, "carol")},
		},
	}

	first := Classify(event)
	second := Classify(event)

	if len(first.Interested) != len(second.Interested) || len(first.Yes) != len(second.Yes) {
		t.Fatalf("expected identical classification on repeat, got %+v and %+v", first, second)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical classification on repeat, got %+v and %+v", first, second)
	}
}
