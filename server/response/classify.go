package response

import (
	"strings"

	"github.com/topi314/collective-tools/server/collective"
)

// Classify turns the event's raw membership and order records into RSVP
// candidates and sponsors. FOLLOWER members become INTERESTED candidates,
// orders become YES candidates, except orders on a tier whose name contains
// "sponsor", which are routed to the sponsor list instead. Records without a
// resolvable collective are skipped and reported as diagnostics.
//
// Classification is a pure function of the event; emission order matches
// record order.
func Classify(event collective.Event) Classification {
	var c Classification

	for _, member := range event.Members {
		if member.Role != collective.RoleFollower {
			continue
		}
		if member.Member == nil {
			c.Diagnostics = append(c.Diagnostics, Diagnostic{
				Kind:     DiagnosticMemberMissingCollective,
				RecordID: member.ID,
			})
			continue
		}
		c.Interested = append(c.Interested, Entry{
			User:   *member.Member,
			Status: StatusInterested,
		})
	}

	for _, order := range event.Orders {
		if order.FromCollective == nil {
			c.Diagnostics = append(c.Diagnostics, Diagnostic{
				Kind:     DiagnosticOrderMissingCollective,
				RecordID: order.ID,
			})
			continue
		}
		if isSponsorOrder(order) {
			c.Sponsors = append(c.Sponsors, Sponsor{
				Collective: *order.FromCollective,
				Tier:       *order.Tier,
				CreatedAt:  order.CreatedAt,
			})
			continue
		}
		c.Yes = append(c.Yes, Entry{
			User:      *order.FromCollective,
			CreatedAt: order.CreatedAt,
			Status:    StatusYes,
		})
	}

	return c
}

func isSponsorOrder(order collective.Order) bool {
	if order.Tier == nil {
		return false
	}
	return strings.Contains(strings.ToLower(order.Tier.Name), "sponsor")
}
