package response

import (
	"time"

	"github.com/topi314/collective-tools/server/collective"
)

type Status string

const (
	StatusInterested Status = "INTERESTED"
	StatusYes        Status = "YES"
)

// Entry is a derived attendance signal for one collective. Entries are
// produced fresh on every classification pass and never mutated.
type Entry struct {
	User      collective.Collective
	CreatedAt time.Time // zero for INTERESTED entries
	Status    Status
}

// Sponsor is a purchaser collective augmented with the tier and creation
// time of its sponsor order.
type Sponsor struct {
	collective.Collective
	Tier      collective.Tier
	CreatedAt time.Time
}

type DiagnosticKind string

const (
	// DiagnosticMemberMissingCollective marks a membership record without a
	// resolvable member collective.
	DiagnosticMemberMissingCollective DiagnosticKind = "member_missing_collective"
	// DiagnosticOrderMissingCollective marks an order without a resolvable
	// purchaser collective.
	DiagnosticOrderMissingCollective DiagnosticKind = "order_missing_collective"
)

// Diagnostic records a skipped malformed record. Diagnostics are
// informational; a malformed record never fails the whole classification.
type Diagnostic struct {
	Kind     DiagnosticKind
	RecordID int64
}

// Classification is the result of one classification pass over an event's
// membership and order records.
type Classification struct {
	Sponsors    []Sponsor
	Interested  []Entry
	Yes         []Entry
	Diagnostics []Diagnostic
}

// Responses is the final deduplicated guest list plus its status views.
type Responses struct {
	Guests     []Entry
	Going      []Entry
	Interested []Entry
}
