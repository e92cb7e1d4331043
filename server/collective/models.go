package collective

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type Req struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type Resp[T any] struct {
	Errors []Error `json:"errors"`
	Data   T       `json:"data"`
}

type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path"`
}

func (e Error) String() string {
	return e.Error()
}

func (e Error) Error() string {
	msg := fmt.Sprintf("Error: %s", e.Message)
	if len(e.Path) > 0 {
		var path []string
		for _, p := range e.Path {
			path = append(path, fmt.Sprint(p))
		}
		msg += fmt.Sprintf(", Path: %v", strings.Join(path, "."))
	}
	return msg
}

// Collective is a user or organization entity. It can be an event's parent,
// a follower or a purchaser.
type Collective struct {
	ID              int64          `json:"id"`
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	ImageURL        string         `json:"image"`
	BackgroundImage string         `json:"backgroundImage"`
	Tags            pq.StringArray `json:"tags"`
}

type Event struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	Description      string      `json:"description"`
	LongDescription  string      `json:"longDescription"`
	StartsAt         time.Time   `json:"startsAt"`
	EndsAt           time.Time   `json:"endsAt"`
	Currency         string      `json:"currency"`
	BackgroundImage  string      `json:"backgroundImage"`
	Stats            EventStats  `json:"stats"`
	ParentCollective *Collective `json:"parentCollective"`
	Location         *Location   `json:"location"`
	Tiers            []Tier      `json:"tiers"`
	Members          []Member    `json:"members"`
	Orders           []Order     `json:"orders"`
}

// Path is the event's URL path below the parent collective.
func (e Event) Path() string {
	if e.ParentCollective == nil {
		return "/events/" + e.Slug
	}
	return fmt.Sprintf("/%s/events/%s", e.ParentCollective.Slug, e.Slug)
}

type EventStats struct {
	Balance int64 `json:"balance"`
}

type Location struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Long    float64 `json:"long"`
}

const RoleFollower = "FOLLOWER"

// Member is a membership record on an event, e.g. a follower. The referenced
// member collective may be missing on malformed records.
type Member struct {
	ID        int64       `json:"id"`
	Role      string      `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	Member    *Collective `json:"member"`
}

// Order is a ticket purchase or pledge. The purchaser reference may be
// missing on malformed records.
type Order struct {
	ID             int64       `json:"id"`
	CreatedAt      time.Time   `json:"createdAt"`
	Quantity       int         `json:"quantity"`
	TotalAmount    int64       `json:"totalAmount"`
	Currency       string      `json:"currency"`
	FromCollective *Collective `json:"fromCollective"`
	Tier           *Tier       `json:"tier"`
}

// Tier is a ticket price template. Amounts are in minor currency units.
// A zero SingleAmount means the tier has no per-unit price and Amount applies.
type Tier struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Amount       int64  `json:"amount"`
	SingleAmount int64  `json:"singleAmount"`
	Interval     string `json:"interval"`
	MaxQuantity  int    `json:"maxQuantity"`
}

func FindTier(id int64, event Event) (Tier, bool) {
	for _, tier := range event.Tiers {
		if tier.ID == id {
			return tier, true
		}
	}
	return Tier{}, false
}
