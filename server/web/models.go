package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/topi314/collective-tools/server/advisory"
	"github.com/topi314/collective-tools/server/collective"
	"github.com/topi314/collective-tools/server/database"
	"github.com/topi314/collective-tools/server/response"
)

const defaultBackgroundImage = "/static/images/defaultBackgroundImage.png"

type Event struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Description     string     `json:"description,omitempty"`
	StartsAt        time.Time  `json:"startsAt"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	Currency        string     `json:"currency"`
	Path            string     `json:"path"`
	BackgroundImage string     `json:"backgroundImage"`
}

func newEvent(event collective.Event) Event {
	e := Event{
		ID:              event.ID,
		Name:            event.Name,
		Slug:            event.Slug,
		Description:     event.Description,
		StartsAt:        event.StartsAt,
		Currency:        event.Currency,
		Path:            event.Path(),
		BackgroundImage: backgroundImage(event),
	}
	if e.Description == "" {
		e.Description = event.LongDescription
	}
	if !event.EndsAt.IsZero() {
		endsAt := event.EndsAt
		e.EndsAt = &endsAt
	}
	return e
}

func newEventFromRow(row database.Event) Event {
	e := Event{
		ID:       row.ID,
		Name:     row.Name,
		Slug:     row.Slug,
		StartsAt: row.StartsAt,
		Currency: row.Currency,
	}
	if row.EndsAt.Valid {
		endsAt := row.EndsAt.Time
		e.EndsAt = &endsAt
	}
	return e
}

// backgroundImage falls back from the event to its parent collective to the
// bundled default image.
func backgroundImage(event collective.Event) string {
	if event.BackgroundImage != "" {
		return event.BackgroundImage
	}
	if event.ParentCollective != nil && event.ParentCollective.BackgroundImage != "" {
		return event.ParentCollective.BackgroundImage
	}
	return defaultBackgroundImage
}

type EventDetail struct {
	Event

	Location        *Location          `json:"location,omitempty"`
	Tiers           []Tier             `json:"tiers"`
	Sponsors        []Sponsor          `json:"sponsors"`
	Guests          []Guest            `json:"guests"`
	GoingCount      int                `json:"goingCount"`
	InterestedCount int                `json:"interestedCount"`
	IsOver          bool               `json:"isOver"`
	Advisory        *advisory.Advisory `json:"advisory,omitempty"`
}

type Location struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type Tier struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	SingleAmount int64  `json:"singleAmount,omitempty"`
	Interval     string `json:"interval,omitempty"`
	MaxQuantity  int    `json:"maxQuantity,omitempty"`
}

func newTier(tier collective.Tier) Tier {
	return Tier{
		ID:           tier.ID,
		Name:         tier.Name,
		Amount:       tier.Amount,
		SingleAmount: tier.SingleAmount,
		Interval:     tier.Interval,
		MaxQuantity:  tier.MaxQuantity,
	}
}

type Guest struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ImageURL  string     `json:"image,omitempty"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func newGuest(entry response.Entry) Guest {
	g := Guest{
		ID:       entry.User.ID,
		Name:     entry.User.Name,
		Slug:     entry.User.Slug,
		ImageURL: entry.User.ImageURL,
		Status:   string(entry.Status),
	}
	if !entry.CreatedAt.IsZero() {
		createdAt := entry.CreatedAt
		g.CreatedAt = &createdAt
	}
	return g
}

type Sponsor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"image,omitempty"`
	TierName  string    `json:"tier"`
	CreatedAt time.Time `json:"createdAt"`
}

func newSponsor(sponsor response.Sponsor) Sponsor {
	return Sponsor{
		ID:        sponsor.Collective.ID,
		Name:      sponsor.Collective.Name,
		Slug:      sponsor.Collective.Slug,
		ImageURL:  sponsor.Collective.ImageURL,
		TierName:  sponsor.Tier.Name,
		CreatedAt: sponsor.CreatedAt,
	}
}

func newEventDetail(event collective.Event, c response.Classification, rs response.Responses, isOver bool, notice *advisory.Advisory) EventDetail {
	detail := EventDetail{
		Event:           newEvent(event),
		Tiers:           make([]Tier, 0, len(event.Tiers)),
		Sponsors:        make([]Sponsor, 0, len(c.Sponsors)),
		Guests:          make([]Guest, 0, len(rs.Guests)),
		GoingCount:      len(rs.Going),
		InterestedCount: len(rs.Interested),
		IsOver:          isOver,
		Advisory:        notice,
	}
	if event.Location != nil && event.Location.Name != "" {
		detail.Location = &Location{
			Name:    event.Location.Name,
			Address: event.Location.Address,
		}
	}
	for _, tier := range event.Tiers {
		detail.Tiers = append(detail.Tiers, newTier(tier))
	}
	for _, sponsor := range c.Sponsors {
		detail.Sponsors = append(detail.Sponsors, newSponsor(sponsor))
	}
	for _, guest := range rs.Guests {
		detail.Guests = append(detail.Guests, newGuest(guest))
	}
	return detail
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", slog.Any("err", err))
	}
}
