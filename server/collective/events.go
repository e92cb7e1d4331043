package collective

import (
	"context"
	_ "embed"
	"log/slog"
)

var (
	//go:embed queries/event.graphql
	eventQuery string

	//go:embed queries/collective_events.graphql
	collectiveEventsQuery string
)

// GetEvent fetches the fully materialized event aggregate, including its
// tiers, membership records and orders.
func (c *Client) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	slog.DebugContext(ctx, "Fetching event", slog.Int64("event_id", eventID))

	var resp eventResp
	if err := c.Do(ctx, eventQuery, map[string]any{
		"id": eventID,
	}, &resp); err != nil {
		return nil, err
	}

	if resp.Event == nil {
		return nil, ErrEventNotFound
	}

	return resp.Event, nil
}

type eventResp struct {
	Event *Event `json:"Event"`
}

// GetCollectiveEvents fetches the events of a collective. The returned
// events only carry their base fields, not the full aggregate.
func (c *Client) GetCollectiveEvents(ctx context.Context, slug string) ([]Event, error) {
	slog.DebugContext(ctx, "Fetching collective events", slog.String("slug", slug))

	var resp collectiveEventsResp
	if err := c.Do(ctx, collectiveEventsQuery, map[string]any{
		"slug": slug,
	}, &resp); err != nil {
		return nil, err
	}

	return resp.AllEvents, nil
}

type collectiveEventsResp struct {
	AllEvents []Event `json:"allEvents"`
}
