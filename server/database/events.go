package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/topi314/collective-tools/server/collective"
)

var ErrEventNotFound = errors.New("event not found")

// InsertEventAggregate stores an upstream event aggregate, upserting the
// referenced collectives, the event and its tiers, membership records and
// orders in one transaction.
func (d *Database) InsertEventAggregate(ctx context.Context, event collective.Event) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	collectives := referencedCollectives(event)
	if len(collectives) > 0 {
		query := `
			INSERT INTO collectives (id, type, name, slug, image_url, background_image, tags)
			VALUES (:id, :type, :name, :slug, :image_url, :background_image, :tags)
			ON CONFLICT (id) DO UPDATE SET
				type = EXCLUDED.type,
				name = EXCLUDED.name,
				slug = EXCLUDED.slug,
				image_url = EXCLUDED.image_url,
				background_image = EXCLUDED.background_image,
				tags = EXCLUDED.tags,
				imported_at = NOW()
		`
		if _, err = tx.NamedExecContext(ctx, query, collectives); err != nil {
			return fmt.Errorf("failed to create or update collectives: %w", err)
		}
	}

	rawJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	query := `
		INSERT INTO events (id, name, slug, description, long_description, starts_at, ends_at, currency, balance, background_image, parent_collective_id, location_name, location_address, raw_json)
		VALUES (:id, :name, :slug, :description, :long_description, :starts_at, :ends_at, :currency, :balance, :background_image, :parent_collective_id, :location_name, :location_address, :raw_json)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			description = EXCLUDED.description,
			long_description = EXCLUDED.long_description,
			starts_at = EXCLUDED.starts_at,
			ends_at = EXCLUDED.ends_at,
			currency = EXCLUDED.currency,
			balance = EXCLUDED.balance,
			background_image = EXCLUDED.background_image,
			parent_collective_id = EXCLUDED.parent_collective_id,
			location_name = EXCLUDED.location_name,
			location_address = EXCLUDED.location_address,
			imported_at = NOW(),
			raw_json = EXCLUDED.raw_json
	`
	if _, err = tx.NamedExecContext(ctx, query, newEvent(event, rawJSON)); err != nil {
		return fmt.Errorf("failed to create or update event: %w", err)
	}

	if len(event.Tiers) > 0 {
		query = `
			INSERT INTO tiers (id, event_id, name, type, amount, single_amount, interval, max_quantity)
			VALUES (:id, :event_id, :name, :type, :amount, :single_amount, :interval, :max_quantity)
			ON CONFLICT (id) DO UPDATE SET
				event_id = EXCLUDED.event_id,
				name = EXCLUDED.name,
				type = EXCLUDED.type,
				amount = EXCLUDED.amount,
				single_amount = EXCLUDED.single_amount,
				interval = EXCLUDED.interval,
				max_quantity = EXCLUDED.max_quantity
		`
		if _, err = tx.NamedExecContext(ctx, query, newTiers(event)); err != nil {
			return fmt.Errorf("failed to create or update tiers: %w", err)
		}
	}

	if len(event.Members) > 0 {
		query = `
			INSERT INTO event_members (id, event_id, role, collective_id, created_at)
			VALUES (:id, :event_id, :role, :collective_id, :created_at)
			ON CONFLICT (id) DO UPDATE SET
				event_id = EXCLUDED.event_id,
				role = EXCLUDED.role,
				collective_id = EXCLUDED.collective_id,
				created_at = EXCLUDED.created_at
		`
		if _, err = tx.NamedExecContext(ctx, query, newMembers(event)); err != nil {
			return fmt.Errorf("failed to create or update event members: %w", err)
		}
	}

	if len(event.Orders) > 0 {
		query = `
			INSERT INTO orders (id, event_id, created_at, quantity, total_amount, currency, from_collective_id, tier_id)
			VALUES (:id, :event_id, :created_at, :quantity, :total_amount, :currency, :from_collective_id, :tier_id)
			ON CONFLICT (id) DO UPDATE SET
				event_id = EXCLUDED.event_id,
				created_at = EXCLUDED.created_at,
				quantity = EXCLUDED.quantity,
				total_amount = EXCLUDED.total_amount,
				currency = EXCLUDED.currency,
				from_collective_id = EXCLUDED.from_collective_id,
				tier_id = EXCLUDED.tier_id
		`
		if _, err = tx.NamedExecContext(ctx, query, newOrders(event)); err != nil {
			return fmt.Errorf("failed to create or update orders: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (d *Database) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	var event Event
	if err := d.db.GetContext(ctx, &event, "SELECT * FROM events WHERE id = $1", eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

func (d *Database) GetEvents(ctx context.Context) ([]Event, error) {
	query := `
		SELECT * FROM events
		ORDER BY starts_at DESC, name DESC
	`

	var events []Event
	if err := d.db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return events, nil
}

// GetEventAggregate rebuilds the full event aggregate from storage. Records
// whose collective reference no longer resolves come back with a nil
// reference, so classification still skips and reports them.
func (d *Database) GetEventAggregate(ctx context.Context, eventID int64) (*collective.Event, error) {
	row, err := d.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var tiers []Tier
	if err = d.db.SelectContext(ctx, &tiers, "SELECT * FROM tiers WHERE event_id = $1 ORDER BY id", eventID); err != nil {
		return nil, fmt.Errorf("failed to get tiers: %w", err)
	}

	var members []Member
	if err = d.db.SelectContext(ctx, &members, "SELECT * FROM event_members WHERE event_id = $1 ORDER BY id", eventID); err != nil {
		return nil, fmt.Errorf("failed to get event members: %w", err)
	}

	var orders []Order
	if err = d.db.SelectContext(ctx, &orders, "SELECT * FROM orders WHERE event_id = $1 ORDER BY created_at, id", eventID); err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	var collectiveIDs []int64
	if row.ParentCollectiveID.Valid {
		collectiveIDs = append(collectiveIDs, row.ParentCollectiveID.Int64)
	}
	for _, member := range members {
		if member.CollectiveID.Valid {
			collectiveIDs = append(collectiveIDs, member.CollectiveID.Int64)
		}
	}
	for _, order := range orders {
		if order.FromCollectiveID.Valid {
			collectiveIDs = append(collectiveIDs, order.FromCollectiveID.Int64)
		}
	}

	collectives, err := d.GetCollectives(ctx, collectiveIDs)
	if err != nil {
		return nil, err
	}
	collectivesByID := make(map[int64]Collective, len(collectives))
	for _, c := range collectives {
		collectivesByID[c.ID] = c
	}

	return assembleEvent(*row, tiers, members, orders, collectivesByID), nil
}

func newEvent(event collective.Event, rawJSON json.RawMessage) Event {
	row := Event{
		ID:              event.ID,
		Name:            event.Name,
		Slug:            event.Slug,
		Description:     event.Description,
		LongDescription: event.LongDescription,
		StartsAt:        event.StartsAt,
		Currency:        event.Currency,
		Balance:         event.Stats.Balance,
		BackgroundImage: event.BackgroundImage,
		RawJSON:         rawJSON,
	}
	if !event.EndsAt.IsZero() {
		row.EndsAt = sql.NullTime{Time: event.EndsAt, Valid: true}
	}
	if event.ParentCollective != nil {
		row.ParentCollectiveID = sql.NullInt64{Int64: event.ParentCollective.ID, Valid: true}
	}
	if event.Location != nil {
		row.LocationName = event.Location.Name
		row.LocationAddress = event.Location.Address
	}
	return row
}

func newTiers(event collective.Event) []Tier {
	tiers := make([]Tier, 0, len(event.Tiers))
	for _, tier := range event.Tiers {
		tiers = append(tiers, Tier{
			ID:           tier.ID,
			EventID:      event.ID,
			Name:         tier.Name,
			Type:         tier.Type,
			Amount:       tier.Amount,
			SingleAmount: tier.SingleAmount,
			Interval:     tier.Interval,
			MaxQuantity:  tier.MaxQuantity,
		})
	}
	return tiers
}

func newMembers(event collective.Event) []Member {
	members := make([]Member, 0, len(event.Members))
	for _, member := range event.Members {
		row := Member{
			ID:        member.ID,
			EventID:   event.ID,
			Role:      member.Role,
			CreatedAt: member.CreatedAt,
		}
		if member.Member != nil {
			row.CollectiveID = sql.NullInt64{Int64: member.Member.ID, Valid: true}
		}
		members = append(members, row)
	}
	return members
}

func newOrders(event collective.Event) []Order {
	orders := make([]Order, 0, len(event.Orders))
	for _, order := range event.Orders {
		row := Order{
			ID:          order.ID,
			EventID:     event.ID,
			CreatedAt:   order.CreatedAt,
			Quantity:    order.Quantity,
			TotalAmount: order.TotalAmount,
			Currency:    order.Currency,
		}
		if order.FromCollective != nil {
			row.FromCollectiveID = sql.NullInt64{Int64: order.FromCollective.ID, Valid: true}
		}
		if order.Tier != nil {
			row.TierID = sql.NullInt64{Int64: order.Tier.ID, Valid: true}
		}
		orders = append(orders, row)
	}
	return orders
}

func referencedCollectives(event collective.Event) []Collective {
	seen := make(map[int64]struct{})
	var collectives []Collective

	add := func(c *collective.Collective) {
		if c == nil {
			return
		}
		if _, ok := seen[c.ID]; ok {
			return
		}
		seen[c.ID] = struct{}{}
		collectives = append(collectives, Collective{
			ID:              c.ID,
			Type:            c.Type,
			Name:            c.Name,
			Slug:            c.Slug,
			ImageURL:        c.ImageURL,
			BackgroundImage: c.BackgroundImage,
			Tags:            c.Tags,
		})
	}

	add(event.ParentCollective)
	for _, member := range event.Members {
		add(member.Member)
	}
	for _, order := range event.Orders {
		add(order.FromCollective)
	}

	return collectives
}

func assembleEvent(row Event, tiers []Tier, members []Member, orders []Order, collectivesByID map[int64]Collective) *collective.Event {
	event := &collective.Event{
		ID:              row.ID,
		Name:            row.Name,
		Slug:            row.Slug,
		Description:     row.Description,
		LongDescription: row.LongDescription,
		StartsAt:        row.StartsAt,
		Currency:        row.Currency,
		BackgroundImage: row.BackgroundImage,
		Stats: collective.EventStats{
			Balance: row.Balance,
		},
	}
	if row.EndsAt.Valid {
		event.EndsAt = row.EndsAt.Time
	}
	if row.ParentCollectiveID.Valid {
		event.ParentCollective = lookupCollective(collectivesByID, row.ParentCollectiveID)
	}
	if row.LocationName != "" || row.LocationAddress != "" {
		event.Location = &collective.Location{
			Name:    row.LocationName,
			Address: row.LocationAddress,
		}
	}

	tiersByID := make(map[int64]collective.Tier, len(tiers))
	for _, tier := range tiers {
		t := collective.Tier{
			ID:           tier.ID,
			Name:         tier.Name,
			Type:         tier.Type,
			Amount:       tier.Amount,
			SingleAmount: tier.SingleAmount,
			Interval:     tier.Interval,
			MaxQuantity:  tier.MaxQuantity,
		}
		tiersByID[tier.ID] = t
		event.Tiers = append(event.Tiers, t)
	}

	for _, member := range members {
		event.Members = append(event.Members, collective.Member{
			ID:        member.ID,
			Role:      member.Role,
			CreatedAt: member.CreatedAt,
			Member:    lookupCollective(collectivesByID, member.CollectiveID),
		})
	}

	for _, order := range orders {
		o := collective.Order{
			ID:             order.ID,
			CreatedAt:      order.CreatedAt,
			Quantity:       order.Quantity,
			TotalAmount:    order.TotalAmount,
			Currency:       order.Currency,
			FromCollective: lookupCollective(collectivesByID, order.FromCollectiveID),
		}
		if order.TierID.Valid {
			if tier, ok := tiersByID[order.TierID.Int64]; ok {
				o.Tier = &tier
			}
		}
		event.Orders = append(event.Orders, o)
	}

	return event
}

func lookupCollective(collectivesByID map[int64]Collective, id sql.NullInt64) *collective.Collective {
	if !id.Valid {
		return nil
	}
	c, ok := collectivesByID[id.Int64]
	if !ok {
		return nil
	}
	return &collective.Collective{
		ID:              c.ID,
		Type:            c.Type,
		Name:            c.Name,
		Slug:            c.Slug,
		ImageURL:        c.ImageURL,
		BackgroundImage: c.BackgroundImage,
		Tags:            c.Tags,
	}
}
