package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

type Collective struct {
	ID              int64          `db:"id"`
	Type            string         `db:"type"`
	Name            string         `db:"name"`
	Slug            string         `db:"slug"`
	ImageURL        string         `db:"image_url"`
	BackgroundImage string         `db:"background_image"`
	Tags            pq.StringArray `db:"tags"`
	ImportedAt      time.Time      `db:"imported_at"`
}

type Event struct {
	ID                 int64           `db:"id"`
	Name               string          `db:"name"`
	Slug               string          `db:"slug"`
	Description        string          `db:"description"`
	LongDescription    string          `db:"long_description"`
	StartsAt           time.Time       `db:"starts_at"`
	EndsAt             sql.NullTime    `db:"ends_at"`
	Currency           string          `db:"currency"`
	Balance            int64           `db:"balance"`
	BackgroundImage    string          `db:"background_image"`
	ParentCollectiveID sql.NullInt64   `db:"parent_collective_id"`
	LocationName       string          `db:"location_name"`
	LocationAddress    string          `db:"location_address"`
	ImportedAt         time.Time       `db:"imported_at"`
	RawJSON            json.RawMessage `db:"raw_json"`
}

type Tier struct {
	ID           int64  `db:"id"`
	EventID      int64  `db:"event_id"`
	Name         string `db:"name"`
	Type         string `db:"type"`
	Amount       int64  `db:"amount"`
	SingleAmount int64  `db:"single_amount"`
	Interval     string `db:"interval"`
	MaxQuantity  int    `db:"max_quantity"`
}

type Member struct {
	ID           int64         `db:"id"`
	EventID      int64         `db:"event_id"`
	Role         string        `db:"role"`
	CollectiveID sql.NullInt64 `db:"collective_id"`
	CreatedAt    time.Time     `db:"created_at"`
}

type Order struct {
	ID               int64         `db:"id"`
	EventID          int64         `db:"event_id"`
	CreatedAt        time.Time     `db:"created_at"`
	Quantity         int           `db:"quantity"`
	TotalAmount      int64         `db:"total_amount"`
	Currency         string        `db:"currency"`
	FromCollectiveID sql.NullInt64 `db:"from_collective_id"`
	TierID           sql.NullInt64 `db:"tier_id"`
}
