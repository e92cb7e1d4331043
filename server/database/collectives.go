package database

import (
	"context"
	"fmt"

	"github.com/lib/pq"
)

func (d *Database) InsertCollectives(ctx context.Context, collectives []Collective) error {
	if len(collectives) == 0 {
		return nil
	}

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

	if _, err := d.db.NamedExecContext(ctx, query, collectives); err != nil {
		return fmt.Errorf("failed to create or update collectives: %w", err)
	}

	return nil
}

func (d *Database) GetCollective(ctx context.Context, collectiveID int64) (*Collective, error) {
	var c Collective
	if err := d.db.GetContext(ctx, &c, "SELECT * FROM collectives WHERE id = $1", collectiveID); err != nil {
		return nil, fmt.Errorf("failed to get collective: %w", err)
	}

	return &c, nil
}

func (d *Database) GetCollectives(ctx context.Context, collectiveIDs []int64) ([]Collective, error) {
	if len(collectiveIDs) == 0 {
		return nil, nil
	}

	var collectives []Collective
	if err := d.db.SelectContext(ctx, &collectives, "SELECT * FROM collectives WHERE id = ANY($1)", pq.Array(collectiveIDs)); err != nil {
		return nil, fmt.Errorf("failed to get collectives: %w", err)
	}

	return collectives, nil
}
