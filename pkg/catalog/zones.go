package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ZoneRepository persists FolderZone rows. Inheritance is never computed
// here; this repository only stores the explicit rows a user set, and the
// zone service resolves nearest-ancestor lookups at read time.
type ZoneRepository struct {
	db *sqlx.DB
}

// LoadAll returns every explicit folder-zone mapping for a source.
func (r *ZoneRepository) LoadAll(ctx context.Context, sourceID string) ([]FolderZone, error) {
	var zones []FolderZone
	const query = `SELECT * FROM folder_zones WHERE source_id = $1`
	if err := r.db.SelectContext(ctx, &zones, query, sourceID); err != nil {
		return nil, fmt.Errorf("unable to load folder zones: %w", err)
	}
	return zones, nil
}

// Set upserts a single folder's zone. It never touches any other row;
// inheritance for descendant folders is always computed at read time.
func (r *ZoneRepository) Set(ctx context.Context, sourceID, folderPath, zone string) error {
	const query = `
		INSERT INTO folder_zones (source_id, folder_path, zone)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id, folder_path) DO UPDATE SET
			zone = EXCLUDED.zone,
			updated_at = now()`
	if _, err := r.db.ExecContext(ctx, query, sourceID, folderPath, zone); err != nil {
		return fmt.Errorf("unable to set folder zone: %w", err)
	}
	return nil
}
