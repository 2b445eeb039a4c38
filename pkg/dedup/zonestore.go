package dedup

import (
	"context"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/zone"
)

// zoneStore adapts catalog.ZoneRepository to the zone.Store interface, the
// only translation needed since the two packages intentionally don't
// import each other.
type zoneStore struct {
	repo *catalog.ZoneRepository
}

func (z *zoneStore) LoadAll(ctx context.Context, sourceID string) ([]zone.FolderZoneRow, error) {
	rows, err := z.repo.LoadAll(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	out := make([]zone.FolderZoneRow, len(rows))
	for i, row := range rows {
		out[i] = zone.FolderZoneRow{FolderPath: row.FolderPath, Zone: row.Zone}
	}
	return out, nil
}

func (z *zoneStore) Set(ctx context.Context, sourceID, folderPath, zoneName string) error {
	return z.repo.Set(ctx, sourceID, folderPath, zoneName)
}
