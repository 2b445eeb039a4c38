package foldertree

import (
	"context"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/zone"
)

// ZoneStore adapts catalog.ZoneRepository to the zone.Store interface so
// that a server wiring up a Builder doesn't need its own zone.Service
// construction boilerplate.
type ZoneStore struct {
	Repo *catalog.ZoneRepository
}

func (z ZoneStore) LoadAll(ctx context.Context, sourceID string) ([]zone.FolderZoneRow, error) {
	rows, err := z.Repo.LoadAll(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	out := make([]zone.FolderZoneRow, len(rows))
	for i, row := range rows {
		out[i] = zone.FolderZoneRow{FolderPath: row.FolderPath, Zone: row.Zone}
	}
	return out, nil
}

func (z ZoneStore) Set(ctx context.Context, sourceID, folderPath, zoneName string) error {
	return z.Repo.Set(ctx, sourceID, folderPath, zoneName)
}
