// Package zone implements the folder-zone resolution service (C11):
// loading a source's explicit folder->zone mappings and resolving the
// effective zone for any path by nearest-ancestor lookup, with a read
// cache since lookups are overwhelmingly read-mostly.
package zone

import (
	"context"
	"path"
	"strings"
	"sync"

	lru "github.com/golang/groupcache/lru"
)

// Zone is one of the fixed classification buckets a folder can carry.
type Zone string

const (
	ZoneMedia     Zone = "MEDIA"
	ZoneDocuments Zone = "DOCUMENTS"
	ZoneBooks     Zone = "BOOKS"
	ZoneSoftware  Zone = "SOFTWARE"
	ZoneBackup    Zone = "BACKUP"
	ZoneCode      Zone = "CODE"
	ZoneUnknown   Zone = "UNKNOWN"
)

// Resolution is the result of resolving a path's effective zone.
type Resolution struct {
	Zone        Zone
	IsInherited bool
}

// Store is the persistence boundary the service reads explicit zone rows
// from and writes them to.
type Store interface {
	LoadAll(ctx context.Context, sourceID string) ([]FolderZoneRow, error)
	Set(ctx context.Context, sourceID, folderPath, zone string) error
}

// FolderZoneRow is a single explicit (sourceId, folderPath) -> zone row.
type FolderZoneRow struct {
	FolderPath string
	Zone       string
}

// Service resolves effective zones for a source, caching each source's
// zone map (it changes only on explicit user action) behind an LRU of
// bounded size so a long-running server doesn't keep every source's full
// map resident forever.
type Service struct {
	store Store

	mu    sync.Mutex
	cache *lru.Cache
}

const defaultCacheEntries = 256

// NewService constructs a Service backed by store.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		cache: lru.New(defaultCacheEntries),
	}
}

// loadFolderZones returns a source's explicit folder->zone mapping,
// populating the cache on a miss.
func (s *Service) loadFolderZones(ctx context.Context, sourceID string) (map[string]Zone, error) {
	s.mu.Lock()
	if cached, ok := s.cache.Get(sourceID); ok {
		s.mu.Unlock()
		return cached.(map[string]Zone), nil
	}
	s.mu.Unlock()

	rows, err := s.store.LoadAll(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	zones := make(map[string]Zone, len(rows))
	for _, row := range rows {
		zones[normalize(row.FolderPath)] = Zone(row.Zone)
	}

	s.mu.Lock()
	s.cache.Add(sourceID, zones)
	s.mu.Unlock()

	return zones, nil
}

// GetZoneForFolder resolves folderPath's effective zone for a source using
// longest-prefix (nearest-ancestor) match against the source's explicit
// zone map. Returns ok=false when no ancestor (including folderPath
// itself) carries an explicit zone.
func (s *Service) GetZoneForFolder(ctx context.Context, sourceID, folderPath string) (Resolution, bool, error) {
	zones, err := s.loadFolderZones(ctx, sourceID)
	if err != nil {
		return Resolution{}, false, err
	}

	candidate := normalize(folderPath)
	for {
		if zone, ok := zones[candidate]; ok {
			return Resolution{Zone: zone, IsInherited: candidate != normalize(folderPath)}, true, nil
		}
		if candidate == "/" || candidate == "." || candidate == "" {
			return Resolution{}, false, nil
		}
		candidate = parent(candidate)
	}
}

// SetFolderZone upserts folderPath's explicit zone for a source and
// invalidates that source's cached map; inheritance for descendants is
// always computed at read time, so no descendant rows are touched.
func (s *Service) SetFolderZone(ctx context.Context, sourceID, folderPath string, zone Zone) error {
	if err := s.store.Set(ctx, sourceID, normalize(folderPath), string(zone)); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache.Remove(sourceID)
	s.mu.Unlock()

	return nil
}

func normalize(folderPath string) string {
	cleaned := path.Clean(strings.ReplaceAll(folderPath, "\\", "/"))
	if cleaned == "." {
		return "/"
	}
	return cleaned
}

func parent(folderPath string) string {
	p := path.Dir(folderPath)
	return p
}
