// Package dedup implements the dedup engine (C10): file-level duplicate
// grouping over the hashes a freshly completed source introduced, and
// code-project-level classification (EXACT / SAME_PROJECT_DIFF_CONTENT /
// DIFFERENT_VERSION) over projects sharing an identifier or name.
package dedup

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/contextutil"
	"github.com/archivum/archivum/pkg/lock"
	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/zone"
)

// Engine reconciles a source's scanned files and code projects into
// duplicate groupings once its scan completes.
type Engine struct {
	store  *catalog.Store
	zones  *zone.Service
	locks  *lock.KeyedMutex
	logger *logging.Logger
}

// New constructs an Engine over store, building its own zone.Service so
// that pkg/catalog and pkg/zone never need to import each other. locks is
// shared with the ingest service so that ingestBatch, completeScan, and
// dedup reconciliation for a given source all serialize against the same
// per-source lock, per the concurrency model's shared-resource policy.
func New(store *catalog.Store, locks *lock.KeyedMutex, logger *logging.Logger) *Engine {
	return &Engine{
		store:  store,
		zones:  zone.NewService(&zoneStore{repo: store.Zones}),
		locks:  locks,
		logger: logger,
	}
}

// zoneGatedZones are the zones where file-level dedup never applies; these
// folders dedup only at the folder/project granularity a human curates
// separately.
var zoneGatedZones = map[zone.Zone]bool{
	zone.ZoneSoftware: true,
	zone.ZoneBackup:   true,
	zone.ZoneCode:     true,
}

// ReconcileSource runs both the file-level and code-project-level
// reconciliation passes for a source that has just completed scanning. The
// whole reconciliation for a source is serialized against itself (a second
// completeScan for the same source, or a concurrent folder-zone edit that
// triggers re-reconciliation, never races with itself) via a source-scoped
// lock.
func (e *Engine) ReconcileSource(ctx context.Context, sourceID string) error {
	e.logger.Debugf("reconciling source %s", sourceID)

	var outerErr error
	e.locks.WithLock(sourceID, func() {
		if err := e.reconcileFiles(ctx, sourceID); err != nil {
			outerErr = fmt.Errorf("file-level reconciliation: %w", err)
			return
		}
		if err := e.reconcileProjects(ctx, sourceID); err != nil {
			outerErr = fmt.Errorf("code-project reconciliation: %w", err)
			return
		}
	})
	if outerErr != nil {
		e.logger.Warn(outerErr)
	}
	return outerErr
}

// reconcileFiles implements the §4.10 file-level rule: for every hash this
// source introduced with member_count now greater than one, upsert a
// DuplicateGroup and mark every member but the kept one DUPLICATE, subject
// to the zone gate.
func (e *Engine) reconcileFiles(ctx context.Context, sourceID string) error {
	hashes, err := e.store.Files.ListDistinctSHA256BySource(ctx, sourceID)
	if err != nil {
		return err
	}

	for _, sha := range hashes {
		if contextutil.IsCancelled(ctx) {
			return ctx.Err()
		}
		if err := e.reconcileHash(ctx, sha); err != nil {
			return fmt.Errorf("hash %s: %w", sha, err)
		}
	}
	return nil
}

func (e *Engine) reconcileHash(ctx context.Context, sha256 string) error {
	hash, err := e.store.Hashes.Get(ctx, sha256)
	if err != nil {
		return err
	}
	if hash.MemberCount < 2 {
		return nil
	}

	members, err := e.store.Files.ListBySHA256(ctx, sha256)
	if err != nil {
		return err
	}

	eligible := make([]catalog.ScannedFile, 0, len(members))
	for _, m := range members {
		gated, err := e.fileIsZoneGated(ctx, m)
		if err != nil {
			return err
		}
		if !gated {
			eligible = append(eligible, m)
		}
	}

	if len(eligible) < 2 {
		// Either every collision is zone-gated or the real fan-out dropped
		// below two once gating is applied; no group applies here, and any
		// group previously created for this hash is now stale.
		tx, err := e.store.DB.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("unable to begin transaction: %w", err)
		}
		defer tx.Rollback()

		if err := e.store.Duplicates.DeleteBySHA256(ctx, tx, sha256); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("unable to commit duplicate group deletion: %w", err)
		}

		for _, m := range members {
			if m.IsDuplicate {
				if err := e.store.Files.MarkDuplicate(ctx, m.ID, false); err != nil {
					return err
				}
			}
		}
		return nil
	}

	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].ScannedAt.Equal(eligible[j].ScannedAt) {
			return eligible[i].ScannedAt.Before(eligible[j].ScannedAt)
		}
		return eligible[i].ID < eligible[j].ID
	})

	keptFileID := eligible[0].ID
	wastedSize := hash.Size * int64(len(eligible)-1)

	tx, err := e.store.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer tx.Rollback()

	group, err := e.store.Duplicates.Upsert(ctx, tx, uuid.New().String(), sha256, keptFileID, wastedSize)
	if err != nil {
		return err
	}
	if group.KeptFileID.Valid {
		keptFileID = group.KeptFileID.String
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit duplicate group: %w", err)
	}

	for _, m := range eligible {
		if err := e.store.Files.MarkDuplicate(ctx, m.ID, m.ID != keptFileID); err != nil {
			return err
		}
	}

	return nil
}

// fileIsZoneGated reports whether file's effective zone exempts it from
// file-level dedup (§4.10's zone gate).
func (e *Engine) fileIsZoneGated(ctx context.Context, file catalog.ScannedFile) (bool, error) {
	folder := folderOf(file.Path)
	resolution, found, err := e.zones.GetZoneForFolder(ctx, file.SourceID, folder)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	return zoneGatedZones[resolution.Zone], nil
}

func folderOf(path string) string {
	idx := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}
