// Package ingest implements the ingest service (C9): the server-side entry
// points the uploader replays against — createSource, ingestBatch,
// completeScan, ingestCodeProjects — each serialized per source (and, for
// hash resolution, per hash) so that concurrent uploads from independent
// sources never contend, while operations on the same source always
// observe a consistent view.
package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/archivumerrors"
	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/dedup"
	"github.com/archivum/archivum/pkg/lock"
)

// Service implements the Ingest Service contract over a catalog Store and
// triggers Dedup Engine reconciliation when a scan completes.
type Service struct {
	store      *catalog.Store
	dedup      *dedup.Engine
	sourceLock *lock.KeyedMutex
	hashLock   *lock.KeyedMutex
}

// New constructs a Service. locks is the KeyedMutex shared with the Dedup
// Engine so that ingestBatch, completeScan, and reconciliation for a given
// source never interleave.
func New(store *catalog.Store, dedupEngine *dedup.Engine, locks *lock.KeyedMutex) *Service {
	return &Service{
		store:      store,
		dedup:      dedupEngine,
		sourceLock: locks,
		hashLock:   lock.NewKeyedMutex(),
	}
}

// CreateSource persists a source. Retrying with the same id and identical
// attributes returns the existing record; divergent attributes fail with
// archivumerrors.ErrIngestConflict (surfaced by the caller as HTTP 409).
func (s *Service) CreateSource(ctx context.Context, req models.SourceDto) (*models.SourceDto, error) {
	var outDto *models.SourceDto
	var outErr error

	s.sourceLock.WithLock(req.ID, func() {
		source := sourceFromDto(req)
		created, err := s.store.Sources.Create(ctx, source)
		if err != nil {
			outErr = err
			return
		}
		dto := sourceToDto(created)
		outDto = &dto
	})

	return outDto, outErr
}

// IngestBatch upserts every file record in batch by (sourceId, path). The
// source must exist and be SCANNING; the whole batch commits atomically.
// Hash resolution is serialized per hash, ordered to avoid lock-ordering
// deadlocks across concurrent batches sharing hashes.
func (s *Service) IngestBatch(ctx context.Context, sourceID string, batch models.FileBatchDto) error {
	var outErr error

	s.sourceLock.WithLock(sourceID, func() {
		source, err := s.store.Sources.Get(ctx, sourceID)
		if err != nil {
			outErr = archivumerrors.Wrapf(archivumerrors.ErrNotFound, "source %s not found", sourceID)
			return
		}
		if source.Status != "SCANNING" {
			outErr = archivumerrors.Wrapf(archivumerrors.ErrIngestConflict,
				"source %s is not accepting batches (status %s)", sourceID, source.Status)
			return
		}

		hashes := distinctSortedHashes(batch.Files)
		for _, h := range hashes {
			s.hashLock.Lock(h)
		}
		defer func() {
			for _, h := range hashes {
				s.hashLock.Unlock(h)
			}
		}()

		files := make([]catalog.ScannedFile, 0, len(batch.Files))
		var processedSize int64
		for _, f := range batch.Files {
			files = append(files, fileFromDto(sourceID, f))
			processedSize += f.Size
		}

		if err := s.store.Files.UpsertBatch(ctx, s.store.Hashes, files); err != nil {
			outErr = err
			return
		}

		if err := s.store.Sources.UpdateProgress(ctx, sourceID, int64(len(files)), processedSize); err != nil {
			outErr = err
			return
		}
	})

	return outErr
}

// CompleteScan transitions a source to COMPLETED or FAILED and, on
// success, triggers Dedup Engine reconciliation.
func (s *Service) CompleteScan(ctx context.Context, sourceID string, req models.CompleteScanRequest) error {
	var outErr error

	s.sourceLock.WithLock(sourceID, func() {
		if err := s.store.Sources.Complete(ctx, sourceID, req.TotalFiles, req.TotalSize, req.Success); err != nil {
			outErr = err
		}
	})
	if outErr != nil {
		return outErr
	}
	if !req.Success {
		return nil
	}

	return s.dedup.ReconcileSource(ctx, sourceID)
}

// IngestCodeProjects upserts each project by (sourceId, rootPath). An empty
// list is a legal no-op.
func (s *Service) IngestCodeProjects(ctx context.Context, sourceID string, projects []models.CodeProjectDto) error {
	if len(projects) == 0 {
		return nil
	}

	rows := make([]catalog.CodeProject, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, projectFromDto(sourceID, p))
	}

	var outErr error
	s.sourceLock.WithLock(sourceID, func() {
		outErr = s.store.Projects.UpsertMany(ctx, rows)
	})
	return outErr
}

func distinctSortedHashes(files []models.FileDto) []string {
	seen := make(map[string]bool, len(files))
	var hashes []string
	for _, f := range files {
		if !seen[f.SHA256] {
			seen[f.SHA256] = true
			hashes = append(hashes, f.SHA256)
		}
	}
	sort.Strings(hashes)
	return hashes
}

func sourceFromDto(dto models.SourceDto) *catalog.Source {
	return &catalog.Source{
		ID:             dto.ID,
		Name:           dto.Name,
		Type:           dto.Type,
		RootPath:       dto.RootPath,
		ParentSourceID: optionalNullString(dto.ParentSourceID),
		Status:         dto.Status,
		TotalFiles:     dto.TotalFiles,
		TotalSize:      dto.TotalSize,
		ProcessedFiles: dto.ProcessedFiles,
		ProcessedSize:  dto.ProcessedSize,
		MountPoint:     dto.PhysicalID.MountPoint,
		Filesystem:     dto.PhysicalID.Filesystem,
		CapacityBytes:  dto.PhysicalID.CapacityBytes,
		UsedBytes:      dto.PhysicalID.UsedBytes,
		VolumeLabel:    dto.PhysicalID.VolumeLabel,
		DiskUUID:       optionalNullString(dto.PhysicalID.DiskUUID),
		PartitionUUID:  optionalNullString(dto.PhysicalID.PartitionUUID),
		SerialNumber:   optionalNullString(dto.PhysicalID.SerialNumber),
		PhysicalLabel:  optionalNullString(dto.PhysicalID.PhysicalLabel),
		Notes:          optionalNullString(dto.PhysicalID.Notes),
	}
}

func sourceToDto(source *catalog.Source) models.SourceDto {
	return models.SourceDto{
		ID:             source.ID,
		Name:           source.Name,
		Type:           source.Type,
		RootPath:       source.RootPath,
		ParentSourceID: nullStringPtr(source.ParentSourceID),
		Status:         source.Status,
		TotalFiles:     source.TotalFiles,
		TotalSize:      source.TotalSize,
		ProcessedFiles: source.ProcessedFiles,
		ProcessedSize:  source.ProcessedSize,
		PhysicalID: models.PhysicalIDDto{
			MountPoint:    source.MountPoint,
			Filesystem:    source.Filesystem,
			CapacityBytes: source.CapacityBytes,
			UsedBytes:     source.UsedBytes,
			VolumeLabel:   source.VolumeLabel,
			DiskUUID:      nullStringPtr(source.DiskUUID),
			PartitionUUID: nullStringPtr(source.PartitionUUID),
			SerialNumber:  nullStringPtr(source.SerialNumber),
			PhysicalLabel: nullStringPtr(source.PhysicalLabel),
			Notes:         nullStringPtr(source.Notes),
		},
		CreatedAt: source.CreatedAt,
	}
}

func fileFromDto(sourceID string, dto models.FileDto) catalog.ScannedFile {
	file := catalog.ScannedFile{
		ID:          dto.ID,
		SourceID:    sourceID,
		Path:        dto.Path,
		Name:        dto.Name,
		Extension:   dto.Extension,
		Size:        dto.Size,
		SHA256:      dto.SHA256,
		MimeType:    dto.MimeType,
		CreatedAt:   sql.NullTime{Time: dto.CreatedAt, Valid: !dto.CreatedAt.IsZero()},
		ModifiedAt:  sql.NullTime{Time: dto.ModifiedAt, Valid: !dto.ModifiedAt.IsZero()},
		AccessedAt:  sql.NullTime{Time: dto.AccessedAt, Valid: !dto.AccessedAt.IsZero()},
		ScannedAt:   dto.ScannedAt,
		Status:      dto.Status,
		IsDuplicate: dto.IsDuplicate,
	}

	if dto.EXIF != nil {
		if encoded, err := json.Marshal(dto.EXIF); err == nil {
			file.EXIF = sql.NullString{String: string(encoded), Valid: true}
		}
	}

	return file
}

func projectFromDto(sourceID string, dto models.CodeProjectDto) catalog.CodeProject {
	return catalog.CodeProject{
		ID:               dto.ID,
		SourceID:         sourceID,
		RootPath:         dto.RootPath,
		ProjectType:      dto.ProjectType,
		Name:             dto.Name,
		Version:          optionalNullString(dto.Version),
		GroupID:          optionalNullString(dto.GroupID),
		GitRemote:        optionalNullString(dto.GitRemote),
		GitBranch:        optionalNullString(dto.GitBranch),
		GitCommit:        optionalNullString(dto.GitCommit),
		Identifier:       dto.Identifier,
		ContentHash:      dto.ContentHash,
		SourceFileCount:  dto.SourceFileCount,
		TotalFileCount:   dto.TotalFileCount,
		TotalSizeBytes:   dto.TotalSizeBytes,
		ScannedAt:        dto.ScannedAt,
		SourceFileHashes: dto.SourceFileHashes,
	}
}

func optionalNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
