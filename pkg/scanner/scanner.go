// Package scanner implements the scan orchestrator (C6): it drives the
// walker, hash pool, metadata extractor, physical-id probe, and project
// detector chain over a root path and writes the resulting output tree to
// disk, ready for the uploader to replay against a server.
package scanner

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/archivum/archivum/pkg/archivum"
	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/configuration"
	"github.com/archivum/archivum/pkg/hashing"
	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/metadata"
	"github.com/archivum/archivum/pkg/physicalid"
	"github.com/archivum/archivum/pkg/platform/terminal"
	"github.com/archivum/archivum/pkg/project"
	"github.com/archivum/archivum/pkg/walker"
)

// Options controls a single scan run. Threads and BatchSize, if non-zero,
// override the loaded configuration (CLI flags take precedence over both
// the config file and the environment).
type Options struct {
	RootPath        string
	SourceName      string
	SourceType      string
	OutputDirectory string
	ConfigPath      string
	Threads         int
	BatchSize       int
	DetectProjects  bool
	// Progress, if non-nil, is invoked after every file is processed with the
	// running count and the total file count discovered by the walk.
	Progress func(processed, total int)
}

// Result summarizes a completed run for the caller (the CLI).
type Result struct {
	SourceID     string
	TotalFiles   int64
	TotalSize    int64
	TotalBatches int
	Errors       int
}

// Run executes the full scan sequence described by the orchestrator
// contract: load config, validate the root, build the Source, walk the
// tree, hash and extract metadata for every file in order, flush numbered
// batches, write the summary, and optionally run project detection.
func Run(opts Options, logger *logging.Logger) (*Result, error) {
	config, err := configuration.LoadScanner(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration: %w", err)
	}
	if opts.Threads > 0 {
		config.HashThreads = opts.Threads
	}
	if opts.BatchSize > 0 {
		config.BatchSize = opts.BatchSize
	}

	info, err := os.Stat(opts.RootPath)
	if err != nil {
		return nil, fmt.Errorf("root path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", opts.RootPath)
	}

	sourceID := uuid.New().String()
	sourceDir := filepath.Join(opts.OutputDirectory, sourceID)
	filesDir := filepath.Join(sourceDir, "files")

	if err := os.MkdirAll(filesDir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	startTime := time.Now()

	bundle, err := physicalid.Probe(opts.RootPath)
	if err != nil {
		return nil, fmt.Errorf("unable to probe physical id: %w", err)
	}

	sourceName := opts.SourceName
	if sourceName == "" {
		sourceName = filepath.Base(opts.RootPath)
	}

	source := models.SourceDto{
		ID:         sourceID,
		Name:       sourceName,
		Type:       opts.SourceType,
		RootPath:   opts.RootPath,
		Status:     "SCANNING",
		PhysicalID: physicalIDDto(bundle),
		CreatedAt:  startTime,
	}

	walked, err := walker.Walk(opts.RootPath, walker.Config{
		SkipSystemDirs:  config.SkipSystemDirs,
		ExcludePatterns: config.ExcludePatterns,
		FollowSymlinks:  config.FollowSymlinks,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("unable to walk root path: %w", err)
	}

	source.TotalFiles = int64(len(walked.Files))
	source.TotalSize = walked.TotalSize

	pool := hashing.NewPool(config.HashThreads)
	defer pool.Close()

	seenHashes := make(map[string]bool)
	pathHashes := make(map[string]string)

	writer := newBatchWriter(filesDir, sourceID, config.BatchSize)
	summary := &models.SummaryDto{
		SourceID:       sourceID,
		ScannerVersion: archivum.Version,
	}

	for i, file := range walked.Files {
		record, hashErr := processFile(pool, file, config.ExtractExif, seenHashes)
		if hashErr != nil {
			summary.Errors = append(summary.Errors, models.ScanErrorDto{File: file.Path, Error: hashErr.Error()})
			logger.Warn(fmt.Errorf("%s: %w", terminal.NeutralizeControlCharacters(file.Path), hashErr))
			if opts.Progress != nil {
				opts.Progress(i+1, len(walked.Files))
			}
			continue
		}

		pathHashes[file.Path] = record.SHA256
		seenHashes[record.SHA256] = true

		summary.TotalFiles++
		summary.TotalSize += record.Size
		source.ProcessedFiles++
		source.ProcessedSize += record.Size

		if opts.Progress != nil {
			opts.Progress(i+1, len(walked.Files))
		}

		if err := writer.append(toFileDto(sourceID, record)); err != nil {
			return nil, fmt.Errorf("unable to write batch: %w", err)
		}
	}

	if err := writer.flushFinal(); err != nil {
		return nil, fmt.Errorf("unable to flush final batch: %w", err)
	}

	if opts.DetectProjects {
		if err := writeCodeProjects(sourceDir, sourceID, opts.RootPath, pathHashes); err != nil {
			logger.Warn(fmt.Errorf("unable to detect projects: %w", err))
		}
	}

	endTime := time.Now()
	summary.StartTime = startTime
	summary.EndTime = endTime
	summary.DurationMS = endTime.Sub(startTime).Milliseconds()
	summary.ScannerHost = hostname()
	summary.ScannerUser = username()

	if err := writeJSON(filepath.Join(sourceDir, "source.json"), source); err != nil {
		return nil, fmt.Errorf("unable to write source: %w", err)
	}
	if err := writeJSON(filepath.Join(sourceDir, "summary.json"), summary); err != nil {
		return nil, fmt.Errorf("unable to write summary: %w", err)
	}

	return &Result{
		SourceID:     sourceID,
		TotalFiles:   summary.TotalFiles,
		TotalSize:    summary.TotalSize,
		TotalBatches: writer.batchCount,
		Errors:       len(summary.Errors),
	}, nil
}

// processFile hashes and extracts metadata for a single file, marking
// isDuplicate when its digest has already been observed earlier in this
// scan (an intra-scan hint only; authoritative dedup happens at ingest).
func processFile(pool *hashing.Pool, file walker.File, wantExif bool, seenHashes map[string]bool) (*metadata.Record, error) {
	future := pool.Submit(file.Path, nil)
	digest, err := future.Wait()
	if err != nil {
		return nil, err
	}

	created, modified, accessed, err := metadata.Stat(file.Path)
	if err != nil {
		return nil, err
	}

	record, err := metadata.Extract(file.Path, digest, file.Size, created, modified, accessed, wantExif)
	if err != nil {
		return nil, err
	}

	record.IsDuplicate = seenHashes[digest]

	return record, nil
}

func writeCodeProjects(outputDir, sourceID, root string, hashes map[string]string) error {
	chain := project.DefaultChain()
	projects, err := project.Scan(root, chain, hashes)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		return nil
	}

	dtos := make([]models.CodeProjectDto, 0, len(projects))
	now := time.Now()
	for _, p := range projects {
		dtos = append(dtos, models.CodeProjectDto{
			ID:              uuid.New().String(),
			SourceID:        sourceID,
			RootPath:        p.RootPath,
			ProjectType:     p.Identity.Type,
			Name:            p.Identity.Name,
			Version:         optionalString(p.Identity.Version),
			GroupID:         optionalString(p.Identity.GroupID),
			GitRemote:       optionalString(p.Identity.GitRemote),
			GitBranch:       optionalString(p.Identity.GitBranch),
			GitCommit:       optionalString(p.Identity.GitCommit),
			Identifier:      p.Identity.Identifier,
			ContentHash:     p.ContentHash,
			SourceFileCount:  p.SourceFileCount,
			TotalFileCount:   p.TotalFileCount,
			TotalSizeBytes:   p.TotalSizeBytes,
			ScannedAt:        now,
			SourceFileHashes: p.SourceFileHashes,
		})
	}

	return writeJSON(filepath.Join(outputDir, "code-projects.json"), dtos)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func physicalIDDto(bundle *physicalid.Bundle) models.PhysicalIDDto {
	return models.PhysicalIDDto{
		MountPoint:    bundle.MountPoint,
		Filesystem:    bundle.Filesystem,
		CapacityBytes: bundle.CapacityBytes,
		UsedBytes:     bundle.UsedBytes,
		VolumeLabel:   bundle.VolumeLabel,
		DiskUUID:      bundle.DiskUUID,
		PartitionUUID: bundle.PartitionUUID,
		SerialNumber:  bundle.SerialNumber,
		PhysicalLabel: bundle.PhysicalLabel,
		Notes:         bundle.Notes,
	}
}

func toFileDto(sourceID string, record *metadata.Record) models.FileDto {
	dto := models.FileDto{
		ID:          uuid.New().String(),
		SourceID:    sourceID,
		Path:        record.Path,
		Name:        record.Name,
		Extension:   record.Extension,
		Size:        record.Size,
		SHA256:      record.SHA256,
		MimeType:    record.MimeType,
		CreatedAt:   record.CreatedAt,
		ModifiedAt:  record.ModifiedAt,
		AccessedAt:  record.AccessedAt,
		ScannedAt:   record.ScannedAt,
		Status:      string(record.Status),
		IsDuplicate: record.IsDuplicate,
	}
	if record.EXIF != nil {
		dto.EXIF = &models.EXIFDto{
			CameraModel: record.EXIF.CameraModel,
			TakenAt:     record.EXIF.TakenAt,
			Latitude:    record.EXIF.Latitude,
			Longitude:   record.EXIF.Longitude,
		}
	}
	return dto
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

func username() string {
	u, err := user.Current()
	if err != nil {
		return "unknown"
	}
	return u.Username
}
