package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/archivum/archivum/pkg/archivumerrors"
)

// SourceRepository persists Source rows.
type SourceRepository struct {
	db *sqlx.DB
}

// Create inserts source. It is safe to retry: if a row with the same id
// already exists and carries identical name/type/rootPath, the existing
// row is returned unchanged; if the attributes differ, ErrIngestConflict
// is returned.
func (r *SourceRepository) Create(ctx context.Context, source *Source) (*Source, error) {
	existing, err := r.Get(ctx, source.ID)
	if err == nil {
		if existing.Name != source.Name || existing.Type != source.Type || existing.RootPath != source.RootPath {
			return nil, archivumerrors.Wrapf(archivumerrors.ErrIngestConflict,
				"source %s already exists with different attributes", source.ID)
		}
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("unable to look up existing source: %w", err)
	}

	const query = `
		INSERT INTO sources (
			id, name, type, root_path, parent_source_id, status,
			total_files, total_size, processed_files, processed_size,
			mount_point, filesystem, capacity_bytes, used_bytes, volume_label,
			disk_uuid, partition_uuid, serial_number, physical_label, notes
		) VALUES (
			:id, :name, :type, :root_path, :parent_source_id, :status,
			:total_files, :total_size, :processed_files, :processed_size,
			:mount_point, :filesystem, :capacity_bytes, :used_bytes, :volume_label,
			:disk_uuid, :partition_uuid, :serial_number, :physical_label, :notes
		)`

	if _, err := r.db.NamedExecContext(ctx, query, source); err != nil {
		return nil, fmt.Errorf("unable to insert source: %w", err)
	}

	return r.Get(ctx, source.ID)
}

// Get loads a single source by id.
func (r *SourceRepository) Get(ctx context.Context, id string) (*Source, error) {
	var source Source
	if err := r.db.GetContext(ctx, &source, `SELECT * FROM sources WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &source, nil
}

// List returns every source, most recently created first.
func (r *SourceRepository) List(ctx context.Context) ([]Source, error) {
	var sources []Source
	if err := r.db.SelectContext(ctx, &sources, `SELECT * FROM sources ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("unable to list sources: %w", err)
	}
	return sources, nil
}

// Complete transitions a source from SCANNING to COMPLETED or FAILED and
// records its final counters.
func (r *SourceRepository) Complete(ctx context.Context, id string, totalFiles, totalSize int64, success bool) error {
	status := "COMPLETED"
	if !success {
		status = "FAILED"
	}

	const query = `
		UPDATE sources
		SET status = $1, total_files = $2, total_size = $3, updated_at = now()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, status, totalFiles, totalSize, id)
	if err != nil {
		return fmt.Errorf("unable to complete source: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to determine affected rows: %w", err)
	}
	if rows == 0 {
		return archivumerrors.ErrNotFound
	}

	return nil
}

// UpdateProgress advances a source's processed-file/processed-size
// counters, used while an ingest batch is being applied.
func (r *SourceRepository) UpdateProgress(ctx context.Context, id string, processedFiles, processedSize int64) error {
	const query = `
		UPDATE sources
		SET processed_files = processed_files + $1,
		    processed_size = processed_size + $2,
		    updated_at = now()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, processedFiles, processedSize, id)
	if err != nil {
		return fmt.Errorf("unable to update source progress: %w", err)
	}
	return nil
}
