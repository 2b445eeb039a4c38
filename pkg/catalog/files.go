package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FileRepository persists ScannedFile rows.
type FileRepository struct {
	db *sqlx.DB
}

// UpsertBatch inserts or updates every file in files within a single
// transaction, upserting by (source_id, path) and resolving each file's
// hash via HashRepository.FindOrCreate. The whole batch is rejected
// atomically on any error.
func (r *FileRepository) UpsertBatch(ctx context.Context, hashes *HashRepository, files []ScannedFile) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO scanned_files (
			id, source_id, path, name, extension, size, sha256, mime_type,
			created_at, modified_at, accessed_at, scanned_at, exif, status, is_duplicate
		) VALUES (
			:id, :source_id, :path, :name, :extension, :size, :sha256, :mime_type,
			:created_at, :modified_at, :accessed_at, :scanned_at, :exif, :status, :is_duplicate
		)
		ON CONFLICT (source_id, path) DO UPDATE SET
			size = EXCLUDED.size,
			sha256 = EXCLUDED.sha256,
			mime_type = EXCLUDED.mime_type,
			modified_at = EXCLUDED.modified_at,
			accessed_at = EXCLUDED.accessed_at,
			scanned_at = EXCLUDED.scanned_at,
			exif = EXCLUDED.exif,
			status = EXCLUDED.status`

	for i := range files {
		file := &files[i]
		if _, err := hashes.FindOrCreate(ctx, tx, file.SHA256, file.Size); err != nil {
			return fmt.Errorf("unable to resolve hash for %s: %w", file.Path, err)
		}
		if err := hashes.IncrementMemberCount(ctx, tx, file.SHA256, 1); err != nil {
			return err
		}

		if _, err := tx.NamedExecContext(ctx, upsert, file); err != nil {
			return fmt.Errorf("unable to upsert file %s: %w", file.Path, err)
		}
	}

	return tx.Commit()
}

// ListBySource returns a page of a source's files ordered by path, the
// shape the folder tree builder paginates over.
func (r *FileRepository) ListBySource(ctx context.Context, sourceID string, offset, limit int) ([]ScannedFile, error) {
	var files []ScannedFile
	const query = `
		SELECT * FROM scanned_files
		WHERE source_id = $1
		ORDER BY path
		OFFSET $2 LIMIT $3`
	if err := r.db.SelectContext(ctx, &files, query, sourceID, offset, limit); err != nil {
		return nil, fmt.Errorf("unable to list files: %w", err)
	}
	return files, nil
}

// ListBySHA256 returns every file currently sharing a digest, ordered by
// scan time ascending (oldest first, the default "kept" candidate).
func (r *FileRepository) ListBySHA256(ctx context.Context, sha256 string) ([]ScannedFile, error) {
	var files []ScannedFile
	const query = `SELECT * FROM scanned_files WHERE sha256 = $1 ORDER BY scanned_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &files, query, sha256); err != nil {
		return nil, fmt.Errorf("unable to list files by hash: %w", err)
	}
	return files, nil
}

// MarkDuplicate flips is_duplicate/status for a single file.
func (r *FileRepository) MarkDuplicate(ctx context.Context, id string, duplicate bool) error {
	status := "DUPLICATE"
	if !duplicate {
		status = "CLASSIFIED"
	}
	const query = `UPDATE scanned_files SET is_duplicate = $1, status = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, duplicate, status, id)
	if err != nil {
		return fmt.Errorf("unable to mark file duplicate state: %w", err)
	}
	return nil
}

// FileFilter narrows ListFiltered's result set; zero-value fields are
// ignored.
type FileFilter struct {
	SourceID  string
	Extension string
	Status    string
	Page      int
	PageSize  int
}

// ListFiltered returns a page of scanned files matching filter, the query
// backing GET /api/files.
func (r *FileRepository) ListFiltered(ctx context.Context, filter FileFilter) ([]ScannedFile, error) {
	query := `SELECT * FROM scanned_files WHERE 1=1`
	var args []interface{}

	if filter.SourceID != "" {
		args = append(args, filter.SourceID)
		query += fmt.Sprintf(" AND source_id = $%d", len(args))
	}
	if filter.Extension != "" {
		args = append(args, filter.Extension)
		query += fmt.Sprintf(" AND extension = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	page, pageSize := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query += fmt.Sprintf(" ORDER BY path OFFSET $%d LIMIT $%d", len(args), len(args)-1)

	var files []ScannedFile
	if err := r.db.SelectContext(ctx, &files, query, args...); err != nil {
		return nil, fmt.Errorf("unable to list filtered files: %w", err)
	}
	return files, nil
}

// UpdateClassification applies a partial classification/zone update to a
// single file.
func (r *FileRepository) UpdateClassification(ctx context.Context, id string, status *string, isDuplicate *bool) error {
	if status == nil && isDuplicate == nil {
		return nil
	}

	query := `UPDATE scanned_files SET `
	var args []interface{}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf("status = $%d", len(args))
	}
	if isDuplicate != nil {
		if len(args) > 0 {
			query += ", "
		}
		args = append(args, *isDuplicate)
		query += fmt.Sprintf("is_duplicate = $%d", len(args))
	}
	args = append(args, id)
	query += fmt.Sprintf(" WHERE id = $%d", len(args))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("unable to update file classification: %w", err)
	}
	return nil
}

// ListDistinctSHA256BySource returns the distinct set of digests introduced
// by a source's files, the starting point for file-level dedup
// reconciliation after completeScan.
func (r *FileRepository) ListDistinctSHA256BySource(ctx context.Context, sourceID string) ([]string, error) {
	var hashes []string
	const query = `SELECT DISTINCT sha256 FROM scanned_files WHERE source_id = $1`
	if err := r.db.SelectContext(ctx, &hashes, query, sourceID); err != nil {
		return nil, fmt.Errorf("unable to list distinct hashes: %w", err)
	}
	return hashes, nil
}

// CountBySource returns the total number of files cataloged for a source,
// used by the folder tree builder to size its pagination loop.
func (r *FileRepository) CountBySource(ctx context.Context, sourceID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM scanned_files WHERE source_id = $1`, sourceID); err != nil {
		return 0, fmt.Errorf("unable to count files: %w", err)
	}
	return count, nil
}
