package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DuplicateRepository persists file-level DuplicateGroup rows.
type DuplicateRepository struct {
	db *sqlx.DB
}

// Upsert creates or updates the group for sha256. If a group already
// exists and already has a kept_file_id, that choice is preserved. newID
// is used only when a row does not yet exist, generated by the caller so
// this package has no direct dependency on an id-generation library.
func (r *DuplicateRepository) Upsert(ctx context.Context, tx *sqlx.Tx, newID, sha256, keptFileID string, wastedSize int64) (*DuplicateGroup, error) {
	var existing DuplicateGroup
	err := tx.GetContext(ctx, &existing, `SELECT * FROM duplicate_groups WHERE sha256 = $1`, sha256)
	if err == nil {
		const update = `
			UPDATE duplicate_groups
			SET wasted_size = $1, kept_file_id = COALESCE(kept_file_id, $2), updated_at = now()
			WHERE id = $3
			RETURNING *`
		var updated DuplicateGroup
		if err := tx.GetContext(ctx, &updated, update, wastedSize, keptFileID, existing.ID); err != nil {
			return nil, fmt.Errorf("unable to update duplicate group: %w", err)
		}
		return &updated, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("unable to look up duplicate group: %w", err)
	}

	const insert = `
		INSERT INTO duplicate_groups (id, sha256, status, kept_file_id, wasted_size)
		VALUES ($1, $2, 'PENDING', $3, $4)
		RETURNING *`
	var created DuplicateGroup
	if err := tx.GetContext(ctx, &created, insert, newID, sha256, keptFileID, wastedSize); err != nil {
		return nil, fmt.Errorf("unable to insert duplicate group: %w", err)
	}

	return &created, nil
}

// List returns every duplicate group, most recently created first.
func (r *DuplicateRepository) List(ctx context.Context) ([]DuplicateGroup, error) {
	var groups []DuplicateGroup
	if err := r.db.SelectContext(ctx, &groups, `SELECT * FROM duplicate_groups ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("unable to list duplicate groups: %w", err)
	}
	return groups, nil
}

// Resolve transitions a group to RESOLVED (or IGNORED) and records the
// chosen kept file.
func (r *DuplicateRepository) Resolve(ctx context.Context, groupID, status, keptFileID string) error {
	const query = `
		UPDATE duplicate_groups
		SET status = $1, kept_file_id = $2, updated_at = now()
		WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, keptFileID, groupID)
	if err != nil {
		return fmt.Errorf("unable to resolve duplicate group: %w", err)
	}
	return nil
}

// DeleteBySHA256 removes the duplicate group for sha256 entirely, used when
// zone gating leaves fewer than two members eligible for file-level dedup.
func (r *DuplicateRepository) DeleteBySHA256(ctx context.Context, tx *sqlx.Tx, sha256 string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM duplicate_groups WHERE sha256 = $1`, sha256)
	if err != nil {
		return fmt.Errorf("unable to delete duplicate group: %w", err)
	}
	return nil
}
