package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/archivum/archivum/pkg/archivumerrors"
)

// HashRepository persists FileHash rows, the shared content-addressed
// equivalence classes every ScannedFile's sha256 resolves to.
type HashRepository struct {
	db *sqlx.DB
}

// FindOrCreate returns the FileHash row for sha256, creating it with
// member_count=0 if it doesn't exist yet. Callers that are about to attach
// a new ScannedFile to this hash should do so within the same transaction
// and call IncrementMemberCount.
func (r *HashRepository) FindOrCreate(ctx context.Context, tx *sqlx.Tx, sha256 string, size int64) (*FileHash, error) {
	var hash FileHash
	err := tx.GetContext(ctx, &hash, `SELECT * FROM file_hashes WHERE sha256 = $1`, sha256)
	if err == nil {
		return &hash, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("unable to look up file hash: %w", err)
	}

	const insert = `
		INSERT INTO file_hashes (sha256, size, member_count)
		VALUES ($1, $2, 0)
		ON CONFLICT (sha256) DO NOTHING`
	if _, err := tx.ExecContext(ctx, insert, sha256, size); err != nil {
		return nil, fmt.Errorf("unable to insert file hash: %w", err)
	}

	if err := tx.GetContext(ctx, &hash, `SELECT * FROM file_hashes WHERE sha256 = $1`, sha256); err != nil {
		return nil, fmt.Errorf("unable to reload file hash: %w", err)
	}

	return &hash, nil
}

// IncrementMemberCount bumps sha256's member_count by delta (positive when
// a ScannedFile is attached, negative when detached).
func (r *HashRepository) IncrementMemberCount(ctx context.Context, tx *sqlx.Tx, sha256 string, delta int) error {
	_, err := tx.ExecContext(ctx, `UPDATE file_hashes SET member_count = member_count + $1 WHERE sha256 = $2`, delta, sha256)
	if err != nil {
		return fmt.Errorf("unable to update file hash member count: %w", err)
	}
	return nil
}

// Get returns the FileHash row for sha256, or archivumerrors.ErrNotFound if
// no such hash is known.
func (r *HashRepository) Get(ctx context.Context, sha256 string) (*FileHash, error) {
	var hash FileHash
	err := r.db.GetContext(ctx, &hash, `SELECT * FROM file_hashes WHERE sha256 = $1`, sha256)
	if err == sql.ErrNoRows {
		return nil, archivumerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to look up file hash: %w", err)
	}
	return &hash, nil
}

// ListWithMultipleMembers returns every hash currently referenced by more
// than one ScannedFile, the candidate set for file-level dedup
// reconciliation.
func (r *HashRepository) ListWithMultipleMembers(ctx context.Context) ([]FileHash, error) {
	var hashes []FileHash
	err := r.db.SelectContext(ctx, &hashes, `SELECT * FROM file_hashes WHERE member_count > 1`)
	if err != nil {
		return nil, fmt.Errorf("unable to list duplicated hashes: %w", err)
	}
	return hashes, nil
}
