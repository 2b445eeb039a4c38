package catalog

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ProjectRepository persists CodeProject rows and their duplicate
// groupings.
type ProjectRepository struct {
	db *sqlx.DB
}

// UpsertMany inserts or updates every project in projects within a single
// transaction, upserting by (source_id, root_path). An empty slice is a
// legal no-op.
func (r *ProjectRepository) UpsertMany(ctx context.Context, projects []CodeProject) error {
	if len(projects) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO code_projects (
			id, source_id, root_path, project_type, name, version, group_id,
			git_remote, git_branch, git_commit, identifier, content_hash,
			source_file_count, total_file_count, total_size_bytes, scanned_at
		) VALUES (
			:id, :source_id, :root_path, :project_type, :name, :version, :group_id,
			:git_remote, :git_branch, :git_commit, :identifier, :content_hash,
			:source_file_count, :total_file_count, :total_size_bytes, :scanned_at
		)
		ON CONFLICT (source_id, root_path) DO UPDATE SET
			project_type = EXCLUDED.project_type,
			name = EXCLUDED.name,
			version = EXCLUDED.version,
			group_id = EXCLUDED.group_id,
			git_remote = EXCLUDED.git_remote,
			git_branch = EXCLUDED.git_branch,
			git_commit = EXCLUDED.git_commit,
			identifier = EXCLUDED.identifier,
			content_hash = EXCLUDED.content_hash,
			source_file_count = EXCLUDED.source_file_count,
			total_file_count = EXCLUDED.total_file_count,
			total_size_bytes = EXCLUDED.total_size_bytes,
			scanned_at = EXCLUDED.scanned_at`

	const clearHashes = `DELETE FROM code_project_file_hashes WHERE code_project_id = $1`
	const insertHash = `INSERT INTO code_project_file_hashes (code_project_id, sha256) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	for i := range projects {
		p := &projects[i]
		if _, err := tx.NamedExecContext(ctx, upsert, p); err != nil {
			return fmt.Errorf("unable to upsert project %s: %w", p.RootPath, err)
		}

		if _, err := tx.ExecContext(ctx, clearHashes, p.ID); err != nil {
			return fmt.Errorf("unable to clear source file hashes for %s: %w", p.RootPath, err)
		}
		for _, sha := range p.SourceFileHashes {
			if _, err := tx.ExecContext(ctx, insertHash, p.ID, sha); err != nil {
				return fmt.Errorf("unable to insert source file hash for %s: %w", p.RootPath, err)
			}
		}
	}

	return tx.Commit()
}

// GetSourceFileHashes returns the persisted source-file digest set for a
// single project, the input to Jaccard similarity against another project
// sharing its identifier.
func (r *ProjectRepository) GetSourceFileHashes(ctx context.Context, codeProjectID string) ([]string, error) {
	var hashes []string
	const query = `SELECT sha256 FROM code_project_file_hashes WHERE code_project_id = $1`
	if err := r.db.SelectContext(ctx, &hashes, query, codeProjectID); err != nil {
		return nil, fmt.Errorf("unable to list source file hashes: %w", err)
	}
	return hashes, nil
}

// ListByIdentifier returns every project sharing identifier, across all
// sources, the candidate set for code-project-level dedup classification.
func (r *ProjectRepository) ListByIdentifier(ctx context.Context, identifier string) ([]CodeProject, error) {
	var projects []CodeProject
	const query = `SELECT * FROM code_projects WHERE identifier = $1`
	if err := r.db.SelectContext(ctx, &projects, query, identifier); err != nil {
		return nil, fmt.Errorf("unable to list projects by identifier: %w", err)
	}
	return projects, nil
}

// ListByName returns every project sharing name but excludes exact
// identifier matches, the DIFFERENT_VERSION candidate set.
func (r *ProjectRepository) ListByName(ctx context.Context, name, excludeIdentifier string) ([]CodeProject, error) {
	var projects []CodeProject
	const query = `SELECT * FROM code_projects WHERE name = $1 AND identifier != $2`
	if err := r.db.SelectContext(ctx, &projects, query, name, excludeIdentifier); err != nil {
		return nil, fmt.Errorf("unable to list projects by name: %w", err)
	}
	return projects, nil
}

// List returns every project across all sources, most recently scanned
// first, the backing query for GET /api/code-projects with no sourceId
// filter.
func (r *ProjectRepository) List(ctx context.Context) ([]CodeProject, error) {
	var projects []CodeProject
	const query = `SELECT * FROM code_projects ORDER BY scanned_at DESC`
	if err := r.db.SelectContext(ctx, &projects, query); err != nil {
		return nil, fmt.Errorf("unable to list projects: %w", err)
	}
	return projects, nil
}

// ListBySource returns every project for a source.
func (r *ProjectRepository) ListBySource(ctx context.Context, sourceID string) ([]CodeProject, error) {
	var projects []CodeProject
	const query = `SELECT * FROM code_projects WHERE source_id = $1 ORDER BY root_path`
	if err := r.db.SelectContext(ctx, &projects, query, sourceID); err != nil {
		return nil, fmt.Errorf("unable to list projects: %w", err)
	}
	return projects, nil
}

// UpsertDuplicateGroup creates a group row if one doesn't already exist
// for identifier, returning its id either way.
func (r *ProjectRepository) UpsertDuplicateGroup(ctx context.Context, newID, identifier string) (string, error) {
	var existingID string
	err := r.db.GetContext(ctx, &existingID, `SELECT id FROM code_project_duplicate_groups WHERE identifier = $1`, identifier)
	if err == nil {
		return existingID, nil
	}

	const insert = `
		INSERT INTO code_project_duplicate_groups (id, identifier, status)
		VALUES ($1, $2, 'PENDING')`
	if _, err := r.db.ExecContext(ctx, insert, newID, identifier); err != nil {
		return "", fmt.Errorf("unable to insert code project duplicate group: %w", err)
	}

	return newID, nil
}

// ListDuplicateGroups returns every code-project duplicate group, most
// recently created first.
func (r *ProjectRepository) ListDuplicateGroups(ctx context.Context) ([]CodeProjectDuplicateGroup, error) {
	var groups []CodeProjectDuplicateGroup
	const query = `SELECT * FROM code_project_duplicate_groups ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("unable to list code project duplicate groups: %w", err)
	}
	return groups, nil
}

// ListDuplicateMembers returns every member of a code-project duplicate
// group.
func (r *ProjectRepository) ListDuplicateMembers(ctx context.Context, groupID string) ([]CodeProjectDuplicateMember, error) {
	var members []CodeProjectDuplicateMember
	const query = `SELECT * FROM code_project_duplicate_members WHERE group_id = $1`
	if err := r.db.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, fmt.Errorf("unable to list code project duplicate members: %w", err)
	}
	return members, nil
}

// ResolveDuplicateGroup transitions a code-project duplicate group to a
// terminal status (RESOLVED or IGNORED).
func (r *ProjectRepository) ResolveDuplicateGroup(ctx context.Context, groupID, status string) error {
	const query = `UPDATE code_project_duplicate_groups SET status = $1, updated_at = now() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, status, groupID); err != nil {
		return fmt.Errorf("unable to resolve code project duplicate group: %w", err)
	}
	return nil
}

// AddDuplicateMember upserts a single project's membership in a group.
func (r *ProjectRepository) AddDuplicateMember(ctx context.Context, member *CodeProjectDuplicateMember) error {
	const query = `
		INSERT INTO code_project_duplicate_members (
			id, group_id, code_project_id, duplicate_type, similarity_percent, diff_complexity, is_primary
		) VALUES (
			:id, :group_id, :code_project_id, :duplicate_type, :similarity_percent, :diff_complexity, :is_primary
		)
		ON CONFLICT (group_id, code_project_id) DO UPDATE SET
			duplicate_type = EXCLUDED.duplicate_type,
			similarity_percent = EXCLUDED.similarity_percent,
			diff_complexity = EXCLUDED.diff_complexity,
			is_primary = EXCLUDED.is_primary`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("unable to add duplicate member: %w", err)
	}
	return nil
}
