// Package catalog implements the relational store (C8): entity structs
// tagged for sqlx, repository functions with explicit transactional
// boundaries, and the embedded migrations that create the schema.
package catalog

import (
	"database/sql"
	"time"
)

// Source is a logical scan unit: a disk, partition, cloud mount, or
// archive extraction.
type Source struct {
	ID             string         `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Type           string         `db:"type" json:"type"`
	RootPath       string         `db:"root_path" json:"rootPath"`
	ParentSourceID sql.NullString `db:"parent_source_id" json:"parentSourceId,omitempty"`
	Status         string         `db:"status" json:"status"`
	TotalFiles     int64          `db:"total_files" json:"totalFiles"`
	TotalSize      int64          `db:"total_size" json:"totalSize"`
	ProcessedFiles int64          `db:"processed_files" json:"processedFiles"`
	ProcessedSize  int64          `db:"processed_size" json:"processedSize"`
	MountPoint     string         `db:"mount_point" json:"mountPoint"`
	Filesystem     string         `db:"filesystem" json:"filesystem"`
	CapacityBytes  int64          `db:"capacity_bytes" json:"capacityBytes"`
	UsedBytes      int64          `db:"used_bytes" json:"usedBytes"`
	VolumeLabel    string         `db:"volume_label" json:"volumeLabel"`
	DiskUUID       sql.NullString `db:"disk_uuid" json:"diskUuid,omitempty"`
	PartitionUUID  sql.NullString `db:"partition_uuid" json:"partitionUuid,omitempty"`
	SerialNumber   sql.NullString `db:"serial_number" json:"serialNumber,omitempty"`
	PhysicalLabel  sql.NullString `db:"physical_label" json:"physicalLabel,omitempty"`
	Notes          sql.NullString `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// FileHash is the content-addressed equivalence class shared by every
// ScannedFile with the same digest.
type FileHash struct {
	SHA256      string    `db:"sha256" json:"sha256"`
	Size        int64     `db:"size" json:"size"`
	FirstSeenAt time.Time `db:"first_seen_at" json:"firstSeenAt"`
	MemberCount int64     `db:"member_count" json:"memberCount"`
}

// ScannedFile is a file observed under exactly one Source at a specific
// path.
type ScannedFile struct {
	ID          string         `db:"id" json:"id"`
	SourceID    string         `db:"source_id" json:"sourceId"`
	Path        string         `db:"path" json:"path"`
	Name        string         `db:"name" json:"name"`
	Extension   string         `db:"extension" json:"extension"`
	Size        int64          `db:"size" json:"size"`
	SHA256      string         `db:"sha256" json:"sha256"`
	MimeType    string         `db:"mime_type" json:"mimeType"`
	CreatedAt   sql.NullTime   `db:"created_at" json:"createdAt,omitempty"`
	ModifiedAt  sql.NullTime   `db:"modified_at" json:"modifiedAt,omitempty"`
	AccessedAt  sql.NullTime   `db:"accessed_at" json:"accessedAt,omitempty"`
	ScannedAt   time.Time      `db:"scanned_at" json:"scannedAt"`
	EXIF        sql.NullString `db:"exif" json:"exif,omitempty"`
	Status      string         `db:"status" json:"status"`
	IsDuplicate bool           `db:"is_duplicate" json:"isDuplicate"`
}

// DuplicateGroup is a materialized grouping over FileHash where
// member_count > 1.
type DuplicateGroup struct {
	ID         string         `db:"id" json:"id"`
	SHA256     string         `db:"sha256" json:"sha256"`
	Status     string         `db:"status" json:"status"`
	KeptFileID sql.NullString `db:"kept_file_id" json:"keptFileId,omitempty"`
	WastedSize int64          `db:"wasted_size" json:"wastedSize"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// FolderZone is a per-source mapping (sourceId, folderPath) -> Zone.
type FolderZone struct {
	SourceID   string    `db:"source_id" json:"sourceId"`
	FolderPath string    `db:"folder_path" json:"folderPath"`
	Zone       string    `db:"zone" json:"zone"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// CodeProject is a detected code-project root.
type CodeProject struct {
	ID              string         `db:"id" json:"id"`
	SourceID        string         `db:"source_id" json:"sourceId"`
	RootPath        string         `db:"root_path" json:"rootPath"`
	ProjectType     string         `db:"project_type" json:"projectType"`
	Name            string         `db:"name" json:"name"`
	Version         sql.NullString `db:"version" json:"version,omitempty"`
	GroupID         sql.NullString `db:"group_id" json:"groupId,omitempty"`
	GitRemote       sql.NullString `db:"git_remote" json:"gitRemote,omitempty"`
	GitBranch       sql.NullString `db:"git_branch" json:"gitBranch,omitempty"`
	GitCommit       sql.NullString `db:"git_commit" json:"gitCommit,omitempty"`
	Identifier      string         `db:"identifier" json:"identifier"`
	ContentHash     string         `db:"content_hash" json:"contentHash"`
	SourceFileCount int            `db:"source_file_count" json:"sourceFileCount"`
	TotalFileCount  int            `db:"total_file_count" json:"totalFileCount"`
	TotalSizeBytes  int64          `db:"total_size_bytes" json:"totalSizeBytes"`
	ScannedAt       time.Time      `db:"scanned_at" json:"scannedAt"`
	// SourceFileHashes is populated by the uploader/scanner payload and
	// persisted separately into code_project_file_hashes; it has no
	// column of its own on code_projects.
	SourceFileHashes []string `db:"-" json:"sourceFileHashes,omitempty"`
}

// CodeProjectFileHash is one row of a code project's source-file digest
// set, persisted so Jaccard similarity between same-identifier projects can
// be computed without re-reading either project's files.
type CodeProjectFileHash struct {
	CodeProjectID string `db:"code_project_id" json:"codeProjectId"`
	SHA256        string `db:"sha256" json:"sha256"`
}

// CodeProjectDuplicateGroup groups CodeProjects sharing an identifier.
type CodeProjectDuplicateGroup struct {
	ID         string    `db:"id" json:"id"`
	Identifier string    `db:"identifier" json:"identifier"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// CodeProjectDuplicateMember is a single CodeProject's membership in a
// CodeProjectDuplicateGroup.
type CodeProjectDuplicateMember struct {
	ID                string          `db:"id" json:"id"`
	GroupID           string          `db:"group_id" json:"groupId"`
	CodeProjectID     string          `db:"code_project_id" json:"codeProjectId"`
	DuplicateType     string          `db:"duplicate_type" json:"duplicateType"`
	SimilarityPercent sql.NullFloat64 `db:"similarity_percent" json:"similarityPercent,omitempty"`
	DiffComplexity    sql.NullString  `db:"diff_complexity" json:"diffComplexity,omitempty"`
	IsPrimary         bool            `db:"is_primary" json:"isPrimary"`
}
