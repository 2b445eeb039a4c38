// Package models defines the wire/on-disk DTOs shared by the scanner's
// output tree, the uploader, and the server's HTTP surface. The on-disk
// JSON tree and the HTTP payloads are the same Go structs: the uploader
// re-POSTs the on-disk documents with a rewritten sourceId, so there is no
// separate transport schema to keep in sync.
package models

import "time"

// PhysicalIDDto is the physical-identifier bundle embedded in a SourceDto.
type PhysicalIDDto struct {
	MountPoint    string  `json:"mountPoint"`
	Filesystem    string  `json:"filesystem"`
	CapacityBytes int64   `json:"capacityBytes"`
	UsedBytes     int64   `json:"usedBytes"`
	VolumeLabel   string  `json:"volumeLabel"`
	DiskUUID      *string `json:"diskUuid,omitempty"`
	PartitionUUID *string `json:"partitionUuid,omitempty"`
	SerialNumber  *string `json:"serialNumber,omitempty"`
	PhysicalLabel *string `json:"physicalLabel,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// SourceDto is the wire/on-disk representation of a Source.
type SourceDto struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	RootPath        string        `json:"rootPath"`
	ParentSourceID  *string       `json:"parentSourceId,omitempty"`
	Status          string        `json:"status"`
	TotalFiles      int64         `json:"totalFiles"`
	TotalSize       int64         `json:"totalSize"`
	ProcessedFiles  int64         `json:"processedFiles"`
	ProcessedSize   int64         `json:"processedSize"`
	PhysicalID      PhysicalIDDto `json:"physicalId"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// EXIFDto is the optional per-file EXIF side-record.
type EXIFDto struct {
	CameraModel string   `json:"cameraModel,omitempty"`
	TakenAt     string   `json:"takenAt,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// FileDto is the wire/on-disk representation of a ScannedFile.
type FileDto struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"sourceId"`
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	Extension   string    `json:"extension"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256"`
	MimeType    string    `json:"mimeType"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
	AccessedAt  time.Time `json:"accessedAt"`
	ScannedAt   time.Time `json:"scannedAt"`
	EXIF        *EXIFDto  `json:"exif,omitempty"`
	Status      string    `json:"status"`
	IsDuplicate bool      `json:"isDuplicate"`
}

// FileBatchDto is one numbered batch file under <sourceId>/files/.
type FileBatchDto struct {
	SourceID    string    `json:"sourceId"`
	BatchNumber int       `json:"batchNumber"`
	Files       []FileDto `json:"files"`
}

// CodeProjectDto is the wire/on-disk representation of a CodeProject.
type CodeProjectDto struct {
	ID              string    `json:"id"`
	SourceID        string    `json:"sourceId"`
	RootPath        string    `json:"rootPath"`
	ProjectType     string    `json:"projectType"`
	Name            string    `json:"name"`
	Version         *string   `json:"version,omitempty"`
	GroupID         *string   `json:"groupId,omitempty"`
	GitRemote       *string   `json:"gitRemote,omitempty"`
	GitBranch       *string   `json:"gitBranch,omitempty"`
	GitCommit       *string   `json:"gitCommit,omitempty"`
	Identifier      string    `json:"identifier"`
	ContentHash     string    `json:"contentHash"`
	SourceFileCount int       `json:"sourceFileCount"`
	TotalFileCount  int       `json:"totalFileCount"`
	TotalSizeBytes  int64     `json:"totalSizeBytes"`
	ScannedAt       time.Time `json:"scannedAt"`
	// SourceFileHashes is the sorted set of source-file SHA-256 digests
	// under this project root, persisted so the server can compute
	// Jaccard similarity between same-identifier projects at dedup time.
	SourceFileHashes []string `json:"sourceFileHashes,omitempty"`
}

// ScanErrorDto records a single per-file error in the scan summary.
type ScanErrorDto struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// SummaryDto is the scan run's summary.json document.
type SummaryDto struct {
	SourceID      string         `json:"sourceId"`
	TotalFiles    int64          `json:"totalFiles"`
	TotalSize     int64          `json:"totalSize"`
	TotalBatches  int            `json:"totalBatches"`
	SkippedFiles  int64          `json:"skippedFiles"`
	Errors        []ScanErrorDto `json:"errors"`
	DurationMS    int64          `json:"duration"`
	StartTime     time.Time      `json:"startTime"`
	EndTime       time.Time      `json:"endTime"`
	ScannerVersion string        `json:"scannerVersion"`
	ScannerHost   string         `json:"scannerHost"`
	ScannerUser   string         `json:"scannerUser"`
}

// CompleteScanRequest is the body of POST /api/sources/{id}/complete.
type CompleteScanRequest struct {
	TotalFiles int64 `json:"totalFiles"`
	TotalSize  int64 `json:"totalSize"`
	Success    bool  `json:"success"`
}

// SetFolderZoneRequest is the body of PATCH /api/sources/{id}/folders/{path}.
type SetFolderZoneRequest struct {
	Zone string `json:"zone"`
}
