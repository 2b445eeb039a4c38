// Package metadata implements per-file attribute capture and extension/MIME
// inference for the scanner pipeline.
package metadata

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/archivum/archivum/pkg/metadata/exif"
)

// compoundExtensionTails and compoundExtensionHeads together recognize
// double-barrelled extensions like "tar.gz" so that the last segment alone
// is never reported for a known pair.
var compoundExtensionTails = map[string]bool{
	"gz": true, "bz2": true, "xz": true, "zst": true, "z": true, "lz": true, "lzma": true,
}

var compoundExtensionHeads = map[string]bool{
	"tar": true, "backup": true, "sql": true,
}

// imageExtensions is the set of extensions for which EXIF extraction is
// attempted.
var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "tiff": true, "tif": true,
	"heif": true, "heic": true, "webp": true,
}

// magicSignatures maps a leading byte sequence to the MIME type it
// identifies, checked in order before falling back to extension-based
// inference. Covers the handful of formats whose extension is least
// reliable (renamed downloads, extensionless exports).
var magicSignatures = []struct {
	mimeType  string
	signature []byte
}{
	{"image/png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}},
	{"image/jpeg", []byte{0xFF, 0xD8, 0xFF}},
	{"image/gif", []byte("GIF8")},
	{"application/pdf", []byte("%PDF-")},
	{"application/zip", []byte{'P', 'K', 0x03, 0x04}},
}

// sniffMimeType reads the first few bytes of path and matches them against
// magicSignatures. It returns "" on any read failure or when no signature
// matches, leaving the caller to fall back to extension-based inference.
func sniffMimeType(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	header := make([]byte, 8)
	n, _ := io.ReadFull(f, header)
	header = header[:n]

	for _, candidate := range magicSignatures {
		if bytes.HasPrefix(header, candidate.signature) {
			return candidate.mimeType
		}
	}
	return ""
}

// Status mirrors the ScannedFile lifecycle defined by the catalog.
type Status string

const (
	StatusDiscovered Status = "DISCOVERED"
	StatusHashed     Status = "HASHED"
	StatusAnalyzed   Status = "ANALYZED"
	StatusClassified Status = "CLASSIFIED"
	StatusStaged     Status = "STAGED"
	StatusMigrated   Status = "MIGRATED"
	StatusDuplicate  Status = "DUPLICATE"
	StatusSkipped    Status = "SKIPPED"
	StatusFailed     Status = "FAILED"
)

// Record is the attribute bundle produced for a single scanned file.
type Record struct {
	Path        string
	Name        string
	Extension   string
	Size        int64
	SHA256      string
	MimeType    string
	CreatedAt   time.Time
	ModifiedAt  time.Time
	AccessedAt  time.Time
	ScannedAt   time.Time
	EXIF        *exif.Record
	Status      Status
	IsDuplicate bool
}

// Extract reads basic attributes for path and assembles a Record. hash is
// the SHA-256 digest computed earlier in the pipeline. wantExif gates the
// EXIF sub-extraction by extension; absence or failure of EXIF data is
// never an error for the caller.
func Extract(path, hash string, size int64, created, modified, accessed time.Time, wantExif bool) (*Record, error) {
	name := filepath.Base(path)
	extension := lowercaseExtension(name)
	mimeType := sniffMimeType(path)
	if mimeType == "" {
		mimeType = inferMimeType(extension)
	}

	var exifRecord *exif.Record
	if wantExif && imageExtensions[extension] {
		exifRecord, _ = exif.Extract(path)
	}

	return &Record{
		Path:       path,
		Name:       name,
		Extension:  extension,
		Size:       size,
		SHA256:     hash,
		MimeType:   mimeType,
		CreatedAt:  created,
		ModifiedAt: modified,
		AccessedAt: accessed,
		ScannedAt:  time.Now(),
		EXIF:       exifRecord,
		Status:     StatusHashed,
	}, nil
}

// lowercaseExtension returns name's extension, lowercased, preserving known
// compound tails (e.g. "archive.tar.gz" -> "tar.gz").
func lowercaseExtension(name string) string {
	segments := strings.Split(name, ".")
	if len(segments) < 2 {
		return ""
	}

	tail := strings.ToLower(segments[len(segments)-1])
	if len(segments) >= 3 && compoundExtensionTails[tail] {
		head := strings.ToLower(segments[len(segments)-2])
		if compoundExtensionHeads[head] {
			return head + "." + tail
		}
	}

	return tail
}

// inferMimeType infers a MIME type from extension, falling back to
// application/octet-stream when unknown.
func inferMimeType(extension string) string {
	if extension == "" {
		return "application/octet-stream"
	}

	// mime.TypeByExtension expects the leading dot and the last segment of
	// a compound extension.
	lastSegment := extension
	if idx := strings.LastIndex(extension, "."); idx != -1 {
		lastSegment = extension[idx+1:]
	}

	if mimeType := mime.TypeByExtension("." + lastSegment); mimeType != "" {
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = mimeType[:idx]
		}
		return mimeType
	}

	return "application/octet-stream"
}
