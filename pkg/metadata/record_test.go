package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCompoundExtension(t *testing.T) {
	record, err := Extract("/src/db.sql.gz", "deadbeef", 10, time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.Extension != "sql.gz" {
		t.Fatalf("expected extension sql.gz, got %q", record.Extension)
	}
}

func TestPlainExtension(t *testing.T) {
	record, err := Extract("/src/archive.tar.xyz", "deadbeef", 10, time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.Extension != "xyz" {
		t.Fatalf("expected extension xyz (not a known compound tail), got %q", record.Extension)
	}
}

func TestUnknownExtensionFallsBackToOctetStream(t *testing.T) {
	record, err := Extract("/src/file.unknownext", "deadbeef", 10, time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.MimeType != "application/octet-stream" {
		t.Fatalf("expected application/octet-stream, got %q", record.MimeType)
	}
}

func TestEXIFSkippedWhenNotRequested(t *testing.T) {
	record, err := Extract("/src/photo.jpg", "deadbeef", 10, time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.EXIF != nil {
		t.Fatal("expected nil EXIF record when wantExif is false")
	}
}

func TestMagicBytesOverrideMisleadingExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.txt")
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	if err := os.WriteFile(path, pngHeader, 0644); err != nil {
		t.Fatalf("unable to write fixture: %v", err)
	}

	record, err := Extract(path, "deadbeef", int64(len(pngHeader)), time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.MimeType != "image/png" {
		t.Fatalf("expected image/png from magic bytes despite .txt extension, got %q", record.MimeType)
	}
}

func TestMagicSniffFallsBackToExtensionWhenUnreadable(t *testing.T) {
	record, err := Extract("/does/not/exist.png", "deadbeef", 10, time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.MimeType != "image/png" {
		t.Fatalf("expected extension-based image/png fallback, got %q", record.MimeType)
	}
}

func TestStatusAndDuplicateDefaults(t *testing.T) {
	record, err := Extract("/src/file.txt", "deadbeef", 10, time.Now(), time.Now(), time.Now(), false)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if record.Status != StatusHashed {
		t.Fatalf("expected status HASHED, got %v", record.Status)
	}
	if record.IsDuplicate {
		t.Fatal("expected isDuplicate false at extraction time")
	}
}
