package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/logging"
)

func writeTempFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("unable to write fixture file: %v", err)
	}
}

func TestRunProducesSourceSummaryAndBatches(t *testing.T) {
	root := t.TempDir()
	writeTempFile(t, root, "a.txt", "hello")
	writeTempFile(t, root, "b.txt", "world")

	outputDir := t.TempDir()

	result, err := Run(Options{
		RootPath:        root,
		SourceName:      "test-source",
		SourceType:      "DISK",
		OutputDirectory: outputDir,
		BatchSize:       10,
		Threads:         1,
	}, logging.RootLogger)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.TotalFiles != 2 {
		t.Fatalf("expected 2 files, got %d", result.TotalFiles)
	}
	if result.TotalBatches != 1 {
		t.Fatalf("expected 1 batch, got %d", result.TotalBatches)
	}
	if result.Errors != 0 {
		t.Fatalf("expected no errors, got %d", result.Errors)
	}

	sourceDir := filepath.Join(outputDir, result.SourceID)

	sourceBytes, err := os.ReadFile(filepath.Join(sourceDir, "source.json"))
	if err != nil {
		t.Fatalf("unable to read source.json: %v", err)
	}
	var source models.SourceDto
	if err := json.Unmarshal(sourceBytes, &source); err != nil {
		t.Fatalf("unable to decode source.json: %v", err)
	}
	if source.ID != result.SourceID {
		t.Fatalf("expected source id %s, got %s", result.SourceID, source.ID)
	}
	if source.TotalFiles != 2 {
		t.Fatalf("expected source totalFiles 2, got %d", source.TotalFiles)
	}

	summaryBytes, err := os.ReadFile(filepath.Join(sourceDir, "summary.json"))
	if err != nil {
		t.Fatalf("unable to read summary.json: %v", err)
	}
	var summary models.SummaryDto
	if err := json.Unmarshal(summaryBytes, &summary); err != nil {
		t.Fatalf("unable to decode summary.json: %v", err)
	}
	if summary.TotalFiles != 2 {
		t.Fatalf("expected summary totalFiles 2, got %d", summary.TotalFiles)
	}

	batchBytes, err := os.ReadFile(filepath.Join(sourceDir, "files", "batch-0001.json"))
	if err != nil {
		t.Fatalf("unable to read batch-0001.json: %v", err)
	}
	var batch models.FileBatchDto
	if err := json.Unmarshal(batchBytes, &batch); err != nil {
		t.Fatalf("unable to decode batch: %v", err)
	}
	if len(batch.Files) != 2 {
		t.Fatalf("expected 2 files in batch, got %d", len(batch.Files))
	}
}

func TestRunFlushesMultipleBatches(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		writeTempFile(t, root, fmt.Sprintf("file%d.txt", i), "content")
	}

	outputDir := t.TempDir()

	result, err := Run(Options{
		RootPath:        root,
		SourceName:      "test-source",
		SourceType:      "DISK",
		OutputDirectory: outputDir,
		BatchSize:       2,
	}, logging.RootLogger)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.TotalBatches != 3 {
		t.Fatalf("expected 3 batches (2+2+1), got %d", result.TotalBatches)
	}
}

func TestRunFailsOnMissingRoot(t *testing.T) {
	_, err := Run(Options{
		RootPath:        filepath.Join(t.TempDir(), "does-not-exist"),
		SourceName:      "test-source",
		OutputDirectory: t.TempDir(),
	}, logging.RootLogger)
	if err == nil {
		t.Fatal("expected error for missing root path")
	}
}

func TestRunDetectsIntraScanDuplicates(t *testing.T) {
	root := t.TempDir()
	writeTempFile(t, root, "one.txt", "same content")
	writeTempFile(t, root, "two.txt", "same content")

	outputDir := t.TempDir()

	result, err := Run(Options{
		RootPath:        root,
		SourceName:      "test-source",
		OutputDirectory: outputDir,
		BatchSize:       10,
	}, logging.RootLogger)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	batchBytes, err := os.ReadFile(filepath.Join(outputDir, result.SourceID, "files", "batch-0001.json"))
	if err != nil {
		t.Fatalf("unable to read batch: %v", err)
	}
	var batch models.FileBatchDto
	if err := json.Unmarshal(batchBytes, &batch); err != nil {
		t.Fatalf("unable to decode batch: %v", err)
	}

	duplicateCount := 0
	for _, f := range batch.Files {
		if f.IsDuplicate {
			duplicateCount++
		}
	}
	if duplicateCount != 1 {
		t.Fatalf("expected exactly one file marked duplicate, got %d", duplicateCount)
	}
}
