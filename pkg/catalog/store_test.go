package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// openTestStore connects to a real Postgres instance named by
// ARCHIVUM_TEST_DATABASE_DSN and applies migrations. These tests are
// skipped when the variable is unset, since the catalog store has no
// in-memory substitute for Postgres-specific upsert/constraint behavior.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("ARCHIVUM_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ARCHIVUM_TEST_DATABASE_DSN not set; skipping catalog integration test")
	}

	store, err := Open(dsn, 4, 2)
	if err != nil {
		t.Fatalf("unable to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("unable to migrate: %v", err)
	}

	return store
}

func TestSourceCreateIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	source := &Source{
		ID:       uuid.New().String(),
		Name:     "test-source",
		Type:     "DISK",
		RootPath: "/tmp/test",
		Status:   "SCANNING",
	}

	first, err := store.Sources.Create(ctx, source)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second, err := store.Sources.Create(ctx, source)
	if err != nil {
		t.Fatalf("retried create failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same id on retry, got %s and %s", first.ID, second.ID)
	}

	sources, err := store.Sources.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	count := 0
	for _, s := range sources {
		if s.ID == source.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one row for retried create, found %d", count)
	}
}

func TestSourceCreateConflictsOnDivergentAttributes(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id := uuid.New().String()
	if _, err := store.Sources.Create(ctx, &Source{ID: id, Name: "a", Type: "DISK", RootPath: "/a", Status: "SCANNING"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := store.Sources.Create(ctx, &Source{ID: id, Name: "b", Type: "DISK", RootPath: "/a", Status: "SCANNING"})
	if err == nil {
		t.Fatal("expected conflict error for divergent attributes")
	}
}

func TestFileUpsertBatchResolvesHashAndCounts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sourceID := uuid.New().String()
	if _, err := store.Sources.Create(ctx, &Source{ID: sourceID, Name: "s", Type: "DISK", RootPath: "/s", Status: "SCANNING"}); err != nil {
		t.Fatalf("create source failed: %v", err)
	}

	files := []ScannedFile{
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/s/a.txt", Name: "a.txt", Size: 5, SHA256: "aaaa", ScannedAt: time.Now(), Status: "HASHED"},
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/s/b.txt", Name: "b.txt", Size: 5, SHA256: "aaaa", ScannedAt: time.Now(), Status: "HASHED"},
	}

	if err := store.Files.UpsertBatch(ctx, store.Hashes, files); err != nil {
		t.Fatalf("upsert batch failed: %v", err)
	}

	dupes, err := store.Hashes.ListWithMultipleMembers(ctx)
	if err != nil {
		t.Fatalf("list duplicated hashes failed: %v", err)
	}
	found := false
	for _, h := range dupes {
		if h.SHA256 == "aaaa" && h.MemberCount == 2 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected hash aaaa to have member_count 2")
	}
}
