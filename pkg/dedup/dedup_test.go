package dedup

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/lock"
	"github.com/archivum/archivum/pkg/logging"
)

func TestJaccardSimilarity(t *testing.T) {
	cases := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"identical", []string{"a", "b", "c"}, []string{"a", "b", "c"}, 1.0},
		{"disjoint", []string{"a", "b"}, []string{"c", "d"}, 0.0},
		{"both empty", nil, nil, 1.0},
		{"half overlap", []string{"a", "b"}, []string{"b", "c"}, 1.0 / 3.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := jaccardSimilarity(tc.a, tc.b)
			if got != tc.expected {
				t.Fatalf("jaccardSimilarity(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.expected)
			}
		})
	}
}

func TestDiffComplexityBucket(t *testing.T) {
	cases := []struct {
		primary, peer int
		expected      string
	}{
		{100, 102, "TRIVIAL"},
		{100, 110, "SIMPLE"},
		{100, 125, "MEDIUM"},
		{100, 160, "COMPLEX"},
	}

	for _, tc := range cases {
		got := diffComplexityBucket(tc.primary, tc.peer)
		if got != tc.expected {
			t.Fatalf("diffComplexityBucket(%d, %d) = %s, want %s", tc.primary, tc.peer, got, tc.expected)
		}
	}
}

func TestFolderOf(t *testing.T) {
	cases := map[string]string{
		"/a/b/c.txt": "/a/b",
		"/a/b.txt":   "/a",
		"/root.txt":  "/",
	}
	for path, want := range cases {
		if got := folderOf(path); got != want {
			t.Fatalf("folderOf(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestEarliestScanned(t *testing.T) {
	now := time.Unix(1700000000, 0)
	projects := []catalog.CodeProject{
		{ID: "b", ScannedAt: now.Add(time.Hour)},
		{ID: "a", ScannedAt: now},
		{ID: "c", ScannedAt: now.Add(2 * time.Hour)},
	}
	if got := earliestScanned(projects); got.ID != "a" {
		t.Fatalf("earliestScanned returned %s, want a", got.ID)
	}
}

// openTestEngine connects to a real Postgres instance named by
// ARCHIVUM_TEST_DATABASE_DSN, the same pattern pkg/catalog's integration
// tests use; skipped when the variable is unset.
func openTestEngine(t *testing.T) (*Engine, *catalog.Store) {
	t.Helper()

	dsn := os.Getenv("ARCHIVUM_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ARCHIVUM_TEST_DATABASE_DSN not set; skipping dedup integration test")
	}

	store, err := catalog.Open(dsn, 4, 2)
	if err != nil {
		t.Fatalf("unable to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("unable to migrate: %v", err)
	}

	return New(store, lock.NewKeyedMutex(), logging.RootLogger), store
}

func TestReconcileSourceAppliesZoneGate(t *testing.T) {
	engine, store := openTestEngine(t)
	ctx := context.Background()

	sourceID := uuid.New().String()
	if _, err := store.Sources.Create(ctx, &catalog.Source{
		ID: sourceID, Name: "zone-gate-test", Type: "DISK", RootPath: "/mnt/t",
		Status: "SCANNING",
	}); err != nil {
		t.Fatalf("create source: %v", err)
	}

	if err := store.Zones.Set(ctx, sourceID, "/software", "SOFTWARE"); err != nil {
		t.Fatalf("set zone: %v", err)
	}

	sha := "deadbeef"
	files := []catalog.ScannedFile{
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/software/a.bin", Name: "a.bin", SHA256: sha, Size: 10, Status: "HASHED"},
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/software/b.bin", Name: "b.bin", SHA256: sha, Size: 10, Status: "HASHED"},
	}
	if err := store.Files.UpsertBatch(ctx, store.Hashes, files); err != nil {
		t.Fatalf("upsert batch: %v", err)
	}

	if err := engine.ReconcileSource(ctx, sourceID); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	reloaded, err := store.Files.ListBySHA256(ctx, sha)
	if err != nil {
		t.Fatalf("list by sha256: %v", err)
	}
	for _, f := range reloaded {
		if f.IsDuplicate {
			t.Fatalf("file %s in SOFTWARE zone must never be flagged duplicate", f.Path)
		}
	}

	groups, err := store.Duplicates.List(ctx)
	if err != nil {
		t.Fatalf("list groups: %v", err)
	}
	for _, g := range groups {
		if g.SHA256 == sha {
			t.Fatalf("no duplicate group should exist for a fully zone-gated hash")
		}
	}
}
