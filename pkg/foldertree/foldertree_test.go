package foldertree

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/zone"
)

func TestFolderOf(t *testing.T) {
	cases := map[string]string{
		"/a/b/c.txt": "/a/b",
		"/a.txt":     "/",
		"a.txt":      "/",
	}
	for path, want := range cases {
		if got := folderOf(path); got != want {
			t.Fatalf("folderOf(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestAggregateSumsUpward(t *testing.T) {
	root := &Node{Name: "/", Path: "/", IsFolder: true, Children: []*Node{
		{Name: "a", Path: "/a", IsFolder: true, Children: []*Node{
			{Name: "1.txt", Path: "/a/1.txt", FileCount: 1, TotalSize: 10},
			{Name: "2.txt", Path: "/a/2.txt", FileCount: 1, TotalSize: 20},
		}},
		{Name: "3.txt", Path: "/3.txt", FileCount: 1, TotalSize: 5},
	}}

	aggregate(root)

	if root.FileCount != 3 || root.TotalSize != 35 {
		t.Fatalf("root aggregate = (%d, %d), want (3, 35)", root.FileCount, root.TotalSize)
	}
	folderA := root.Children[0]
	if folderA.FileCount != 2 || folderA.TotalSize != 30 {
		t.Fatalf("folder a aggregate = (%d, %d), want (2, 30)", folderA.FileCount, folderA.TotalSize)
	}
}

func TestSortChildrenFoldersFirstThenAlphabetical(t *testing.T) {
	root := &Node{IsFolder: true, Children: []*Node{
		{Name: "zzz.txt", IsFolder: false},
		{Name: "b", IsFolder: true},
		{Name: "aaa.txt", IsFolder: false},
		{Name: "a", IsFolder: true},
	}}

	sortChildren(root)

	want := []string{"a", "b", "aaa.txt", "zzz.txt"}
	for i, name := range want {
		if root.Children[i].Name != name {
			t.Fatalf("child %d = %s, want %s", i, root.Children[i].Name, name)
		}
	}
}

// openTestBuilder connects to a real Postgres instance named by
// ARCHIVUM_TEST_DATABASE_DSN, the same pattern pkg/catalog's integration
// tests use; skipped when the variable is unset.
func openTestBuilder(t *testing.T) (*Builder, *catalog.Store) {
	t.Helper()

	dsn := os.Getenv("ARCHIVUM_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ARCHIVUM_TEST_DATABASE_DSN not set; skipping folder tree integration test")
	}

	store, err := catalog.Open(dsn, 4, 2)
	if err != nil {
		t.Fatalf("unable to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("unable to migrate: %v", err)
	}

	zones := zone.NewService(ZoneStore{Repo: store.Zones})
	return NewBuilder(store.Files, zones), store
}

func TestBuildAggregatesNestedFolders(t *testing.T) {
	builder, store := openTestBuilder(t)
	ctx := context.Background()

	sourceID := uuid.New().String()
	if _, err := store.Sources.Create(ctx, &catalog.Source{
		ID: sourceID, Name: "tree-test", Type: "DISK", RootPath: "/mnt/t", Status: "SCANNING",
	}); err != nil {
		t.Fatalf("create source: %v", err)
	}

	files := []catalog.ScannedFile{
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/a/1.txt", Name: "1.txt", SHA256: "h1", Size: 10, Status: "HASHED"},
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/a/b/2.txt", Name: "2.txt", SHA256: "h2", Size: 20, Status: "HASHED"},
		{ID: uuid.New().String(), SourceID: sourceID, Path: "/3.txt", Name: "3.txt", SHA256: "h3", Size: 5, Status: "HASHED"},
	}
	if err := store.Files.UpsertBatch(ctx, store.Hashes, files); err != nil {
		t.Fatalf("upsert batch: %v", err)
	}

	root, err := builder.Build(ctx, sourceID)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if root.FileCount != 3 || root.TotalSize != 35 {
		t.Fatalf("root = (%d, %d), want (3, 35)", root.FileCount, root.TotalSize)
	}
}
