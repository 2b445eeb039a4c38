package zone

import (
	"context"
	"testing"
)

type fakeStore struct {
	rows map[string][]FolderZoneRow
}

func (f *fakeStore) LoadAll(ctx context.Context, sourceID string) ([]FolderZoneRow, error) {
	return f.rows[sourceID], nil
}

func (f *fakeStore) Set(ctx context.Context, sourceID, folderPath, zone string) error {
	rows := f.rows[sourceID]
	for i, row := range rows {
		if row.FolderPath == folderPath {
			rows[i].Zone = zone
			f.rows[sourceID] = rows
			return nil
		}
	}
	f.rows[sourceID] = append(rows, FolderZoneRow{FolderPath: folderPath, Zone: zone})
	return nil
}

func TestZoneInheritanceNearestAncestor(t *testing.T) {
	store := &fakeStore{rows: map[string][]FolderZoneRow{
		"s1": {
			{FolderPath: "/a", Zone: "MEDIA"},
			{FolderPath: "/a/b", Zone: "DOCUMENTS"},
		},
	}}
	svc := NewService(store)
	ctx := context.Background()

	res, ok, err := svc.GetZoneForFolder(ctx, "s1", "/a/b/c/d")
	if err != nil || !ok {
		t.Fatalf("expected resolution, got ok=%v err=%v", ok, err)
	}
	if res.Zone != ZoneDocuments || !res.IsInherited {
		t.Fatalf("expected inherited DOCUMENTS, got %+v", res)
	}

	res, ok, err = svc.GetZoneForFolder(ctx, "s1", "/a/x")
	if err != nil || !ok {
		t.Fatalf("expected resolution, got ok=%v err=%v", ok, err)
	}
	if res.Zone != ZoneMedia || !res.IsInherited {
		t.Fatalf("expected inherited MEDIA, got %+v", res)
	}

	_, ok, err = svc.GetZoneForFolder(ctx, "s1", "/z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no resolution for /z")
	}
}

func TestZoneExactMatchIsNotInherited(t *testing.T) {
	store := &fakeStore{rows: map[string][]FolderZoneRow{
		"s1": {{FolderPath: "/a", Zone: "SOFTWARE"}},
	}}
	svc := NewService(store)

	res, ok, err := svc.GetZoneForFolder(context.Background(), "s1", "/a")
	if err != nil || !ok {
		t.Fatalf("expected resolution, got ok=%v err=%v", ok, err)
	}
	if res.IsInherited {
		t.Fatal("exact match should not be marked inherited")
	}
}

func TestSetFolderZoneInvalidatesCache(t *testing.T) {
	store := &fakeStore{rows: map[string][]FolderZoneRow{}}
	svc := NewService(store)
	ctx := context.Background()

	if _, ok, _ := svc.GetZoneForFolder(ctx, "s1", "/a"); ok {
		t.Fatal("expected no initial resolution")
	}

	if err := svc.SetFolderZone(ctx, "s1", "/a", ZoneBackup); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	res, ok, err := svc.GetZoneForFolder(ctx, "s1", "/a")
	if err != nil || !ok {
		t.Fatalf("expected resolution after set, got ok=%v err=%v", ok, err)
	}
	if res.Zone != ZoneBackup {
		t.Fatalf("expected BACKUP, got %s", res.Zone)
	}
}
