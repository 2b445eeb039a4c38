package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/dedup"
	"github.com/archivum/archivum/pkg/foldertree"
	"github.com/archivum/archivum/pkg/ingest"
	"github.com/archivum/archivum/pkg/lock"
	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/zone"
)

// openTestServer wires a full Server against a real Postgres instance named
// by ARCHIVUM_TEST_DATABASE_DSN, the same pattern pkg/catalog's and
// pkg/ingest's integration tests use; skipped when unset.
func openTestServer(t *testing.T) (*Server, *catalog.Store) {
	t.Helper()

	dsn := os.Getenv("ARCHIVUM_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ARCHIVUM_TEST_DATABASE_DSN not set; skipping API integration test")
	}

	store, err := catalog.Open(dsn, 4, 2)
	if err != nil {
		t.Fatalf("unable to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("unable to migrate: %v", err)
	}

	locks := lock.NewKeyedMutex()
	engine := dedup.New(store, locks, logging.RootLogger)
	ingestSvc := ingest.New(store, engine, locks)
	zones := zone.NewService(foldertree.ZoneStore{Repo: store.Zones})
	tree := foldertree.NewBuilder(store.Files, zones)

	return NewServer(store, ingestSvc, zones, tree, logging.RootLogger), store
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unable to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSourceLifecycleEndToEnd(t *testing.T) {
	server, _ := openTestServer(t)
	router := server.Router(5 * time.Second)

	sourceID := uuid.New().String()
	createRes := doRequest(t, router, http.MethodPost, "/api/sources", models.SourceDto{
		ID: sourceID, Name: "api-test", Type: "DISK", RootPath: "/mnt/api", Status: "SCANNING",
	})
	if createRes.Code != http.StatusCreated {
		t.Fatalf("create source status = %d, body %s", createRes.Code, createRes.Body.String())
	}

	getRes := doRequest(t, router, http.MethodGet, "/api/sources/"+sourceID, nil)
	if getRes.Code != http.StatusOK {
		t.Fatalf("get source status = %d", getRes.Code)
	}

	batch := models.FileBatchDto{
		SourceID:    sourceID,
		BatchNumber: 1,
		Files: []models.FileDto{
			{ID: uuid.New().String(), SourceID: sourceID, Path: "/a.txt", Name: "a.txt", SHA256: "h-api-1", Size: 10, ScannedAt: time.Now()},
		},
	}
	batchRes := doRequest(t, router, http.MethodPost, "/api/files/batch", batch)
	if batchRes.Code != http.StatusCreated {
		t.Fatalf("ingest batch status = %d, body %s", batchRes.Code, batchRes.Body.String())
	}

	treeRes := doRequest(t, router, http.MethodGet, "/api/sources/"+sourceID+"/tree", nil)
	if treeRes.Code != http.StatusOK {
		t.Fatalf("get tree status = %d", treeRes.Code)
	}

	completeRes := doRequest(t, router, http.MethodPost, "/api/sources/"+sourceID+"/complete", models.CompleteScanRequest{
		TotalFiles: 1, TotalSize: 10, Success: true,
	})
	if completeRes.Code != http.StatusOK {
		t.Fatalf("complete scan status = %d, body %s", completeRes.Code, completeRes.Body.String())
	}

	filesRes := doRequest(t, router, http.MethodGet, "/api/files?sourceId="+sourceID, nil)
	if filesRes.Code != http.StatusOK {
		t.Fatalf("list files status = %d", filesRes.Code)
	}
	var files []catalog.ScannedFile
	if err := json.Unmarshal(filesRes.Body.Bytes(), &files); err != nil {
		t.Fatalf("unable to decode files response: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
}

func TestGetUnknownSourceReturnsNotFound(t *testing.T) {
	server, _ := openTestServer(t)
	router := server.Router(5 * time.Second)

	res := doRequest(t, router, http.MethodGet, "/api/sources/"+uuid.New().String(), nil)
	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestSetFolderZoneAcceptsSlashContainingPath(t *testing.T) {
	server, _ := openTestServer(t)
	router := server.Router(5 * time.Second)

	sourceID := uuid.New().String()
	doRequest(t, router, http.MethodPost, "/api/sources", models.SourceDto{
		ID: sourceID, Name: "zone-test", Type: "DISK", RootPath: "/mnt/zone", Status: "SCANNING",
	})

	res := doRequest(t, router, http.MethodPatch, "/api/sources/"+sourceID+"/folders/software/vendor", models.SetFolderZoneRequest{
		Zone: "SOFTWARE",
	})
	if res.Code != http.StatusOK {
		t.Fatalf("set folder zone status = %d, body %s", res.Code, res.Body.String())
	}
}

func TestBulkIngestCodeProjectsGroupsBySourceID(t *testing.T) {
	server, _ := openTestServer(t)
	router := server.Router(5 * time.Second)

	sourceA := uuid.New().String()
	sourceB := uuid.New().String()
	for _, id := range []string{sourceA, sourceB} {
		doRequest(t, router, http.MethodPost, "/api/sources", models.SourceDto{
			ID: id, Name: "proj-" + id, Type: "DISK", RootPath: "/mnt/" + id, Status: "SCANNING",
		})
	}

	projects := []models.CodeProjectDto{
		{ID: uuid.New().String(), SourceID: sourceA, RootPath: "/p1", ProjectType: "GENERIC", Name: "p1", Identifier: "p1", ContentHash: "c1", ScannedAt: time.Now()},
		{ID: uuid.New().String(), SourceID: sourceB, RootPath: "/p2", ProjectType: "GENERIC", Name: "p2", Identifier: "p2", ContentHash: "c2", ScannedAt: time.Now()},
	}

	res := doRequest(t, router, http.MethodPost, "/api/code-projects/bulk", projects)
	if res.Code != http.StatusCreated {
		t.Fatalf("bulk ingest status = %d, body %s", res.Code, res.Body.String())
	}

	listRes := doRequest(t, router, http.MethodGet, "/api/code-projects?sourceId="+sourceA, nil)
	var listed []catalog.CodeProject
	if err := json.Unmarshal(listRes.Body.Bytes(), &listed); err != nil {
		t.Fatalf("unable to decode code projects response: %v", err)
	}
	if len(listed) != 1 || listed[0].RootPath != "/p1" {
		t.Fatalf("expected source A to have exactly project p1, got %+v", listed)
	}
}
