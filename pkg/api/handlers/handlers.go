// Package handlers implements the query/control API (C13): stateless
// go-chi handlers translating HTTP requests into calls against the
// ingest service, catalog store, zone service, and folder tree builder.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/archivum/archivum/pkg/catalog"
	"github.com/archivum/archivum/pkg/foldertree"
	"github.com/archivum/archivum/pkg/ingest"
	"github.com/archivum/archivum/pkg/logging"
	"github.com/archivum/archivum/pkg/zone"
)

// Server wires the catalog store and the higher-level services against an
// HTTP router. Every handler is a thin translation layer; all actual state
// transitions happen in pkg/ingest, pkg/catalog, or pkg/zone.
type Server struct {
	store  *catalog.Store
	ingest *ingest.Service
	zones  *zone.Service
	tree   *foldertree.Builder
	logger *logging.Logger
}

// NewServer constructs a Server over its dependencies.
func NewServer(store *catalog.Store, ingestSvc *ingest.Service, zones *zone.Service, tree *foldertree.Builder, logger *logging.Logger) *Server {
	return &Server{store: store, ingest: ingestSvc, zones: zones, tree: tree, logger: logger}
}

// Router builds the chi router for the full API surface, with a
// per-request timeout derived from requestTimeout and standard
// request-logging middleware in the teacher's verbosity.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.logMiddleware)
	r.Use(middleware.Timeout(requestTimeout))

	r.Route("/api", func(api chi.Router) {
		api.Route("/sources", func(sr chi.Router) {
			sr.Post("/", s.createSource)
			sr.Get("/", s.listSources)
			sr.Get("/{id}", s.getSource)
			sr.Get("/{id}/tree", s.getSourceTree)
			sr.Patch("/{id}/folders/*", s.setFolderZone)
			sr.Post("/{id}/complete", s.completeScan)
		})

		api.Route("/files", func(fr chi.Router) {
			fr.Post("/batch", s.ingestFileBatch)
			fr.Get("/", s.listFiles)
			fr.Patch("/{id}", s.updateFile)
		})

		api.Route("/duplicates", func(dr chi.Router) {
			dr.Get("/", s.listDuplicateGroups)
			dr.Post("/{groupId}/resolve", s.resolveDuplicateGroup)
		})

		api.Route("/code-projects", func(cr chi.Router) {
			cr.Post("/bulk", s.bulkIngestCodeProjects)
			cr.Get("/", s.listCodeProjects)
			cr.Get("/duplicates", s.listCodeProjectDuplicates)
			cr.Post("/duplicates/{groupId}/resolve", s.resolveCodeProjectDuplicate)
		})
	})

	return r
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debugf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// chiWildcard returns the trailing "*" segment of a route, the folder
// path in PATCH /api/sources/{id}/folders/*.
func chiWildcard(r *http.Request) string {
	return chi.URLParam(r, "*")
}
