package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/archivumerrors"
	"github.com/archivum/archivum/pkg/zone"
)

func (s *Server) createSource(w http.ResponseWriter, r *http.Request) {
	var req models.SourceDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	created, err := s.ingest.CreateSource(r.Context(), req)
	if err != nil {
		writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.store.Sources.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}

func (s *Server) getSource(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	source, err := s.store.Sources.Get(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, archivumerrors.ErrNotFound)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, source)
}

func (s *Server) getSourceTree(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	root, err := s.tree.Build(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

// setFolderZone handles PATCH /api/sources/{id}/folders/*; the folder path
// is taken from the wildcard segment since it may itself contain slashes.
func (s *Server) setFolderZone(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	folderPath := "/" + chiWildcard(r)

	var req models.SetFolderZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.zones.SetFolderZone(r.Context(), id, folderPath, zone.Zone(req.Zone)); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (s *Server) completeScan(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	var req models.CompleteScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.ingest.CompleteScan(r.Context(), id, req); err != nil {
		writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func writeIngestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, archivumerrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, archivumerrors.ErrIngestConflict):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func parsePageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	return
}
