package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/archivum/archivum/pkg/api/models"
	"github.com/archivum/archivum/pkg/catalog"
)

func (s *Server) ingestFileBatch(w http.ResponseWriter, r *http.Request) {
	var batch models.FileBatchDto
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.ingest.IngestBatch(r.Context(), batch.SourceID, batch); err != nil {
		writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, nil)
}

// listFiles handles GET /api/files?sourceId=&extension=&status=&page=&pageSize=.
func (s *Server) listFiles(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageParams(r)
	filter := catalog.FileFilter{
		SourceID:  r.URL.Query().Get("sourceId"),
		Extension: r.URL.Query().Get("extension"),
		Status:    r.URL.Query().Get("status"),
		Page:      page,
		PageSize:  pageSize,
	}

	files, err := s.store.Files.ListFiltered(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// updateFileRequest is the partial-update body of PATCH /api/files/{id}.
type updateFileRequest struct {
	Status      *string `json:"status"`
	IsDuplicate *bool   `json:"isDuplicate"`
}

func (s *Server) updateFile(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")

	var req updateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.store.Files.UpdateClassification(r.Context(), id, req.Status, req.IsDuplicate); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
