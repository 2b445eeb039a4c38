package handlers

import (
	"encoding/json"
	"net/http"
)

func (s *Server) listDuplicateGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.Duplicates.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// resolveDuplicateRequest is the body of POST /api/duplicates/{groupId}/resolve.
type resolveDuplicateRequest struct {
	Status     string `json:"status"`
	KeptFileID string `json:"keptFileId"`
}

func (s *Server) resolveDuplicateGroup(w http.ResponseWriter, r *http.Request) {
	groupID := urlParam(r, "groupId")

	var req resolveDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Status == "" {
		req.Status = "RESOLVED"
	}

	if err := s.store.Duplicates.Resolve(r.Context(), groupID, req.Status, req.KeptFileID); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
