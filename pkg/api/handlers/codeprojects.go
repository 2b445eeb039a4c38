package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/archivum/archivum/pkg/api/models"
)

// bulkIngestCodeProjects handles POST /api/code-projects/bulk. The payload
// is a flat CodeProjectDto slice with no url-level sourceId, so projects
// are grouped by their own SourceID before being handed to the ingest
// service, which ingests one source's projects at a time.
func (s *Server) bulkIngestCodeProjects(w http.ResponseWriter, r *http.Request) {
	var projects []models.CodeProjectDto
	if err := json.NewDecoder(r.Body).Decode(&projects); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	bySource := make(map[string][]models.CodeProjectDto)
	var order []string
	for _, p := range projects {
		if _, seen := bySource[p.SourceID]; !seen {
			order = append(order, p.SourceID)
		}
		bySource[p.SourceID] = append(bySource[p.SourceID], p)
	}

	for _, sourceID := range order {
		if err := s.ingest.IngestCodeProjects(r.Context(), sourceID, bySource[sourceID]); err != nil {
			writeIngestError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, nil)
}

// listCodeProjects handles GET /api/code-projects?sourceId=.
func (s *Server) listCodeProjects(w http.ResponseWriter, r *http.Request) {
	sourceID := r.URL.Query().Get("sourceId")

	var projects interface{}
	var err error
	if sourceID != "" {
		projects, err = s.store.Projects.ListBySource(r.Context(), sourceID)
	} else {
		projects, err = s.store.Projects.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// codeProjectDuplicateGroupView nests a group's members inline, the shape
// the control UI renders a duplicate group with.
type codeProjectDuplicateGroupView struct {
	ID         string      `json:"id"`
	Identifier string      `json:"identifier"`
	Status     string      `json:"status"`
	Members    interface{} `json:"members"`
}

func (s *Server) listCodeProjectDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.Projects.ListDuplicateGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	views := make([]codeProjectDuplicateGroupView, 0, len(groups))
	for _, g := range groups {
		members, err := s.store.Projects.ListDuplicateMembers(r.Context(), g.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		views = append(views, codeProjectDuplicateGroupView{
			ID:         g.ID,
			Identifier: g.Identifier,
			Status:     g.Status,
			Members:    members,
		})
	}
	writeJSON(w, http.StatusOK, views)
}

type resolveCodeProjectDuplicateRequest struct {
	Status string `json:"status"`
}

func (s *Server) resolveCodeProjectDuplicate(w http.ResponseWriter, r *http.Request) {
	groupID := urlParam(r, "groupId")

	var req resolveCodeProjectDuplicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Status == "" {
		req.Status = "RESOLVED"
	}

	if err := s.store.Projects.ResolveDuplicateGroup(r.Context(), groupID, req.Status); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
