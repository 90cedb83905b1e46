package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/idgen"
	"github.com/groblegark/trellis/internal/model"
)

type createProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	IsPublic    bool   `json:"is_public"`
}

// handleCreateProject handles POST /v1/projects.
func (s *WorkspaceServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in createProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	owner := actingUser(r)
	id, err := idgen.Generate(idgen.PrefixProject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	project := &model.Project{
		ID:          id,
		OwnerID:     owner,
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := model.ValidateProject(project); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.CreateProject(r.Context(), project); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProjectCreated, project.ID, owner, events.ProjectCreated{Project: project})
	writeJSON(w, http.StatusCreated, project)
}

// handleListProjects handles GET /v1/projects. Projects are scoped to the
// acting user.
func (s *WorkspaceServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	owner := actingUser(r)
	if owner == "" {
		writeError(w, http.StatusBadRequest, "X-User-ID header is required")
		return
	}

	projects, err := s.store.ListProjects(r.Context(), owner)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleGetProject handles GET /v1/projects/{id}.
func (s *WorkspaceServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

type updateProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	IsPublic    *bool   `json:"is_public"`
}

// handleUpdateProject handles PATCH /v1/projects/{id}. Only fields present
// in the body are changed.
func (s *WorkspaceServer) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var in updateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	project, err := s.store.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	changes := make(map[string]any)
	if in.Name != nil {
		project.Name = *in.Name
		changes["name"] = *in.Name
	}
	if in.Description != nil {
		project.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.Icon != nil {
		project.Icon = *in.Icon
		changes["icon"] = *in.Icon
	}
	if in.Color != nil {
		project.Color = *in.Color
		changes["color"] = *in.Color
	}
	if in.IsPublic != nil {
		project.IsPublic = *in.IsPublic
		changes["is_public"] = *in.IsPublic
	}

	if err := model.ValidateProject(project); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.UpdateProject(r.Context(), project); err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProjectUpdated, project.ID, actingUser(r),
		events.ProjectUpdated{Project: project, Changes: changes})
	writeJSON(w, http.StatusOK, project)
}

// handleDeleteProject handles DELETE /v1/projects/{id}. Fields and records
// go with the project via ON DELETE CASCADE.
func (s *WorkspaceServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteProject(r.Context(), id); err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicProjectDeleted, id, actingUser(r), events.ProjectDeleted{ProjectID: id})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
