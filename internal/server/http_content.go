package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/idgen"
	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/store"
)

// defaultContent holds built-in fallbacks served from the public path when no
// published entry exists for a type. Only legal-ish surfaces have defaults;
// everything else 404s.
var defaultContent = map[model.ContentType]json.RawMessage{
	model.ContentRules: json.RawMessage(`{
		"title": "Rules",
		"sections": [
			{"heading": "Acceptable use", "body": "Use the workspace responsibly and only for lawful purposes."},
			{"heading": "Accounts", "body": "You are responsible for activity under your account."}
		]
	}`),
	model.ContentRegulations: json.RawMessage(`{
		"title": "Regulations",
		"sections": [
			{"heading": "Data handling", "body": "Workspace data is stored and processed according to the published privacy policy."},
			{"heading": "Service changes", "body": "Features may change; material changes are announced in advance."}
		]
	}`),
}

type createContentInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        model.ContentType   `json:"type"`
	Body        json.RawMessage     `json:"content"`
	Status      model.ContentStatus `json:"status"`
	Version     string              `json:"version"`
	IsActive    *bool               `json:"is_active"`
	Language    string              `json:"language"`
	Tags        []string            `json:"tags"`
	Notes       string              `json:"notes"`
}

// handleCreateContent handles POST /v1/content.
func (s *WorkspaceServer) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var in createContentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.Generate(idgen.PrefixContent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	if in.Status == "" {
		in.Status = model.ContentDraft
	}
	if in.Language == "" {
		in.Language = "en"
	}
	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := time.Now().UTC()
	content := &model.Content{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Body:        in.Body,
		Status:      in.Status,
		Version:     in.Version,
		IsActive:    isActive,
		Language:    in.Language,
		Tags:        in.Tags,
		Notes:       in.Notes,
		CreatedBy:   actingUser(r),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := model.ValidateContent(content); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.CreateContent(r.Context(), content); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create content")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicContentCreated, content.ID, content.CreatedBy,
		events.ContentCreated{Content: content})
	writeJSON(w, http.StatusCreated, content)
}

// handleListContent handles GET /v1/content with optional type, status,
// language, and is_active filters.
func (s *WorkspaceServer) handleListContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ContentFilter{
		Type:     model.ContentType(q.Get("type")),
		Status:   model.ContentStatus(q.Get("status")),
		Language: q.Get("language"),
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	switch q.Get("is_active") {
	case "":
	case "true":
		v := true
		filter.IsActive = &v
	case "false":
		v := false
		filter.IsActive = &v
	default:
		writeError(w, http.StatusBadRequest, "is_active must be true or false")
		return
	}

	contents, err := s.store.ListContent(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list content")
		return
	}
	if contents == nil {
		contents = []*model.Content{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"content": contents})
}

// handleContentStats handles GET /v1/content/stats.
func (s *WorkspaceServer) handleContentStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetContentStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get content stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handlePublicContent handles GET /v1/content/public/{type}. This is the
// unauthenticated read path the frontend renders from: newest active
// published entry for the language (default "en"), with built-in fallbacks
// for rules and regulations.
func (s *WorkspaceServer) handlePublicContent(w http.ResponseWriter, r *http.Request) {
	contentType := model.ContentType(r.PathValue("type"))
	if !contentType.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown content type")
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = "en"
	}

	content, err := s.store.GetActiveContent(r.Context(), contentType, language)
	if errors.Is(err, store.ErrNotFound) {
		if fallback, ok := defaultContent[contentType]; ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"type":    contentType,
				"content": fallback,
				"default": true,
			})
			return
		}
		writeError(w, http.StatusNotFound, "no published content")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get content")
		return
	}

	writeJSON(w, http.StatusOK, content)
}

// handleGetContent handles GET /v1/content/{id}.
func (s *WorkspaceServer) handleGetContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.store.GetContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, content)
}

type updateContentInput struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Type        *model.ContentType   `json:"type"`
	Body        json.RawMessage      `json:"content"`
	Status      *model.ContentStatus `json:"status"`
	Version     *string              `json:"version"`
	IsActive    *bool                `json:"is_active"`
	Language    *string              `json:"language"`
	Tags        []string             `json:"tags"`
	Notes       *string              `json:"notes"`
}

// handleUpdateContent handles PATCH /v1/content/{id}.
func (s *WorkspaceServer) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var in updateContentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	content, err := s.store.GetContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	if in.Title != nil {
		content.Title = *in.Title
	}
	if in.Description != nil {
		content.Description = *in.Description
	}
	if in.Type != nil {
		content.Type = *in.Type
	}
	if in.Body != nil {
		content.Body = in.Body
	}
	if in.Status != nil {
		content.Status = *in.Status
	}
	if in.Version != nil {
		content.Version = *in.Version
	}
	if in.IsActive != nil {
		content.IsActive = *in.IsActive
	}
	if in.Language != nil {
		content.Language = *in.Language
	}
	if in.Tags != nil {
		content.Tags = in.Tags
	}
	if in.Notes != nil {
		content.Notes = *in.Notes
	}

	if err := model.ValidateContent(content); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.UpdateContent(r.Context(), content); err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	writeJSON(w, http.StatusOK, content)
}

// handleDeleteContent handles DELETE /v1/content/{id}.
func (s *WorkspaceServer) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteContent(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "content not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handlePublishContent handles POST /v1/content/{id}/publish. Publishing
// stamps publishedAt and publishedBy and moves the entry to published.
func (s *WorkspaceServer) handlePublishContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.store.GetContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	now := time.Now().UTC()
	content.Status = model.ContentPublished
	content.PublishedAt = &now
	content.PublishedBy = actingUser(r)

	if err := s.store.UpdateContent(r.Context(), content); err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicContentPublished, content.ID, content.PublishedBy,
		events.ContentPublished{Content: content, PublishedBy: content.PublishedBy})
	writeJSON(w, http.StatusOK, content)
}

// handleArchiveContent handles POST /v1/content/{id}/archive.
func (s *WorkspaceServer) handleArchiveContent(w http.ResponseWriter, r *http.Request) {
	content, err := s.store.GetContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	content.Status = model.ContentArchived
	content.IsActive = false

	if err := s.store.UpdateContent(r.Context(), content); err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicContentArchived, content.ID, actingUser(r),
		events.ContentArchived{ContentID: content.ID})
	writeJSON(w, http.StatusOK, content)
}

// handleDuplicateContent handles POST /v1/content/{id}/duplicate. The copy
// starts life as an inactive draft so it can be edited and published later.
func (s *WorkspaceServer) handleDuplicateContent(w http.ResponseWriter, r *http.Request) {
	src, err := s.store.GetContent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "content not found")
		return
	}

	id, err := idgen.Generate(idgen.PrefixContent)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	dup := &model.Content{
		ID:          id,
		Title:       src.Title + " (copy)",
		Description: src.Description,
		Type:        src.Type,
		Body:        src.Body,
		Status:      model.ContentDraft,
		Version:     src.Version,
		IsActive:    false,
		Language:    src.Language,
		Tags:        src.Tags,
		Notes:       src.Notes,
		CreatedBy:   actingUser(r),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateContent(r.Context(), dup); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to duplicate content")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicContentCreated, dup.ID, dup.CreatedBy,
		events.ContentCreated{Content: dup})
	writeJSON(w, http.StatusCreated, dup)
}
