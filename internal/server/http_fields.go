package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/idgen"
	"github.com/groblegark/trellis/internal/model"
)

type createFieldInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        model.FieldType `json:"type"`
	Data        json.RawMessage `json:"data"`
	Properties  json.RawMessage `json:"properties"`
	IsRequired  bool            `json:"is_required"`
	IsUnique    bool            `json:"is_unique"`
	Order       int             `json:"order"`
}

// handleCreateField handles POST /v1/projects/{id}/fields.
func (s *WorkspaceServer) handleCreateField(w http.ResponseWriter, r *http.Request) {
	var in createFieldInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	projectID := r.PathValue("id")
	if _, err := s.store.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	id, err := idgen.Generate(idgen.PrefixField)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	field := &model.FieldDefinition{
		ID:          id,
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Data:        in.Data,
		Properties:  in.Properties,
		IsRequired:  in.IsRequired,
		IsUnique:    in.IsUnique,
		Order:       in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := model.ValidateFieldDefinition(field); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.CreateField(r.Context(), field); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create field")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicFieldCreated, field.ID, actingUser(r), events.FieldCreated{Field: field})
	writeJSON(w, http.StatusCreated, field)
}

// handleListFields handles GET /v1/projects/{id}/fields. An optional type
// query param narrows the list to a single field type.
func (s *WorkspaceServer) handleListFields(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	var fields []*model.FieldDefinition
	var err error
	if v := r.URL.Query().Get("type"); v != "" {
		fieldType := model.FieldType(v)
		if !fieldType.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown field type")
			return
		}
		fields, err = s.store.ListFieldsByType(r.Context(), projectID, fieldType)
	} else {
		fields, err = s.store.ListFields(r.Context(), projectID)
	}
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}
	if fields == nil {
		fields = []*model.FieldDefinition{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

// handleGetSchema handles GET /v1/projects/{id}/schema. The schema is the
// ordered field list records are validated against.
func (s *WorkspaceServer) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	fields, err := s.store.ListFields(r.Context(), projectID)
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}
	if fields == nil {
		fields = []*model.FieldDefinition{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project_id": projectID,
		"fields":     fields,
	})
}

// handleGetField handles GET /v1/fields/{id}.
func (s *WorkspaceServer) handleGetField(w http.ResponseWriter, r *http.Request) {
	field, err := s.store.GetField(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "field not found")
		return
	}
	writeJSON(w, http.StatusOK, field)
}

type updateFieldInput struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Type        *model.FieldType `json:"type"`
	Data        json.RawMessage  `json:"data"`
	Properties  json.RawMessage  `json:"properties"`
	IsRequired  *bool            `json:"is_required"`
	IsUnique    *bool            `json:"is_unique"`
	Order       *int             `json:"order"`
}

// handleUpdateField handles PATCH /v1/fields/{id}.
func (s *WorkspaceServer) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var in updateFieldInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	field, err := s.store.GetField(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "field not found")
		return
	}

	changes := make(map[string]any)
	if in.Title != nil {
		field.Title = *in.Title
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		field.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.Type != nil {
		field.Type = *in.Type
		changes["type"] = in.Type.String()
	}
	if in.Data != nil {
		field.Data = in.Data
		changes["data"] = json.RawMessage(in.Data)
	}
	if in.Properties != nil {
		field.Properties = in.Properties
		changes["properties"] = json.RawMessage(in.Properties)
	}
	if in.IsRequired != nil {
		field.IsRequired = *in.IsRequired
		changes["is_required"] = *in.IsRequired
	}
	if in.IsUnique != nil {
		field.IsUnique = *in.IsUnique
		changes["is_unique"] = *in.IsUnique
	}
	if in.Order != nil {
		field.Order = *in.Order
		changes["order"] = *in.Order
	}

	if err := model.ValidateFieldDefinition(field); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.UpdateField(r.Context(), field); err != nil {
		writeStoreError(w, err, "field not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicFieldUpdated, field.ID, actingUser(r),
		events.FieldUpdated{Field: field, Changes: changes})
	writeJSON(w, http.StatusOK, field)
}

// handleDeleteField handles DELETE /v1/fields/{id}. Existing record values
// under the field's title are left in place; they simply stop being checked.
func (s *WorkspaceServer) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	field, err := s.store.GetField(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "field not found")
		return
	}

	if err := s.store.DeleteField(r.Context(), id); err != nil {
		writeStoreError(w, err, "field not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicFieldDeleted, id, actingUser(r),
		events.FieldDeleted{FieldID: id, ProjectID: field.ProjectID})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
