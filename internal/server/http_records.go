package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/idgen"
	"github.com/groblegark/trellis/internal/model"
)

type recordInput struct {
	Data map[string]any `json:"record_data"`
}

// handleCreateRecord handles POST /v1/projects/{id}/records. The record is
// checked against the project schema first; a failed check returns 422 with
// the validator's result so the client can show per-field messages.
func (s *WorkspaceServer) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Data == nil {
		in.Data = map[string]any{}
	}

	projectID := r.PathValue("id")
	result, err := s.validator.Validate(r.Context(), projectID, in.Data)
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	id, err := idgen.Generate(idgen.PrefixRecord)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	now := time.Now().UTC()
	record := &model.Record{
		ID:        id,
		ProjectID: projectID,
		Data:      in.Data,
		CreatedBy: actingUser(r),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateRecord(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create record")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordCreated, record.ID, record.CreatedBy,
		events.RecordCreated{Record: record})
	writeJSON(w, http.StatusCreated, record)
}

// handleValidateRecord handles POST /v1/projects/{id}/validate. It runs the
// same checks as record creation without persisting anything.
func (s *WorkspaceServer) handleValidateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Data == nil {
		in.Data = map[string]any{}
	}

	result, err := s.validator.Validate(r.Context(), r.PathValue("id"), in.Data)
	if err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListRecords handles GET /v1/projects/{id}/records.
func (s *WorkspaceServer) handleListRecords(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if _, err := s.store.GetProject(r.Context(), projectID); err != nil {
		writeStoreError(w, err, "project not found")
		return
	}

	records, err := s.store.ListRecords(r.Context(), projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	if records == nil {
		records = []*model.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// handleGetRecord handles GET /v1/records/{id}.
func (s *WorkspaceServer) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.GetRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleUpdateRecord handles PATCH /v1/records/{id}. The body's record_data
// replaces the stored data verbatim; the schema gate applies on create only.
func (s *WorkspaceServer) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var in recordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.Data == nil {
		writeError(w, http.StatusBadRequest, "record_data is required")
		return
	}

	record, err := s.store.GetRecord(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "record not found")
		return
	}

	record.Data = in.Data
	if err := s.store.UpdateRecord(r.Context(), record); err != nil {
		writeStoreError(w, err, "record not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordUpdated, record.ID, actingUser(r),
		events.RecordUpdated{Record: record})
	writeJSON(w, http.StatusOK, record)
}

// handleDeleteRecord handles DELETE /v1/records/{id}.
func (s *WorkspaceServer) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, err := s.store.GetRecord(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "record not found")
		return
	}

	if err := s.store.DeleteRecord(r.Context(), id); err != nil {
		writeStoreError(w, err, "record not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicRecordDeleted, id, actingUser(r),
		events.RecordDeleted{RecordID: id, ProjectID: record.ProjectID})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGetRecordEvents handles GET /v1/records/{id}/events (audit trail).
func (s *WorkspaceServer) handleGetRecordEvents(w http.ResponseWriter, r *http.Request) {
	evts, err := s.store.GetEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get events")
		return
	}
	if evts == nil {
		evts = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": evts})
}
