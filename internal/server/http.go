package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/store"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health and the
// public content path) must include a valid Authorization: Bearer <token>
// header.
func (s *WorkspaceServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/projects", s.handleCreateProject)
	mux.HandleFunc("GET /v1/projects", s.handleListProjects)
	mux.HandleFunc("GET /v1/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PATCH /v1/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /v1/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("POST /v1/projects/{id}/fields", s.handleCreateField)
	mux.HandleFunc("GET /v1/projects/{id}/fields", s.handleListFields)
	mux.HandleFunc("GET /v1/projects/{id}/schema", s.handleGetSchema)
	mux.HandleFunc("GET /v1/fields/{id}", s.handleGetField)
	mux.HandleFunc("PATCH /v1/fields/{id}", s.handleUpdateField)
	mux.HandleFunc("DELETE /v1/fields/{id}", s.handleDeleteField)

	mux.HandleFunc("POST /v1/projects/{id}/records", s.handleCreateRecord)
	mux.HandleFunc("GET /v1/projects/{id}/records", s.handleListRecords)
	mux.HandleFunc("POST /v1/projects/{id}/validate", s.handleValidateRecord)
	mux.HandleFunc("GET /v1/records/{id}", s.handleGetRecord)
	mux.HandleFunc("PATCH /v1/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /v1/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("GET /v1/records/{id}/events", s.handleGetRecordEvents)

	mux.HandleFunc("POST /v1/bug-reports", s.handleCreateBugReport)
	mux.HandleFunc("GET /v1/bug-reports", s.handleListBugReports)
	mux.HandleFunc("GET /v1/bug-reports/stats", s.handleBugReportStats)
	mux.HandleFunc("GET /v1/bug-reports/{id}", s.handleGetBugReport)
	mux.HandleFunc("PATCH /v1/bug-reports/{id}", s.handleUpdateBugReport)
	mux.HandleFunc("DELETE /v1/bug-reports/{id}", s.handleDeleteBugReport)
	mux.HandleFunc("POST /v1/bug-reports/{id}/assign", s.handleAssignBugReport)
	mux.HandleFunc("POST /v1/bug-reports/{id}/resolve", s.handleResolveBugReport)
	mux.HandleFunc("POST /v1/bug-reports/{id}/screenshot", s.handleUploadScreenshot)

	mux.HandleFunc("POST /v1/content", s.handleCreateContent)
	mux.HandleFunc("GET /v1/content", s.handleListContent)
	mux.HandleFunc("GET /v1/content/stats", s.handleContentStats)
	mux.HandleFunc("GET /v1/content/public/{type}", s.handlePublicContent)
	mux.HandleFunc("GET /v1/content/{id}", s.handleGetContent)
	mux.HandleFunc("PATCH /v1/content/{id}", s.handleUpdateContent)
	mux.HandleFunc("DELETE /v1/content/{id}", s.handleDeleteContent)
	mux.HandleFunc("POST /v1/content/{id}/publish", s.handlePublishContent)
	mux.HandleFunc("POST /v1/content/{id}/archive", s.handleArchiveContent)
	mux.HandleFunc("POST /v1/content/{id}/duplicate", s.handleDuplicateContent)

	mux.HandleFunc("POST /v1/identity/webhook", s.handleIdentityWebhook)
	mux.HandleFunc("GET /v1/users", s.handleListUsers)
	mux.HandleFunc("GET /v1/users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /v1/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /v1/users/{id}", s.handleDeleteUser)
	mux.HandleFunc("GET /v1/users/{id}/stats", s.handleUserStats)

	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *WorkspaceServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps store failures to HTTP responses: missing rows become
// 404, invalid input 400, model validation failures 422, anything else 500.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	var ie inputError
	var ve *model.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, ve)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
