package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/idgen"
	"github.com/groblegark/trellis/internal/model"
)

// maxScreenshotBytes caps screenshot uploads at 5 MiB.
const maxScreenshotBytes = 5 << 20

type createBugReportInput struct {
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	StepsToReproduce string            `json:"steps_to_reproduce"`
	ExpectedBehavior string            `json:"expected_behavior"`
	ActualBehavior   string            `json:"actual_behavior"`
	Severity         model.BugSeverity `json:"severity"`
	Browser          string            `json:"browser"`
	OperatingSystem  string            `json:"operating_system"`
	Tags             []string          `json:"tags"`
	ProjectID        string            `json:"project_id"`
	PageURL          string            `json:"page_url"`
}

// handleCreateBugReport handles POST /v1/bug-reports.
func (s *WorkspaceServer) handleCreateBugReport(w http.ResponseWriter, r *http.Request) {
	var in createBugReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.Generate(idgen.PrefixBug)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate id")
		return
	}

	if in.Severity == "" {
		in.Severity = model.SeverityMedium
	}

	now := time.Now().UTC()
	report := &model.BugReport{
		ID:               id,
		Title:            in.Title,
		Description:      in.Description,
		StepsToReproduce: in.StepsToReproduce,
		ExpectedBehavior: in.ExpectedBehavior,
		ActualBehavior:   in.ActualBehavior,
		Severity:         in.Severity,
		Status:           model.BugOpen,
		Browser:          in.Browser,
		OperatingSystem:  in.OperatingSystem,
		Tags:             in.Tags,
		ProjectID:        in.ProjectID,
		PageURL:          in.PageURL,
		ReportedBy:       actingUser(r),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := model.ValidateBugReport(report); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.CreateBugReport(r.Context(), report); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create bug report")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBugReported, report.ID, report.ReportedBy,
		events.BugReported{Report: report})
	writeJSON(w, http.StatusCreated, report)
}

// handleListBugReports handles GET /v1/bug-reports with optional status,
// severity, and project_id filters.
func (s *WorkspaceServer) handleListBugReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.BugReportFilter{
		Status:    model.BugStatus(q.Get("status")),
		Severity:  model.BugSeverity(q.Get("severity")),
		ProjectID: q.Get("project_id"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}
	if filter.Severity != "" && !filter.Severity.IsValid() {
		writeError(w, http.StatusBadRequest, "unknown severity")
		return
	}

	reports, err := s.store.ListBugReports(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bug reports")
		return
	}
	if reports == nil {
		reports = []*model.BugReport{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"bug_reports": reports})
}

// handleBugReportStats handles GET /v1/bug-reports/stats.
func (s *WorkspaceServer) handleBugReportStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetBugReportStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get bug report stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetBugReport handles GET /v1/bug-reports/{id}.
func (s *WorkspaceServer) handleGetBugReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.GetBugReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type updateBugReportInput struct {
	Title            *string            `json:"title"`
	Description      *string            `json:"description"`
	StepsToReproduce *string            `json:"steps_to_reproduce"`
	ExpectedBehavior *string            `json:"expected_behavior"`
	ActualBehavior   *string            `json:"actual_behavior"`
	Severity         *model.BugSeverity `json:"severity"`
	Status           *model.BugStatus   `json:"status"`
	Browser          *string            `json:"browser"`
	OperatingSystem  *string            `json:"operating_system"`
	Tags             []string           `json:"tags"`
	PageURL          *string            `json:"page_url"`
}

// handleUpdateBugReport handles PATCH /v1/bug-reports/{id}.
func (s *WorkspaceServer) handleUpdateBugReport(w http.ResponseWriter, r *http.Request) {
	var in updateBugReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	report, err := s.store.GetBugReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	changes := make(map[string]any)
	if in.Title != nil {
		report.Title = *in.Title
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		report.Description = *in.Description
		changes["description"] = *in.Description
	}
	if in.StepsToReproduce != nil {
		report.StepsToReproduce = *in.StepsToReproduce
		changes["steps_to_reproduce"] = *in.StepsToReproduce
	}
	if in.ExpectedBehavior != nil {
		report.ExpectedBehavior = *in.ExpectedBehavior
		changes["expected_behavior"] = *in.ExpectedBehavior
	}
	if in.ActualBehavior != nil {
		report.ActualBehavior = *in.ActualBehavior
		changes["actual_behavior"] = *in.ActualBehavior
	}
	if in.Severity != nil {
		report.Severity = *in.Severity
		changes["severity"] = in.Severity.String()
	}
	if in.Status != nil {
		if *in.Status == model.BugResolved && report.Status != model.BugResolved {
			now := time.Now().UTC()
			report.ResolvedAt = &now
		}
		report.Status = *in.Status
		changes["status"] = in.Status.String()
	}
	if in.Browser != nil {
		report.Browser = *in.Browser
		changes["browser"] = *in.Browser
	}
	if in.OperatingSystem != nil {
		report.OperatingSystem = *in.OperatingSystem
		changes["operating_system"] = *in.OperatingSystem
	}
	if in.Tags != nil {
		report.Tags = in.Tags
		changes["tags"] = in.Tags
	}
	if in.PageURL != nil {
		report.PageURL = *in.PageURL
		changes["page_url"] = *in.PageURL
	}

	if err := model.ValidateBugReport(report); err != nil {
		writeStoreError(w, err, "")
		return
	}

	if err := s.store.UpdateBugReport(r.Context(), report); err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBugUpdated, report.ID, actingUser(r),
		events.BugUpdated{Report: report, Changes: changes})
	writeJSON(w, http.StatusOK, report)
}

// handleDeleteBugReport handles DELETE /v1/bug-reports/{id}.
func (s *WorkspaceServer) handleDeleteBugReport(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBugReport(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAssignBugReport handles POST /v1/bug-reports/{id}/assign.
func (s *WorkspaceServer) handleAssignBugReport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AssignedTo string `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if in.AssignedTo == "" {
		writeError(w, http.StatusBadRequest, "assigned_to is required")
		return
	}

	report, err := s.store.GetBugReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	report.AssignedTo = in.AssignedTo
	if report.Status == model.BugOpen {
		report.Status = model.BugInProgress
	}

	if err := s.store.UpdateBugReport(r.Context(), report); err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBugAssigned, report.ID, actingUser(r),
		events.BugAssigned{ReportID: report.ID, AssignedTo: report.AssignedTo})
	writeJSON(w, http.StatusOK, report)
}

// handleResolveBugReport handles POST /v1/bug-reports/{id}/resolve.
func (s *WorkspaceServer) handleResolveBugReport(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Resolution string `json:"resolution"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	report, err := s.store.GetBugReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	now := time.Now().UTC()
	report.Status = model.BugResolved
	report.Resolution = in.Resolution
	report.ResolvedAt = &now

	if err := s.store.UpdateBugReport(r.Context(), report); err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBugResolved, report.ID, actingUser(r),
		events.BugResolved{ReportID: report.ID, Resolution: report.Resolution})
	writeJSON(w, http.StatusOK, report)
}

// handleUploadScreenshot handles POST /v1/bug-reports/{id}/screenshot.
// The raw image bytes form the request body; Content-Type carries the image
// type. The stored object URL is written back onto the report.
func (s *WorkspaceServer) handleUploadScreenshot(w http.ResponseWriter, r *http.Request) {
	if s.screenshots == nil {
		writeError(w, http.StatusNotImplemented, "screenshot storage is not configured")
		return
	}

	report, err := s.store.GetBugReport(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxScreenshotBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}
	if len(data) > maxScreenshotBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "screenshot too large")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := s.screenshots.Put(r.Context(), report.ID+ext(contentType), data, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store screenshot")
		return
	}

	report.ScreenshotURL = url
	if err := s.store.UpdateBugReport(r.Context(), report); err != nil {
		writeStoreError(w, err, "bug report not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"screenshot_url": url})
}

// ext picks a file extension for the stored object from the content type.
func ext(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
