package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/model"
)

// fakeBlobStore records Put calls and returns a deterministic URL.
type fakeBlobStore struct {
	keys        []string
	contentType string
}

func (f *fakeBlobStore) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	f.keys = append(f.keys, key)
	f.contentType = contentType
	return "https://blobs.example.com/" + key, nil
}

func seedBug(ms *mockStore, id string, status model.BugStatus, severity model.BugSeverity) *model.BugReport {
	now := time.Now().UTC()
	b := &model.BugReport{
		ID: id, Title: "Crash", Description: "It crashes",
		Status: status, Severity: severity,
		CreatedAt: now, UpdatedAt: now,
	}
	ms.bugs[id] = b
	return b
}

func TestCreateBugReport_Defaults(t *testing.T) {
	_, ms, h := newTestServer(t)

	w := doJSON(t, h, http.MethodPost, "/v1/bug-reports",
		map[string]any{"title": "Crash on save", "description": "Editor crashes"}, "auth0|abc")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := decodeBody[model.BugReport](t, w)
	if got.Status != model.BugOpen {
		t.Errorf("status = %q, want open", got.Status)
	}
	if got.Severity != model.SeverityMedium {
		t.Errorf("severity = %q, want medium", got.Severity)
	}
	if got.ReportedBy != "auth0|abc" {
		t.Errorf("reported_by = %q", got.ReportedBy)
	}
	if _, ok := ms.bugs[got.ID]; !ok {
		t.Error("bug report not persisted")
	}
}

func TestCreateBugReport_MissingTitle(t *testing.T) {
	_, _, h := newTestServer(t)
	w := doJSON(t, h, http.MethodPost, "/v1/bug-reports",
		map[string]any{"description": "no title"}, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}

func TestListBugReports_Filter(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)
	seedBug(ms, "bug-2", model.BugResolved, model.SeverityLow)

	w := doJSON(t, h, http.MethodGet, "/v1/bug-reports?status=open", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeBody[map[string][]*model.BugReport](t, w)
	if len(got["bug_reports"]) != 1 || got["bug_reports"][0].ID != "bug-1" {
		t.Fatalf("got %+v", got["bug_reports"])
	}

	w = doJSON(t, h, http.MethodGet, "/v1/bug-reports?status=bogus", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus status = %d, want 400", w.Code)
	}
}

func TestBugReportStats(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)
	seedBug(ms, "bug-2", model.BugOpen, model.SeverityLow)
	seedBug(ms, "bug-3", model.BugResolved, model.SeverityHigh)

	w := doJSON(t, h, http.MethodGet, "/v1/bug-reports/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeBody[model.BugReportStats](t, w)
	if got.Total != 3 || got.ByStatus["open"] != 2 || got.BySeverity["high"] != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestAssignBugReport(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)

	w := doJSON(t, h, http.MethodPost, "/v1/bug-reports/bug-1/assign",
		map[string]any{"assigned_to": "auth0|dev"}, "auth0|lead")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := ms.bugs["bug-1"]
	if got.AssignedTo != "auth0|dev" {
		t.Errorf("assigned_to = %q", got.AssignedTo)
	}
	if got.Status != model.BugInProgress {
		t.Errorf("status = %q, want in_progress", got.Status)
	}
}

func TestAssignBugReport_MissingAssignee(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)

	w := doJSON(t, h, http.MethodPost, "/v1/bug-reports/bug-1/assign", map[string]any{}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestResolveBugReport(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugInProgress, model.SeverityHigh)

	w := doJSON(t, h, http.MethodPost, "/v1/bug-reports/bug-1/resolve",
		map[string]any{"resolution": "fixed in v1.2"}, "auth0|dev")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	got := ms.bugs["bug-1"]
	if got.Status != model.BugResolved {
		t.Errorf("status = %q, want resolved", got.Status)
	}
	if got.Resolution != "fixed in v1.2" {
		t.Errorf("resolution = %q", got.Resolution)
	}
	if got.ResolvedAt == nil {
		t.Error("resolved_at not stamped")
	}
}

func TestUpdateBugReport_ResolveTransitionStampsResolvedAt(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)

	w := doJSON(t, h, http.MethodPatch, "/v1/bug-reports/bug-1",
		map[string]any{"status": "resolved"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ms.bugs["bug-1"].ResolvedAt == nil {
		t.Error("resolved_at not stamped on status transition")
	}
}

func TestUploadScreenshot(t *testing.T) {
	ms := newMockStore()
	blobs := &fakeBlobStore{}
	srv := NewWorkspaceServer(ms, &events.NoopPublisher{}, blobs)
	h := srv.NewHTTPHandler("")
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)

	req := httptest.NewRequest(http.MethodPost, "/v1/bug-reports/bug-1/screenshot",
		bytes.NewReader([]byte("pretend-png-bytes")))
	req.Header.Set("Content-Type", "image/png")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(blobs.keys) != 1 || blobs.keys[0] != "bug-1.png" {
		t.Fatalf("keys = %v", blobs.keys)
	}
	if blobs.contentType != "image/png" {
		t.Errorf("content type = %q", blobs.contentType)
	}
	if ms.bugs["bug-1"].ScreenshotURL != "https://blobs.example.com/bug-1.png" {
		t.Errorf("screenshot_url = %q", ms.bugs["bug-1"].ScreenshotURL)
	}
}

func TestUploadScreenshot_NotConfigured(t *testing.T) {
	_, ms, h := newTestServer(t)
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)

	req := httptest.NewRequest(http.MethodPost, "/v1/bug-reports/bug-1/screenshot",
		bytes.NewReader([]byte("data")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d, want 501", w.Code)
	}
}

func TestUploadScreenshot_Empty(t *testing.T) {
	ms := newMockStore()
	srv := NewWorkspaceServer(ms, &events.NoopPublisher{}, &fakeBlobStore{})
	h := srv.NewHTTPHandler("")
	seedBug(ms, "bug-1", model.BugOpen, model.SeverityHigh)

	req := httptest.NewRequest(http.MethodPost, "/v1/bug-reports/bug-1/screenshot", bytes.NewReader(nil))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
