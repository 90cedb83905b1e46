package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/schema"
)

// HTTPClient implements WorkspaceClient using the trellis HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	userID     string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request; when userID is non-empty it is sent as
// the X-User-ID header so the server can attribute writes.
func NewHTTPClient(baseURL, token, userID string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		userID:     userID,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Projects ---

func (c *HTTPClient) CreateProject(ctx context.Context, req *CreateProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.doJSON(ctx, http.MethodPost, "/v1/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) GetProject(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	if err := c.doJSON(ctx, http.MethodGet, "/v1/projects/"+url.PathEscape(id), nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var resp struct {
		Projects []*model.Project `json:"projects"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *HTTPClient) UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*model.Project, error) {
	var project model.Project
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/projects/"+url.PathEscape(id), req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/projects/"+url.PathEscape(id), nil, nil)
}

// --- Fields ---

func (c *HTTPClient) CreateField(ctx context.Context, projectID string, req *CreateFieldRequest) (*model.FieldDefinition, error) {
	var field model.FieldDefinition
	path := "/v1/projects/" + url.PathEscape(projectID) + "/fields"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

func (c *HTTPClient) GetField(ctx context.Context, id string) (*model.FieldDefinition, error) {
	var field model.FieldDefinition
	if err := c.doJSON(ctx, http.MethodGet, "/v1/fields/"+url.PathEscape(id), nil, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

func (c *HTTPClient) ListFields(ctx context.Context, projectID, fieldType string) ([]*model.FieldDefinition, error) {
	path := "/v1/projects/" + url.PathEscape(projectID) + "/fields"
	if fieldType != "" {
		path += "?type=" + url.QueryEscape(fieldType)
	}
	var resp struct {
		Fields []*model.FieldDefinition `json:"fields"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

func (c *HTTPClient) GetSchema(ctx context.Context, projectID string) (*SchemaResponse, error) {
	var resp SchemaResponse
	path := "/v1/projects/" + url.PathEscape(projectID) + "/schema"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateField(ctx context.Context, id string, req *UpdateFieldRequest) (*model.FieldDefinition, error) {
	var field model.FieldDefinition
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/fields/"+url.PathEscape(id), req, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

func (c *HTTPClient) DeleteField(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/fields/"+url.PathEscape(id), nil, nil)
}

// --- Records ---

// CreateRecord submits a record for validation and storage. On a schema
// validation failure the server's result is returned alongside a nil record
// so callers can show per-field messages.
func (c *HTTPClient) CreateRecord(ctx context.Context, projectID string, data map[string]any) (*model.Record, *schema.Result, error) {
	body := map[string]any{"record_data": data}
	path := "/v1/projects/" + url.PathEscape(projectID) + "/records"

	var record model.Record
	err := c.doJSON(ctx, http.MethodPost, path, body, &record)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
			var result schema.Result
			if json.Unmarshal(apiErr.Body, &result) == nil && !result.Valid {
				return nil, &result, nil
			}
		}
		return nil, nil, err
	}
	return &record, nil, nil
}

func (c *HTTPClient) GetRecord(ctx context.Context, id string) (*model.Record, error) {
	var record model.Record
	if err := c.doJSON(ctx, http.MethodGet, "/v1/records/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) ListRecords(ctx context.Context, projectID string) ([]*model.Record, error) {
	var resp struct {
		Records []*model.Record `json:"records"`
	}
	path := "/v1/projects/" + url.PathEscape(projectID) + "/records"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *HTTPClient) ValidateRecord(ctx context.Context, projectID string, data map[string]any) (*schema.Result, error) {
	body := map[string]any{"record_data": data}
	path := "/v1/projects/" + url.PathEscape(projectID) + "/validate"
	var result schema.Result
	if err := c.doJSON(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, id string, data map[string]any) (*model.Record, error) {
	body := map[string]any{"record_data": data}
	var record model.Record
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/records/"+url.PathEscape(id), body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/records/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) GetRecordEvents(ctx context.Context, id string) ([]*model.Event, error) {
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	path := "/v1/records/" + url.PathEscape(id) + "/events"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Bug reports ---

func (c *HTTPClient) CreateBugReport(ctx context.Context, req *CreateBugReportRequest) (*model.BugReport, error) {
	var report model.BugReport
	if err := c.doJSON(ctx, http.MethodPost, "/v1/bug-reports", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) GetBugReport(ctx context.Context, id string) (*model.BugReport, error) {
	var report model.BugReport
	if err := c.doJSON(ctx, http.MethodGet, "/v1/bug-reports/"+url.PathEscape(id), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) ListBugReports(ctx context.Context, req *ListBugReportsRequest) ([]*model.BugReport, error) {
	q := url.Values{}
	if req != nil {
		if req.Status != "" {
			q.Set("status", req.Status)
		}
		if req.Severity != "" {
			q.Set("severity", req.Severity)
		}
		if req.ProjectID != "" {
			q.Set("project_id", req.ProjectID)
		}
	}
	path := "/v1/bug-reports"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		BugReports []*model.BugReport `json:"bug_reports"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.BugReports, nil
}

func (c *HTTPClient) GetBugReportStats(ctx context.Context) (*model.BugReportStats, error) {
	var stats model.BugReportStats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/bug-reports/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *HTTPClient) UpdateBugReport(ctx context.Context, id string, req *UpdateBugReportRequest) (*model.BugReport, error) {
	var report model.BugReport
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/bug-reports/"+url.PathEscape(id), req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) DeleteBugReport(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/bug-reports/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) AssignBugReport(ctx context.Context, id, assignedTo string) (*model.BugReport, error) {
	body := map[string]string{"assigned_to": assignedTo}
	var report model.BugReport
	path := "/v1/bug-reports/" + url.PathEscape(id) + "/assign"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *HTTPClient) ResolveBugReport(ctx context.Context, id, resolution string) (*model.BugReport, error) {
	body := map[string]string{"resolution": resolution}
	var report model.BugReport
	path := "/v1/bug-reports/" + url.PathEscape(id) + "/resolve"
	if err := c.doJSON(ctx, http.MethodPost, path, body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// UploadScreenshot posts raw image bytes and returns the stored object URL.
func (c *HTTPClient) UploadScreenshot(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	path := "/v1/bug-reports/" + url.PathEscape(id) + "/screenshot"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", newAPIError(resp.StatusCode, respBody)
	}

	var out struct {
		ScreenshotURL string `json:"screenshot_url"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return out.ScreenshotURL, nil
}

// --- Content ---

func (c *HTTPClient) CreateContent(ctx context.Context, req *CreateContentRequest) (*model.Content, error) {
	var content model.Content
	if err := c.doJSON(ctx, http.MethodPost, "/v1/content", req, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *HTTPClient) GetContent(ctx context.Context, id string) (*model.Content, error) {
	var content model.Content
	if err := c.doJSON(ctx, http.MethodGet, "/v1/content/"+url.PathEscape(id), nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *HTTPClient) ListContent(ctx context.Context, req *ListContentRequest) ([]*model.Content, error) {
	q := url.Values{}
	if req != nil {
		if req.Type != "" {
			q.Set("type", req.Type)
		}
		if req.Status != "" {
			q.Set("status", req.Status)
		}
		if req.Language != "" {
			q.Set("language", req.Language)
		}
		if req.IsActive != nil {
			q.Set("is_active", fmt.Sprintf("%t", *req.IsActive))
		}
	}
	path := "/v1/content"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Content []*model.Content `json:"content"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Content, nil
}

func (c *HTTPClient) GetContentStats(ctx context.Context) (*model.ContentStats, error) {
	var stats model.ContentStats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/content/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetPublicContent fetches the rendered public payload for a content type.
// The raw JSON is returned as-is since the body shape depends on the type.
func (c *HTTPClient) GetPublicContent(ctx context.Context, contentType, language string) (json.RawMessage, error) {
	path := "/v1/content/public/" + url.PathEscape(contentType)
	if language != "" {
		path += "?language=" + url.QueryEscape(language)
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) UpdateContent(ctx context.Context, id string, req *UpdateContentRequest) (*model.Content, error) {
	var content model.Content
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/content/"+url.PathEscape(id), req, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *HTTPClient) DeleteContent(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/content/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) PublishContent(ctx context.Context, id string) (*model.Content, error) {
	var content model.Content
	path := "/v1/content/" + url.PathEscape(id) + "/publish"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *HTTPClient) ArchiveContent(ctx context.Context, id string) (*model.Content, error) {
	var content model.Content
	path := "/v1/content/" + url.PathEscape(id) + "/archive"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *HTTPClient) DuplicateContent(ctx context.Context, id string) (*model.Content, error) {
	var content model.Content
	path := "/v1/content/" + url.PathEscape(id) + "/duplicate"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// --- Users ---

func (c *HTTPClient) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]*model.User, error) {
	var resp struct {
		Users []*model.User `json:"users"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *HTTPClient) GetUserStats(ctx context.Context, id string) (*model.UserStats, error) {
	var stats model.UserStats
	path := "/v1/users/" + url.PathEscape(id) + "/stats"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server. Body holds the raw
// response so callers can decode structured failures (validation results).
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error, Body: body}
	}
	return &APIError{StatusCode: status, Message: string(body), Body: body}
}

func (c *HTTPClient) setAuthHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
