// Package client provides a transport-agnostic interface for the trellis
// service and an HTTP/JSON implementation that talks to the trellis REST API.
package client

import (
	"context"
	"encoding/json"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/schema"
)

// WorkspaceClient is the interface that all trellis CLI commands use to
// communicate with the trellis server. It is implemented by HTTPClient
// (default) and can be backed by any transport.
type WorkspaceClient interface {
	// Projects
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Fields
	CreateField(ctx context.Context, projectID string, req *CreateFieldRequest) (*model.FieldDefinition, error)
	GetField(ctx context.Context, id string) (*model.FieldDefinition, error)
	ListFields(ctx context.Context, projectID, fieldType string) ([]*model.FieldDefinition, error)
	GetSchema(ctx context.Context, projectID string) (*SchemaResponse, error)
	UpdateField(ctx context.Context, id string, req *UpdateFieldRequest) (*model.FieldDefinition, error)
	DeleteField(ctx context.Context, id string) error

	// Records
	CreateRecord(ctx context.Context, projectID string, data map[string]any) (*model.Record, *schema.Result, error)
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	ListRecords(ctx context.Context, projectID string) ([]*model.Record, error)
	ValidateRecord(ctx context.Context, projectID string, data map[string]any) (*schema.Result, error)
	UpdateRecord(ctx context.Context, id string, data map[string]any) (*model.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	GetRecordEvents(ctx context.Context, id string) ([]*model.Event, error)

	// Bug reports
	CreateBugReport(ctx context.Context, req *CreateBugReportRequest) (*model.BugReport, error)
	GetBugReport(ctx context.Context, id string) (*model.BugReport, error)
	ListBugReports(ctx context.Context, req *ListBugReportsRequest) ([]*model.BugReport, error)
	GetBugReportStats(ctx context.Context) (*model.BugReportStats, error)
	UpdateBugReport(ctx context.Context, id string, req *UpdateBugReportRequest) (*model.BugReport, error)
	DeleteBugReport(ctx context.Context, id string) error
	AssignBugReport(ctx context.Context, id, assignedTo string) (*model.BugReport, error)
	ResolveBugReport(ctx context.Context, id, resolution string) (*model.BugReport, error)
	UploadScreenshot(ctx context.Context, id string, data []byte, contentType string) (string, error)

	// Content
	CreateContent(ctx context.Context, req *CreateContentRequest) (*model.Content, error)
	GetContent(ctx context.Context, id string) (*model.Content, error)
	ListContent(ctx context.Context, req *ListContentRequest) ([]*model.Content, error)
	GetContentStats(ctx context.Context) (*model.ContentStats, error)
	GetPublicContent(ctx context.Context, contentType, language string) (json.RawMessage, error)
	UpdateContent(ctx context.Context, id string, req *UpdateContentRequest) (*model.Content, error)
	DeleteContent(ctx context.Context, id string) error
	PublishContent(ctx context.Context, id string) (*model.Content, error)
	ArchiveContent(ctx context.Context, id string) (*model.Content, error)
	DuplicateContent(ctx context.Context, id string) (*model.Content, error)

	// Users
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUserStats(ctx context.Context, id string) (*model.UserStats, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateProjectRequest holds parameters for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	IsPublic    bool   `json:"is_public,omitempty"`
}

// UpdateProjectRequest holds optional parameters for updating a project.
// Nil pointer fields mean "don't change".
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Color       *string `json:"color,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// CreateFieldRequest holds parameters for adding a field to a project schema.
type CreateFieldRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	Data        json.RawMessage `json:"data,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	IsRequired  bool            `json:"is_required,omitempty"`
	IsUnique    bool            `json:"is_unique,omitempty"`
	Order       int             `json:"order,omitempty"`
}

// UpdateFieldRequest holds optional parameters for updating a field.
type UpdateFieldRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Type        *string         `json:"type,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	IsRequired  *bool           `json:"is_required,omitempty"`
	IsUnique    *bool           `json:"is_unique,omitempty"`
	Order       *int            `json:"order,omitempty"`
}

// SchemaResponse is the ordered field list records are validated against.
type SchemaResponse struct {
	ProjectID string                   `json:"project_id"`
	Fields    []*model.FieldDefinition `json:"fields"`
}

// CreateBugReportRequest holds parameters for filing a bug report.
type CreateBugReportRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	StepsToReproduce string   `json:"steps_to_reproduce,omitempty"`
	ExpectedBehavior string   `json:"expected_behavior,omitempty"`
	ActualBehavior   string   `json:"actual_behavior,omitempty"`
	Severity         string   `json:"severity,omitempty"`
	Browser          string   `json:"browser,omitempty"`
	OperatingSystem  string   `json:"operating_system,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	ProjectID        string   `json:"project_id,omitempty"`
	PageURL          string   `json:"page_url,omitempty"`
}

// ListBugReportsRequest holds filters for listing bug reports.
type ListBugReportsRequest struct {
	Status    string
	Severity  string
	ProjectID string
}

// UpdateBugReportRequest holds optional parameters for updating a bug report.
type UpdateBugReportRequest struct {
	Title            *string  `json:"title,omitempty"`
	Description      *string  `json:"description,omitempty"`
	StepsToReproduce *string  `json:"steps_to_reproduce,omitempty"`
	ExpectedBehavior *string  `json:"expected_behavior,omitempty"`
	ActualBehavior   *string  `json:"actual_behavior,omitempty"`
	Severity         *string  `json:"severity,omitempty"`
	Status           *string  `json:"status,omitempty"`
	Browser          *string  `json:"browser,omitempty"`
	OperatingSystem  *string  `json:"operating_system,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	PageURL          *string  `json:"page_url,omitempty"`
}

// CreateContentRequest holds parameters for creating a content entry.
type CreateContentRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	Body        json.RawMessage `json:"content"`
	Status      string          `json:"status,omitempty"`
	Version     string          `json:"version,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	Language    string          `json:"language,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// ListContentRequest holds filters for listing content entries.
type ListContentRequest struct {
	Type     string
	Status   string
	Language string
	IsActive *bool
}

// UpdateContentRequest holds optional parameters for updating a content entry.
type UpdateContentRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Type        *string         `json:"type,omitempty"`
	Body        json.RawMessage `json:"content,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Version     *string         `json:"version,omitempty"`
	IsActive    *bool           `json:"is_active,omitempty"`
	Language    *string         `json:"language,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Notes       *string         `json:"notes,omitempty"`
}
