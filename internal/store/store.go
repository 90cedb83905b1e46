package store

import (
	"context"
	"errors"

	"github.com/groblegark/trellis/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
// Implementations map their driver-level sentinel (e.g. sql.ErrNoRows) to it.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the workspace.
type Store interface {
	// Users
	UpsertUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
	GetUserStats(ctx context.Context, id string) (*model.UserStats, error)

	// Projects
	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]*model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id string) error

	// Field definitions (the project schema)
	CreateField(ctx context.Context, field *model.FieldDefinition) error
	GetField(ctx context.Context, id string) (*model.FieldDefinition, error)
	ListFields(ctx context.Context, projectID string) ([]*model.FieldDefinition, error)
	ListFieldsByType(ctx context.Context, projectID string, fieldType model.FieldType) ([]*model.FieldDefinition, error)
	UpdateField(ctx context.Context, field *model.FieldDefinition) error
	DeleteField(ctx context.Context, id string) error

	// Records
	CreateRecord(ctx context.Context, record *model.Record) error
	GetRecord(ctx context.Context, id string) (*model.Record, error)
	ListRecords(ctx context.Context, projectID string) ([]*model.Record, error)
	UpdateRecord(ctx context.Context, record *model.Record) error
	DeleteRecord(ctx context.Context, id string) error

	// Bug reports
	CreateBugReport(ctx context.Context, report *model.BugReport) error
	GetBugReport(ctx context.Context, id string) (*model.BugReport, error)
	ListBugReports(ctx context.Context, filter model.BugReportFilter) ([]*model.BugReport, error)
	UpdateBugReport(ctx context.Context, report *model.BugReport) error
	DeleteBugReport(ctx context.Context, id string) error
	GetBugReportStats(ctx context.Context) (*model.BugReportStats, error)

	// Dynamic content
	CreateContent(ctx context.Context, content *model.Content) error
	GetContent(ctx context.Context, id string) (*model.Content, error)
	ListContent(ctx context.Context, filter model.ContentFilter) ([]*model.Content, error)
	GetActiveContent(ctx context.Context, contentType model.ContentType, language string) (*model.Content, error)
	UpdateContent(ctx context.Context, content *model.Content) error
	DeleteContent(ctx context.Context, id string) error
	GetContentStats(ctx context.Context) (*model.ContentStats, error)

	// Events (audit log)
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, entityID string) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
