package events

import (
	"context"

	"github.com/groblegark/trellis/internal/model"
)

// Event topic constants
const (
	TopicProjectCreated = "trellis.project.created"
	TopicProjectUpdated = "trellis.project.updated"
	TopicProjectDeleted = "trellis.project.deleted"

	TopicFieldCreated = "trellis.field.created"
	TopicFieldUpdated = "trellis.field.updated"
	TopicFieldDeleted = "trellis.field.deleted"

	TopicRecordCreated = "trellis.record.created"
	TopicRecordUpdated = "trellis.record.updated"
	TopicRecordDeleted = "trellis.record.deleted"

	// Bug report events
	TopicBugReported = "trellis.bug.reported"
	TopicBugUpdated  = "trellis.bug.updated"
	TopicBugAssigned = "trellis.bug.assigned"
	TopicBugResolved = "trellis.bug.resolved"

	// Content lifecycle events
	TopicContentCreated   = "trellis.content.created"
	TopicContentPublished = "trellis.content.published"
	TopicContentArchived  = "trellis.content.archived"
)

// Event types

type ProjectCreated struct {
	Project *model.Project `json:"project"`
}

type ProjectUpdated struct {
	Project *model.Project `json:"project"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type ProjectDeleted struct {
	ProjectID string `json:"project_id"`
}

type FieldCreated struct {
	Field *model.FieldDefinition `json:"field"`
}

type FieldUpdated struct {
	Field   *model.FieldDefinition `json:"field"`
	Changes map[string]any         `json:"changes"`
}

type FieldDeleted struct {
	FieldID   string `json:"field_id"`
	ProjectID string `json:"project_id"`
}

type RecordCreated struct {
	Record *model.Record `json:"record"`
}

type RecordUpdated struct {
	Record *model.Record `json:"record"`
}

type RecordDeleted struct {
	RecordID  string `json:"record_id"`
	ProjectID string `json:"project_id"`
}

// Bug report events

type BugReported struct {
	Report *model.BugReport `json:"report"`
}

type BugUpdated struct {
	Report  *model.BugReport `json:"report"`
	Changes map[string]any   `json:"changes"`
}

type BugAssigned struct {
	ReportID   string `json:"report_id"`
	AssignedTo string `json:"assigned_to"`
}

type BugResolved struct {
	ReportID   string `json:"report_id"`
	Resolution string `json:"resolution"`
}

// Content lifecycle events

type ContentCreated struct {
	Content *model.Content `json:"content"`
}

type ContentPublished struct {
	Content     *model.Content `json:"content"`
	PublishedBy string         `json:"published_by,omitempty"`
}

type ContentArchived struct {
	ContentID string `json:"content_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
