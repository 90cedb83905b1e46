package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateProject checks a Project for constraint violations.
// It returns a *ValidationError if any rules fail, or nil if the project is valid.
func ValidateProject(p *Project) error {
	var ve ValidationError

	if strings.TrimSpace(p.Name) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(p.Name)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 200 characters or fewer"})
	}

	if p.OwnerID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "owner_id", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateFieldDefinition checks a FieldDefinition for constraint violations.
// This guards the shape of the schema itself; record values are checked
// separately against the schema at write time.
func ValidateFieldDefinition(f *FieldDefinition) error {
	var ve ValidationError

	if strings.TrimSpace(f.Title) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	}

	if f.ProjectID == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "project_id", Message: "is required"})
	}

	// Type: must be a valid enum value (closed set).
	if !f.Type.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "type",
			Message: fmt.Sprintf("invalid value %q", f.Type),
		})
	}

	if f.Order < 0 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "order",
			Message: fmt.Sprintf("must not be negative, got %d", f.Order),
		})
	}

	// Data / properties: must be valid JSON if present.
	if len(f.Data) > 0 && !json.Valid(f.Data) {
		ve.Errors = append(ve.Errors, FieldError{Field: "data", Message: "contains invalid JSON"})
	}
	if len(f.Properties) > 0 && !json.Valid(f.Properties) {
		ve.Errors = append(ve.Errors, FieldError{Field: "properties", Message: "contains invalid JSON"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateBugReport checks a BugReport for constraint violations.
func ValidateBugReport(b *BugReport) error {
	var ve ValidationError

	if strings.TrimSpace(b.Title) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	}
	if strings.TrimSpace(b.Description) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "description", Message: "is required"})
	}
	if !b.Severity.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "severity",
			Message: fmt.Sprintf("invalid value %q", b.Severity),
		})
	}
	if !b.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", b.Status),
		})
	}
	if b.Status == BugResolved && b.ResolvedAt == nil {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "resolved_at",
			Message: "is required when status is resolved",
		})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateContent checks a Content entry for constraint violations.
func ValidateContent(c *Content) error {
	var ve ValidationError

	if strings.TrimSpace(c.Title) == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	}
	if !c.Type.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "type",
			Message: fmt.Sprintf("invalid value %q", c.Type),
		})
	}
	if !c.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", c.Status),
		})
	}
	if len(c.Body) == 0 || !json.Valid(c.Body) {
		ve.Errors = append(ve.Errors, FieldError{Field: "content", Message: "must be a JSON document"})
	}
	if c.Language == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "language", Message: "is required"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
