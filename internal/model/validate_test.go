package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// validField returns a FieldDefinition that passes all validation rules.
func validField() FieldDefinition {
	return FieldDefinition{
		ProjectID: "prj-abc123",
		Title:     "Email",
		Type:      FieldEmail,
	}
}

// fieldErrors extracts a *ValidationError from err or fails the test.
func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	return ve.Errors
}

// hasFieldError reports whether the error list contains an error for the given field.
func hasFieldError(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestValidateFieldDefinition_Valid(t *testing.T) {
	f := validField()
	if err := ValidateFieldDefinition(&f); err != nil {
		t.Errorf("expected valid field definition, got: %v", err)
	}
}

func TestValidateFieldDefinition_TitleRequired(t *testing.T) {
	f := validField()
	f.Title = "   \t  "
	errs := fieldErrors(t, ValidateFieldDefinition(&f))
	if !hasFieldError(errs, "title") {
		t.Error("expected error on field 'title' for whitespace-only title")
	}
}

func TestValidateFieldDefinition_ProjectRequired(t *testing.T) {
	f := validField()
	f.ProjectID = ""
	errs := fieldErrors(t, ValidateFieldDefinition(&f))
	if !hasFieldError(errs, "project_id") {
		t.Error("expected error on field 'project_id'")
	}
}

func TestValidateFieldDefinition_UnknownType(t *testing.T) {
	f := validField()
	f.Type = "geolocation"
	errs := fieldErrors(t, ValidateFieldDefinition(&f))
	if !hasFieldError(errs, "type") {
		t.Error("expected error on field 'type' for unknown type")
	}
}

func TestValidateFieldDefinition_AllDeclaredTypesAccepted(t *testing.T) {
	for _, typ := range []FieldType{
		FieldText, FieldNumber, FieldSelect, FieldMultiSelect, FieldDate,
		FieldCheckbox, FieldURL, FieldEmail, FieldPhone, FieldFormula,
		FieldRelation, FieldRollup, FieldCreatedTime, FieldCreatedBy,
		FieldLastEditedTime, FieldLastEditedBy,
	} {
		f := validField()
		f.Type = typ
		if err := ValidateFieldDefinition(&f); err != nil {
			t.Errorf("type %q should be valid, got: %v", typ, err)
		}
	}
}

func TestValidateFieldDefinition_NegativeOrder(t *testing.T) {
	f := validField()
	f.Order = -1
	errs := fieldErrors(t, ValidateFieldDefinition(&f))
	if !hasFieldError(errs, "order") {
		t.Error("expected error on field 'order' for negative order")
	}
}

func TestValidateFieldDefinition_InvalidDataJSON(t *testing.T) {
	f := validField()
	f.Data = json.RawMessage(`{"options": [`)
	errs := fieldErrors(t, ValidateFieldDefinition(&f))
	if !hasFieldError(errs, "data") {
		t.Error("expected error on field 'data' for invalid JSON")
	}
}

func TestValidateFieldDefinition_MultipleErrorsAccumulate(t *testing.T) {
	f := FieldDefinition{Type: "bogus", Order: -5}
	errs := fieldErrors(t, ValidateFieldDefinition(&f))
	for _, field := range []string{"title", "project_id", "type", "order"} {
		if !hasFieldError(errs, field) {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestValidateProject(t *testing.T) {
	p := Project{OwnerID: "user_1", Name: "CRM"}
	if err := ValidateProject(&p); err != nil {
		t.Errorf("expected valid project, got: %v", err)
	}

	p.Name = strings.Repeat("x", 201)
	errs := fieldErrors(t, ValidateProject(&p))
	if !hasFieldError(errs, "name") {
		t.Error("expected error on field 'name' for over-long name")
	}

	p = Project{}
	errs = fieldErrors(t, ValidateProject(&p))
	if !hasFieldError(errs, "name") || !hasFieldError(errs, "owner_id") {
		t.Errorf("expected errors on name and owner_id, got: %v", errs)
	}
}

func TestValidateBugReport(t *testing.T) {
	b := BugReport{
		Title:       "Sidebar crash",
		Description: "Opening the sidebar twice crashes the page",
		Severity:    SeverityHigh,
		Status:      BugOpen,
	}
	if err := ValidateBugReport(&b); err != nil {
		t.Errorf("expected valid bug report, got: %v", err)
	}

	b.Status = BugResolved
	errs := fieldErrors(t, ValidateBugReport(&b))
	if !hasFieldError(errs, "resolved_at") {
		t.Error("expected error on 'resolved_at' when resolved without timestamp")
	}

	now := time.Now().UTC()
	b.ResolvedAt = &now
	if err := ValidateBugReport(&b); err != nil {
		t.Errorf("resolved report with timestamp should be valid, got: %v", err)
	}

	b = BugReport{Severity: "extreme", Status: "wontfix"}
	errs = fieldErrors(t, ValidateBugReport(&b))
	for _, field := range []string{"title", "description", "severity", "status"} {
		if !hasFieldError(errs, field) {
			t.Errorf("expected error on field %q", field)
		}
	}
}

func TestValidateContent(t *testing.T) {
	c := Content{
		Title:    "Launch pricing",
		Type:     ContentPricing,
		Status:   ContentDraft,
		Body:     json.RawMessage(`{"plans":[]}`),
		Language: "en",
	}
	if err := ValidateContent(&c); err != nil {
		t.Errorf("expected valid content, got: %v", err)
	}

	c.Body = nil
	c.Language = ""
	errs := fieldErrors(t, ValidateContent(&c))
	if !hasFieldError(errs, "content") || !hasFieldError(errs, "language") {
		t.Errorf("expected errors on content and language, got: %v", errs)
	}
}
