package schema

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/store"
)

// fakeSource is an in-memory SchemaSource + RecordSource. Unknown project IDs
// fail with store.ErrNotFound, matching the schema store contract.
type fakeSource struct {
	fields  map[string][]*model.FieldDefinition
	records map[string][]*model.Record
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		fields:  make(map[string][]*model.FieldDefinition),
		records: make(map[string][]*model.Record),
	}
}

func (f *fakeSource) ListFields(_ context.Context, projectID string) ([]*model.FieldDefinition, error) {
	defs, ok := f.fields[projectID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return defs, nil
}

func (f *fakeSource) ListRecords(_ context.Context, projectID string) ([]*model.Record, error) {
	return f.records[projectID], nil
}

func field(title string, typ model.FieldType, required, unique bool) *model.FieldDefinition {
	return &model.FieldDefinition{
		Title:      title,
		Type:       typ,
		IsRequired: required,
		IsUnique:   unique,
	}
}

func validate(t *testing.T, src *fakeSource, projectID string, candidate map[string]any) *Result {
	t.Helper()
	res, err := NewValidator(src, src).Validate(context.Background(), projectID, candidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestValidate_NonexistentProject(t *testing.T) {
	src := newFakeSource()
	_, err := NewValidator(src, src).Validate(context.Background(), "prj-missing", map[string]any{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestValidate_EmptySchemaAlwaysValid(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = nil

	res := validate(t, src, "prj-1", map[string]any{"anything": "goes", "n": 42.0})
	if !res.Valid {
		t.Errorf("empty schema should accept any record, got errors: %v", res.Errors)
	}
	if res.Errors == nil || len(res.Errors) != 0 {
		t.Errorf("valid result must carry an empty (non-nil) error list, got %#v", res.Errors)
	}
}

func TestValidate_RequiredField(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Name", model.FieldText, true, false)}

	// Absent key, explicit nil, and empty string are all treated as missing.
	for _, candidate := range []map[string]any{
		{},
		{"Name": nil},
		{"Name": ""},
	} {
		res := validate(t, src, "prj-1", candidate)
		if res.Valid {
			t.Errorf("candidate %v should be rejected", candidate)
		}
		if len(res.Errors) != 1 || res.Errors[0] != "Name is required" {
			t.Errorf("candidate %v: got errors %v", candidate, res.Errors)
		}
	}

	res := validate(t, src, "prj-1", map[string]any{"Name": "Ada"})
	if !res.Valid {
		t.Errorf("present value should pass, got %v", res.Errors)
	}
}

func TestValidate_UniqueField(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Code", model.FieldText, false, true)}
	src.records["prj-1"] = []*model.Record{
		{ID: "rec-1", ProjectID: "prj-1", Data: map[string]any{"Code": "A1"}},
	}

	res := validate(t, src, "prj-1", map[string]any{"Code": "A1"})
	if res.Valid || len(res.Errors) != 1 || res.Errors[0] != "Code must be unique" {
		t.Errorf("duplicate value: got valid=%v errors=%v", res.Valid, res.Errors)
	}

	res = validate(t, src, "prj-1", map[string]any{"Code": "B2"})
	if !res.Valid {
		t.Errorf("fresh value should pass, got %v", res.Errors)
	}

	// Case-sensitive comparison: differing case is not a collision.
	res = validate(t, src, "prj-1", map[string]any{"Code": "a1"})
	if !res.Valid {
		t.Errorf("case-differing value should pass, got %v", res.Errors)
	}

	// Empty values are never checked for uniqueness.
	res = validate(t, src, "prj-1", map[string]any{"Code": ""})
	if !res.Valid {
		t.Errorf("empty value should skip the uniqueness check, got %v", res.Errors)
	}
}

func TestValidate_UniqueStructuralEquality(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Tags", model.FieldMultiSelect, false, true)}
	src.records["prj-1"] = []*model.Record{
		{Data: map[string]any{"Tags": []any{"a", "b"}}},
	}

	res := validate(t, src, "prj-1", map[string]any{"Tags": []any{"a", "b"}})
	if res.Valid {
		t.Error("structurally equal composite value should collide")
	}
	res = validate(t, src, "prj-1", map[string]any{"Tags": []any{"a", "c"}})
	if !res.Valid {
		t.Errorf("distinct composite value should pass, got %v", res.Errors)
	}
}

func TestValidate_NumberField(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Age", model.FieldNumber, false, false)}

	for _, tc := range []struct {
		value any
		valid bool
	}{
		{"abc", false},
		{"42", true},
		{42.0, true},
		{" 42 ", false},
		{"-3.5e2", true},
		{true, false},
		{[]any{1.0}, false},
	} {
		res := validate(t, src, "prj-1", map[string]any{"Age": tc.value})
		if res.Valid != tc.valid {
			t.Errorf("Age=%v: valid=%v want %v (errors %v)", tc.value, res.Valid, tc.valid, res.Errors)
		}
		if !tc.valid && res.Errors[0] != "Age must be a number" {
			t.Errorf("Age=%v: got message %q", tc.value, res.Errors[0])
		}
	}
}

func TestValidate_EmailField(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Email", model.FieldEmail, false, false)}

	for _, tc := range []struct {
		value string
		valid bool
	}{
		{"a@b.com", true},
		{"not-an-email", false},
		{"two@@b.com", false},
		{"a@b", false},
		{"a b@c.com", false},
		{"first.last@sub.domain.io", true},
	} {
		res := validate(t, src, "prj-1", map[string]any{"Email": tc.value})
		if res.Valid != tc.valid {
			t.Errorf("Email=%q: valid=%v want %v", tc.value, res.Valid, tc.valid)
		}
		if !tc.valid && res.Errors[0] != "Email must be a valid email" {
			t.Errorf("Email=%q: got message %q", tc.value, res.Errors[0])
		}
	}
}

func TestValidate_URLField(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Site", model.FieldURL, false, false)}

	for _, tc := range []struct {
		value string
		valid bool
	}{
		{"https://example.com/path?q=1", true},
		{"http://localhost:8080", true},
		{"example.com", false},
		{"/relative/path", false},
		{"ht tp://x", false},
	} {
		res := validate(t, src, "prj-1", map[string]any{"Site": tc.value})
		if res.Valid != tc.valid {
			t.Errorf("Site=%q: valid=%v want %v (errors %v)", tc.value, res.Valid, tc.valid, res.Errors)
		}
		if !tc.valid && res.Errors[0] != "Site must be a valid URL" {
			t.Errorf("Site=%q: got message %q", tc.value, res.Errors[0])
		}
	}
}

func TestValidate_DateField(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Due", model.FieldDate, false, false)}

	for _, tc := range []struct {
		value string
		valid bool
	}{
		{"2026-08-31", true},
		{"2026-08-31T12:00:00Z", true},
		{"01/15/2026", true},
		{"Jan 2, 2026", true},
		{"not-a-date", false},
		{"2026-13-45", false},
	} {
		res := validate(t, src, "prj-1", map[string]any{"Due": tc.value})
		if res.Valid != tc.valid {
			t.Errorf("Due=%q: valid=%v want %v", tc.value, res.Valid, tc.valid)
		}
		if !tc.valid && res.Errors[0] != "Due must be a valid date" {
			t.Errorf("Due=%q: got message %q", tc.value, res.Errors[0])
		}
	}
}

func TestValidate_PermissiveTypes(t *testing.T) {
	// Types without a structural check accept any present value.
	permissive := []model.FieldType{
		model.FieldText, model.FieldSelect, model.FieldMultiSelect,
		model.FieldCheckbox, model.FieldPhone, model.FieldFormula,
		model.FieldRelation, model.FieldRollup, model.FieldCreatedTime,
		model.FieldCreatedBy, model.FieldLastEditedTime, model.FieldLastEditedBy,
	}
	for _, typ := range permissive {
		src := newFakeSource()
		src.fields["prj-1"] = []*model.FieldDefinition{field("F", typ, false, false)}
		res := validate(t, src, "prj-1", map[string]any{"F": "!!!! utterly @@ nonsensical"})
		if !res.Valid {
			t.Errorf("type %q should be pass-through, got %v", typ, res.Errors)
		}
	}
}

func TestValidate_MessagesFollowFieldOrder(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{
		field("Email", model.FieldEmail, true, false),
		field("Age", model.FieldNumber, false, false),
	}

	res := validate(t, src, "prj-1", map[string]any{"Age": "oops"})
	want := []string{"Email is required", "Age must be a number"}
	if res.Valid || !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("got valid=%v errors=%v, want %v", res.Valid, res.Errors, want)
	}
}

func TestValidate_ChecksDoNotShortCircuit(t *testing.T) {
	// A present value that is both a duplicate and a type mismatch yields
	// both messages for the same field.
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Age", model.FieldNumber, true, true)}
	src.records["prj-1"] = []*model.Record{
		{Data: map[string]any{"Age": "oops"}},
	}

	res := validate(t, src, "prj-1", map[string]any{"Age": "oops"})
	want := []string{"Age must be unique", "Age must be a number"}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("got %v, want %v", res.Errors, want)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{
		field("Email", model.FieldEmail, true, false),
		field("Age", model.FieldNumber, false, false),
	}
	candidate := map[string]any{"Email": "a@b.com", "Age": "30"}

	for range 3 {
		res := validate(t, src, "prj-1", candidate)
		if !res.Valid {
			t.Fatalf("valid candidate rejected: %v", res.Errors)
		}
	}
}

func TestValidate_InfrastructureErrorPropagates(t *testing.T) {
	src := newFakeSource()
	src.fields["prj-1"] = []*model.FieldDefinition{field("Code", model.FieldText, false, true)}

	failing := &failingRecords{err: errors.New("connection reset")}
	_, err := NewValidator(src, failing).Validate(context.Background(), "prj-1", map[string]any{"Code": "x"})
	if err == nil || !errors.Is(err, failing.err) {
		t.Fatalf("expected record read error to propagate, got %v", err)
	}
}

type failingRecords struct{ err error }

func (f *failingRecords) ListRecords(context.Context, string) ([]*model.Record, error) {
	return nil, f.err
}
