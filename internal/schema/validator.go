// Package schema implements the write-time validation gate for project
// records: a candidate record is checked against the project's current field
// definitions and the result is either an acceptance or the full ordered list
// of violation messages.
package schema

import (
	"context"
	"reflect"

	"golang.org/x/sync/errgroup"

	"github.com/groblegark/trellis/internal/model"
)

// SchemaSource supplies a project's field definitions, ordered by the field
// order column ascending with creation time as the tie-break. It fails with
// the store's not-found error when the project does not exist and returns an
// empty slice when the project exists but has no fields.
type SchemaSource interface {
	ListFields(ctx context.Context, projectID string) ([]*model.FieldDefinition, error)
}

// RecordSource supplies all existing records for a project. Used only for the
// uniqueness scan; may return an empty slice.
type RecordSource interface {
	ListRecords(ctx context.Context, projectID string) ([]*model.Record, error)
}

// Result is the outcome of validating one candidate record.
// Errors is always non-nil so the JSON form carries an empty array, not null.
type Result struct {
	Valid  bool     `json:"isValid"`
	Errors []string `json:"errors"`
}

// Validator checks candidate records against a project's schema. It holds no
// state of its own; both collaborators are injected so tests can use fakes.
type Validator struct {
	schema  SchemaSource
	records RecordSource
}

// NewValidator returns a Validator reading schema and records from the given sources.
func NewValidator(schema SchemaSource, records RecordSource) *Validator {
	return &Validator{schema: schema, records: records}
}

// Validate runs the full validation pass for a candidate record.
//
// The schema and the existing-record set are loaded concurrently; both reads
// complete before any check runs. Fields are then processed in schema order
// and every applicable check appends its message. Required, uniqueness, and
// type checks are independent and never short-circuit one another, so a
// single field can contribute more than one message.
//
// A nonexistent project is an error (propagated, never a validation message).
// A rejected record is not an error: the Result carries the violations.
//
// The uniqueness scan reads current records with no isolation against a
// concurrent insert; two in-flight submissions with the same value can both
// pass. Callers wanting a hard guarantee need a storage-level constraint.
func (v *Validator) Validate(ctx context.Context, projectID string, candidate map[string]any) (*Result, error) {
	var (
		fields   []*model.FieldDefinition
		existing []*model.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fields, err = v.schema.ListFields(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = v.records.ListRecords(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var msgs []string
	for _, f := range fields {
		value, ok := candidate[f.Title]
		present := ok && !isEmpty(value)

		if f.IsRequired && !present {
			msgs = append(msgs, f.Title+" is required")
		}

		if f.IsUnique && present && hasDuplicate(existing, f.Title, value) {
			msgs = append(msgs, f.Title+" must be unique")
		}

		if present {
			if check, ok := typeChecks[f.Type]; ok {
				if msg := check(value); msg != "" {
					msgs = append(msgs, f.Title+" "+msg)
				}
			}
		}
	}

	if len(msgs) > 0 {
		return &Result{Valid: false, Errors: msgs}, nil
	}
	return &Result{Valid: true, Errors: []string{}}, nil
}

// isEmpty reports whether a candidate value counts as absent: a missing key,
// an explicit null, and the empty string are all treated identically.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// hasDuplicate scans every existing record for an exact match of value under
// the given field title. Equality is case-sensitive and structural (JSON
// values decoded from the store compare by shape and content). Full scan, no
// index: record sets are per-project and small.
func hasDuplicate(records []*model.Record, title string, value any) bool {
	for _, r := range records {
		existing, ok := r.Data[title]
		if !ok {
			continue
		}
		if reflect.DeepEqual(existing, value) {
			return true
		}
	}
	return false
}
