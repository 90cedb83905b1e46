package model

import (
	"encoding/json"
	"time"
)

// FieldType is the declared type of a project schema field.
type FieldType string

const (
	FieldText           FieldType = "text"
	FieldNumber         FieldType = "number"
	FieldSelect         FieldType = "select"
	FieldMultiSelect    FieldType = "multi_select"
	FieldDate           FieldType = "date"
	FieldCheckbox       FieldType = "checkbox"
	FieldURL            FieldType = "url"
	FieldEmail          FieldType = "email"
	FieldPhone          FieldType = "phone"
	FieldFormula        FieldType = "formula"
	FieldRelation       FieldType = "relation"
	FieldRollup         FieldType = "rollup"
	FieldCreatedTime    FieldType = "created_time"
	FieldCreatedBy      FieldType = "created_by"
	FieldLastEditedTime FieldType = "last_edited_time"
	FieldLastEditedBy   FieldType = "last_edited_by"
)

// String returns the string representation of the field type.
func (t FieldType) String() string {
	return string(t)
}

// IsValid checks whether the field type is a known value.
func (t FieldType) IsValid() bool {
	switch t {
	case FieldText, FieldNumber, FieldSelect, FieldMultiSelect, FieldDate,
		FieldCheckbox, FieldURL, FieldEmail, FieldPhone, FieldFormula,
		FieldRelation, FieldRollup, FieldCreatedTime, FieldCreatedBy,
		FieldLastEditedTime, FieldLastEditedBy:
		return true
	}
	return false
}

// FieldDefinition is one declared column in a project's dynamic schema.
// Title doubles as the lookup key into a record's value map. Data and
// Properties are type-dependent JSON payloads (e.g. select option lists,
// presentation metadata) kept opaque above the storage edge.
type FieldDefinition struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"project_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Type        FieldType       `json:"type"`
	Data        json.RawMessage `json:"data,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
	IsRequired  bool            `json:"is_required"`
	IsUnique    bool            `json:"is_unique"`
	Order       int             `json:"order"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
