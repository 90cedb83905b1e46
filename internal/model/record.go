package model

import "time"

// Record is one row of data stored against a project, keyed by field title.
// Data is validated against the project schema at write time only; it is not
// re-checked on read and is not guaranteed to match the current schema if the
// schema changed after the record was written.
type Record struct {
	ID        string         `json:"id"`
	ProjectID string         `json:"project_id"`
	Data      map[string]any `json:"record_data"`
	CreatedBy string         `json:"created_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
