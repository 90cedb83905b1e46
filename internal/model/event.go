package model

import (
	"encoding/json"
	"time"
)

// Event is a persisted audit-log entry describing something that happened to
// a workspace entity. EntityID is the primary entity the event concerns
// (project, record, bug report, content entry).
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	EntityID  string          `json:"entity_id"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
