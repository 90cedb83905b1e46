// Package server exposes the workspace API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/groblegark/trellis/internal/blob"
	"github.com/groblegark/trellis/internal/events"
	"github.com/groblegark/trellis/internal/model"
	"github.com/groblegark/trellis/internal/schema"
	"github.com/groblegark/trellis/internal/store"
)

// WorkspaceServer holds the HTTP handler state: storage, the record
// validator, the event publisher, and optional screenshot storage.
type WorkspaceServer struct {
	store       store.Store
	publisher   events.Publisher
	validator   *schema.Validator
	screenshots blob.Store // nil when no bucket is configured
	sseHub      *sseHub
}

// NewWorkspaceServer returns a new WorkspaceServer backed by the given store
// and publisher. screenshots may be nil; screenshot uploads are then rejected.
func NewWorkspaceServer(s store.Store, p events.Publisher, screenshots blob.Store) *WorkspaceServer {
	return &WorkspaceServer{
		store:       s,
		publisher:   p,
		validator:   schema.NewValidator(s, s),
		screenshots: screenshots,
		sseHub:      newSSEHub(),
	}
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *WorkspaceServer) recordAndPublish(ctx context.Context, topic, entityID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "entity_id", entityID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:    topic,
		EntityID: entityID,
		Actor:    actor,
		Payload:  payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "entity_id", entityID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "entity_id", entityID, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// inputError indicates invalid user input.
// The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
