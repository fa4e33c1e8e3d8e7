// Package audit implements the Audit Sink (spec §6): an append-only,
// schema-opaque destination for one row per write. Producers never
// read from it, matching spec §5's "shared resources" note.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type Event struct {
	TenantID  uuid.UUID      `bson:"tenant_id"`
	RequestID string         `bson:"request_id"`
	Actor     uuid.UUID      `bson:"actor"`
	Action    string         `bson:"action"`
	Entity    string         `bson:"entity"`
	EntityID  uuid.UUID      `bson:"entity_id"`
	Detail    map[string]any `bson:"detail,omitempty"`
	At        time.Time      `bson:"at"`
}

type Sink struct {
	collection *mongo.Collection
}

func NewSink(db *mongo.Database) *Sink {
	return &Sink{collection: db.Collection("audit_events")}
}

// Record inserts one audit row. Best-effort: callers log a warning on
// failure and do not roll back the primary operation (spec §7).
func (s *Sink) Record(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	_, err := s.collection.InsertOne(ctx, ev)
	return err
}
