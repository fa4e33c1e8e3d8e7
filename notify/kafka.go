// Package notify implements the Notification Queue producer (Kafka)
// and a live websocket fan-out for admin dashboards. Emission is
// best-effort and post-commit (spec §7, §9): a failure here logs a
// warning and never rolls back the primary write.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// EventType enumerates the Notification Queue event types (spec §6).
type EventType string

const (
	EventResultReported       EventType = "result_reported"
	EventResultPendingConfirm EventType = "result_pending_confirmation"
	EventResultConfirmed      EventType = "result_confirmed"
	EventResultDisputed       EventType = "result_disputed"
	EventIncidentResolved     EventType = "incident_resolved"
)

// Event is emitted as one Kafka record per notification (spec §6).
type Event struct {
	Tenant     uuid.UUID      `json:"tenant"`
	Type       EventType      `json:"type"`
	Recipients []uuid.UUID    `json:"recipients"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	Data       map[string]any `json:"data,omitempty"`
}

type KafkaConfig struct {
	BootstrapServers string
}

// Producer caches one kafka.Writer per tenant-scoped topic, mirroring
// the per-topic writer cache the retrieved pack's Kafka client uses.
type Producer struct {
	brokers []string
	writers map[string]*kafka.Writer
}

func NewProducer(cfg KafkaConfig) *Producer {
	return &Producer{
		brokers: strings.Split(cfg.BootstrapServers, ","),
		writers: make(map[string]*kafka.Writer),
	}
}

func (p *Producer) topic(tenant uuid.UUID) string {
	return "tournament-notifications." + tenant.String()
}

func (p *Producer) writerFor(topic string) *kafka.Writer {
	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	p.writers[topic] = w
	return w
}

// Publish writes ev to the tenant's notification topic. Failures are
// logged by the caller and never propagated into the write path.
func (p *Producer) Publish(ctx context.Context, ev Event) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(ev.Type),
		Value: value,
		Time:  time.Now().UTC(),
	}
	w := p.writerFor(p.topic(ev.Tenant))
	if err := w.WriteMessages(ctx, msg); err != nil {
		slog.Warn("failed to publish notification", "type", ev.Type, "tenant", ev.Tenant, "error", err)
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	var firstErr error
	for _, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dedup returns the union of recipient sets with duplicates removed,
// per spec §4.8's "deduplicated union" requirement.
func Dedup(groups ...[]uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, g := range groups {
		for _, id := range g {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
