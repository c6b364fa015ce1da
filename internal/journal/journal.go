// internal/journal/journal.go
package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrConcurrencyConflict = errors.New("concurrency conflict: version mismatch")
	ErrInvalidVersion      = errors.New("invalid version number")
	ErrEmptyEventType      = errors.New("event type is required")
)

// Event is one recorded change to an aggregate.
type Event struct {
	ID            int64           `json:"id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	EventData     json.RawMessage `json:"event_data"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewEvent encodes data as the payload of an event of the given type.
func NewEvent(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return Event{EventType: eventType, EventData: raw}, nil
}

// Journal is an append-only, in-memory event log with per-aggregate
// optimistic concurrency. Event IDs are global and strictly increasing.
type Journal struct {
	mu       sync.RWMutex
	events   []Event
	versions map[uuid.UUID]int
	now      func() time.Time
	tracer   trace.Tracer
}

// New creates an empty journal.
func New() *Journal {
	return &Journal{
		versions: make(map[uuid.UUID]int),
		now:      func() time.Time { return time.Now().UTC() },
		tracer:   otel.Tracer("productdash/journal"),
	}
}

// Append atomically appends events to an aggregate. expectedVersion must
// equal the aggregate's current version, zero for a new aggregate.
func (j *Journal) Append(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []Event) error {
	_, span := j.tracer.Start(ctx, "journal.append",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.String("aggregate.type", aggregateType),
			attribute.Int("expected.version", expectedVersion),
			attribute.Int("event.count", len(events)),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return err
	}
	if expectedVersion < 0 {
		return ErrInvalidVersion
	}
	for i, e := range events {
		if e.EventType == "" {
			return fmt.Errorf("event %d: %w", i, ErrEmptyEventType)
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	current := j.versions[aggregateID]
	if current != expectedVersion {
		span.SetAttributes(
			attribute.Int("actual.version", current),
			attribute.Bool("conflict.detected", true),
		)
		return ErrConcurrencyConflict
	}

	now := j.now()
	for i, e := range events {
		e.ID = int64(len(j.events)) + 1
		e.AggregateID = aggregateID
		e.AggregateType = aggregateType
		e.Version = expectedVersion + i + 1
		e.CreatedAt = now
		j.events = append(j.events, e)

		span.AddEvent("event.appended", trace.WithAttributes(
			attribute.Int64("event.id", e.ID),
			attribute.Int("event.version", e.Version),
			attribute.String("event.type", e.EventType),
		))
	}
	j.versions[aggregateID] = expectedVersion + len(events)

	span.SetAttributes(attribute.Bool("append.success", true))
	return nil
}

// Load returns an aggregate's events with fromVersion <= version <= toVersion
// in version order. A toVersion of zero or less means no upper bound.
func (j *Journal) Load(ctx context.Context, aggregateID uuid.UUID, fromVersion, toVersion int) ([]Event, error) {
	_, span := j.tracer.Start(ctx, "journal.load",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
			attribute.Int("from.version", fromVersion),
			attribute.Int("to.version", toVersion),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	var events []Event
	for _, e := range j.events {
		if e.AggregateID != aggregateID || e.Version < fromVersion {
			continue
		}
		if toVersion > 0 && e.Version > toVersion {
			continue
		}
		events = append(events, e)
	}

	span.SetAttributes(attribute.Int("events.loaded", len(events)))
	return events, nil
}

// Version returns the latest version of an aggregate, zero if it has none.
func (j *Journal) Version(ctx context.Context, aggregateID uuid.UUID) (int, error) {
	_, span := j.tracer.Start(ctx, "journal.get_version",
		trace.WithAttributes(
			attribute.String("aggregate.id", aggregateID.String()),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	j.mu.RLock()
	version := j.versions[aggregateID]
	j.mu.RUnlock()

	span.SetAttributes(attribute.Int("current.version", version))
	return version, nil
}

// Stream returns up to batchSize events with ID greater than fromID, across
// all aggregates, in ID order.
func (j *Journal) Stream(ctx context.Context, fromID int64, batchSize int) ([]Event, error) {
	_, span := j.tracer.Start(ctx, "journal.stream",
		trace.WithAttributes(
			attribute.Int64("from.id", fromID),
			attribute.Int("batch.size", batchSize),
		),
	)
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		return nil, nil
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	// IDs are 1-based positions in the log.
	start := int(min(max(fromID, 0), int64(len(j.events))))
	end := min(start+batchSize, len(j.events))
	events := slices.Clone(j.events[start:end])

	span.SetAttributes(attribute.Int("events.streamed", len(events)))
	return events, nil
}

// Len reports the total number of recorded events.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.events)
}
