// Package events publishes change notifications for users and trainings.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fittrack/apiserver/internal/observability"
)

const (
	defaultPublishTimeout = 5 * time.Second
	contentTypeJSON       = "application/json"
)

// Event is the JSON payload published for every successful write.
type Event struct {
	// ID uniquely identifies the event, for consumer-side deduplication.
	ID string `json:"id"`

	// Entity is "users" or "trainings".
	Entity string `json:"entity"`

	// Action is "created", "updated" or "deleted".
	Action string `json:"action"`

	// EntityID is the identifier of the changed record.
	EntityID int64 `json:"entityId"`

	OccurredAt time.Time `json:"occurredAt"`

	// Data is the record after the change. It is omitted for deletions.
	Data json.RawMessage `json:"data,omitempty"`
}

// Publisher is the subset of the message queue used to emit events.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Notifier turns service writes into published events. Delivery failures are
// logged and counted but never returned to the caller.
type Notifier struct {
	publisher Publisher
	prefix    string
	logger    *slog.Logger
	now       func() time.Time
	timeout   time.Duration
}

func NewNotifier(publisher Publisher, prefix string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		publisher: publisher,
		prefix:    prefix,
		logger:    logger,
		now:       time.Now,
		timeout:   defaultPublishTimeout,
	}
}

// Channel returns the channel events for entity are published on.
func (n *Notifier) Channel(entity string) string {
	return n.prefix + entity
}

func (n *Notifier) Notify(ctx context.Context, entity, action string, id int64, data any) {
	if n == nil || n.publisher == nil {
		return
	}

	evt, err := n.build(entity, action, id, data)
	if err != nil {
		n.fail(ctx, entity, action, id, err)
		return
	}
	body, err := json.Marshal(evt)
	if err != nil {
		n.fail(ctx, entity, action, id, err)
		return
	}

	// The request may finish before the broker answers.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	attrs := map[string]string{
		"content-type": contentTypeJSON,
		"event-id":     evt.ID,
		"entity":       entity,
		"action":       action,
	}
	if _, err := n.publisher.Publish(pubCtx, n.Channel(entity), body, attrs); err != nil {
		n.fail(ctx, entity, action, id, err)
		return
	}
	n.logger.DebugContext(ctx, "event published",
		"event_id", evt.ID,
		"entity", entity,
		"action", action,
		"entity_id", id,
	)
}

func (n *Notifier) build(entity, action string, id int64, data any) (Event, error) {
	evt := Event{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   id,
		OccurredAt: n.now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("encode %s payload: %w", entity, err)
		}
		evt.Data = raw
	}
	return evt, nil
}

func (n *Notifier) fail(ctx context.Context, entity, action string, id int64, err error) {
	observability.RecordPublishFailure(entity)
	n.logger.ErrorContext(ctx, "failed to publish event",
		"entity", entity,
		"action", action,
		"entity_id", id,
		"error", err,
	)
}

// Decode parses a published event body.
func Decode(body []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return evt, nil
}
