package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action names the mutation a LineItemEvent reports.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// LineItemEvent is a lightweight notification that a line item changed.
// Consumers re-read the store by ID; the event carries no field values.
// EventID is unique per event and doubles as the AMQP message id.
type LineItemEvent struct {
	EventID   string    `json:"event_id"`
	ID        int64     `json:"id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLineItemEvent creates an event stamped with the current time
func NewLineItemEvent(id int64, action Action) *LineItemEvent {
	return &LineItemEvent{
		EventID:   uuid.NewString(),
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LineItemEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LineItemEventFromJSON creates an event from JSON bytes
func LineItemEventFromJSON(data []byte) (*LineItemEvent, error) {
	var e LineItemEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown action %q", e.Action)
	}
	return &e, nil
}

// RoutingKey returns the per-action routing key, e.g. "line_item.created".
func (e *LineItemEvent) RoutingKey() string {
	return "line_item." + string(e.Action)
}
