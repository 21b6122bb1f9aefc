package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const TypeEscalationRaised = "ESCALATION_RAISED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "ESCALATION_RAISED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// EscalationRaised describes a conversation handed to the human support team.
type EscalationRaised struct {
	ConversationID string
	Query          string
	Category       string
	Confidence     float64
	Reason         string
	OccurredAt     time.Time
}

func (e EscalationRaised) EventType() string {
	return TypeEscalationRaised
}

func (e EscalationRaised) Payload() map[string]interface{} {
	return map[string]interface{}{
		"conversation_id": e.ConversationID,
		"query":           e.Query,
		"category":        e.Category,
		"confidence":      e.Confidence,
		"reason":          e.Reason,
	}
}

func (e EscalationRaised) Timestamp() time.Time {
	return e.OccurredAt
}

// envelope is the wire form shared by the in-process bus and NATS.
type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

// Encode serializes any event into its wire envelope.
func Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(envelope{
		Type:       e.EventType(),
		OccurredAt: e.Timestamp().UTC(),
		Data:       e.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", e.EventType(), err)
	}
	return data, nil
}

// Decode parses a wire envelope back into a BaseEvent.
func Decode(data []byte) (BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return BaseEvent{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if env.Type == "" {
		return BaseEvent{}, fmt.Errorf("failed to decode event: missing type")
	}
	return BaseEvent{
		Type:       env.Type,
		Data:       env.Data,
		OccurredAt: env.OccurredAt,
	}, nil
}

// String reads a string field from an event payload.
func String(e Event, key string) string {
	if v, ok := e.Payload()[key].(string); ok {
		return v
	}
	return ""
}
