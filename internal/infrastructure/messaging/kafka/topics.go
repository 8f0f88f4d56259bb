package kafka

import (
	"encoding/json"
	"time"
)

// Topic constants.
const (
	TopicHolidayChanged = "holiday.changed"
)

// EventEnvelope standardizes event messages on the bus.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// SchemaVersion is the current envelope schema.
const SchemaVersion = "1.0"

// EventSource identifies this service in envelopes.
const EventSource = "reqtrack"
