package core

import (
	"context"
	"time"
)

// Event types
const (
	EventSearchPerformed       = "search.performed"
	EventApplicationSubmitted  = "application.submitted"
	EventInstitutionRegistered = "institution.registered"
	EventInstitutionApproved   = "institution.approved"
	EventInstitutionRejected   = "institution.rejected"
	EventContactReceived       = "contact.received"
)

// Event is an analytics event. Key is used for partitioning.
type Event struct {
	Type       string                 `json:"type"`
	Key        string                 `json:"key"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

func NewEvent(typ, key string, data map[string]interface{}) Event {
	return Event{Type: typ, Key: key, OccurredAt: time.Now().UTC(), Data: data}
}

// EventPublisher is any service that can publish analytics events.
// Publishing is best effort: failures are logged by the implementation, never returned to callers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event)
}
