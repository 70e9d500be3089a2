package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Catalog event types published through the outbox.
const (
	EventServiceCreated  = "catalog.service.created"
	EventServiceUpdated  = "catalog.service.updated"
	EventServiceDeleted  = "catalog.service.deleted"
	EventServiceEnabled  = "catalog.service.enabled"
	EventServiceDisabled = "catalog.service.disabled"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ServiceEventPayload is what downstream consumers receive for every
// catalog mutation.
type ServiceEventPayload struct {
	ServiceID   uuid.UUID `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Enabled     bool      `json:"enabled"`
	Duration    int       `json:"duration"`
	Price       float64   `json:"price"`
	OccurredAt  time.Time `json:"occurred_at"`
}
