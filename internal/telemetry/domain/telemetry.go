package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	EventTransferAuthorized = "transfer.authorized"
	EventTransferRejected   = "transfer.rejected"
	EventRecoveryCompleted  = "recovery.completed"
	EventStepUpApproved     = "stepup.approved"
	EventRPCCompleted       = "rpc.completed"
)

// Event is a decision record shipped to the telemetry pipeline (OTel logs, Kafka, Loki).
// Addresses are hex; Code is the rejection kind and empty when the decision allowed the operation.
type Event struct {
	ID          string    `json:"id"`
	EventType   string    `json:"eventType"`
	Source      string    `json:"source"`
	Owner       string    `json:"owner,omitempty"`
	Account     string    `json:"account,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Amount      uint64    `json:"amount,omitempty"`
	Code        string    `json:"code,omitempty"`
	Method      string    `json:"method,omitempty"`
	DurationMs  int64     `json:"durationMs,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewEvent returns an event of eventType stamped with a fresh id and at.
func NewEvent(eventType, source string, at time.Time) *Event {
	return &Event{
		ID:        uuid.New().String(),
		EventType: eventType,
		Source:    source,
		CreatedAt: at.UTC(),
	}
}
