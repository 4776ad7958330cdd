package domain

import "time"

// Outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// SystemActor is recorded for calls without an authenticated caller.
const SystemActor = "_anonymous"

// AuditLog is one audited call. Actor is the caller's address in hex.
type AuditLog struct {
	ID        string
	Actor     string
	Action    string
	Resource  string
	Outcome   string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
