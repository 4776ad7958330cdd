package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"transfer-gate/internal/audit/domain"
	auditrepo "transfer-gate/internal/audit/repository"
)

// IPExtractor returns the client IP carried by ctx.
type IPExtractor func(context.Context) string

// Event is one call to be audited. An empty Actor means no authenticated caller.
type Event struct {
	Actor    string
	Action   string
	Resource string
	Outcome  string
	Metadata string
}

// Recorder persists audit events. Record never fails the caller.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

// Logger is the Recorder backed by an audit repository.
type Logger struct {
	repo  auditrepo.Repository
	ipOf  IPExtractor
	now   func() time.Time
	newID func() string
}

// NewLogger returns a Logger writing to repo. With a nil ipOf every entry is
// recorded from "unknown".
func NewLogger(repo auditrepo.Repository, ipOf IPExtractor) *Logger {
	return &Logger{
		repo:  repo,
		ipOf:  ipOf,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

func (l *Logger) Record(ctx context.Context, ev Event) {
	if l == nil || l.repo == nil {
		return
	}
	entry := l.entry(ctx, ev)
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: dropped %s/%s by %s: %v", ev.Resource, ev.Action, entry.Actor, err)
	}
}

func (l *Logger) entry(ctx context.Context, ev Event) *domain.AuditLog {
	actor := ev.Actor
	if actor == "" {
		actor = domain.SystemActor
	}
	ip := "unknown"
	if l.ipOf != nil {
		ip = l.ipOf(ctx)
	}
	return &domain.AuditLog{
		ID:        l.newID(),
		Actor:     actor,
		Action:    ev.Action,
		Resource:  ev.Resource,
		Outcome:   ev.Outcome,
		IP:        ip,
		Metadata:  ev.Metadata,
		CreatedAt: l.now(),
	}
}
