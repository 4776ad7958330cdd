package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"transfer-gate/internal/audit/domain"
	auditrepo "transfer-gate/internal/audit/repository"
)

// failingRepo fails every Create.
type failingRepo struct {
	auditrepo.MemoryRepository
}

func (f *failingRepo) Create(context.Context, *domain.AuditLog) error {
	return errors.New("database error")
}

func fixedLogger(repo auditrepo.Repository, ipOf IPExtractor) *Logger {
	l := NewLogger(repo, ipOf)
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	l.newID = func() string { return "entry-1" }
	return l
}

func TestLogger_Record(t *testing.T) {
	testCases := []struct {
		name string
		ipOf IPExtractor
		ev   Event
		want domain.AuditLog
	}{
		{
			name: "authenticated",
			ipOf: func(context.Context) string { return "192.168.1.1" },
			ev:   Event{Actor: "0xa9", Action: "issue", Resource: "identity", Outcome: domain.OutcomeOK, Metadata: `{"status":"OK"}`},
			want: domain.AuditLog{Actor: "0xa9", Action: "issue", Resource: "identity", Outcome: domain.OutcomeOK, IP: "192.168.1.1", Metadata: `{"status":"OK"}`},
		},
		{
			name: "anonymous without ip",
			ev:   Event{Action: "account_recovered", Resource: "recovery", Outcome: domain.OutcomeRejected},
			want: domain.AuditLog{Actor: domain.SystemActor, Action: "account_recovered", Resource: "recovery", Outcome: domain.OutcomeRejected, IP: "unknown"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := auditrepo.NewMemoryRepository()
			ctx := context.Background()
			fixedLogger(repo, tc.ipOf).Record(ctx, tc.ev)

			entries, err := repo.ListByActor(ctx, tc.want.Actor, 10, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Fatalf("entries for %s = %d, want 1", tc.want.Actor, len(entries))
			}
			got := *entries[0]
			tc.want.ID = "entry-1"
			tc.want.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
			if got != tc.want {
				t.Errorf("entry = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestLogger_Record_RepositoryError(t *testing.T) {
	NewLogger(&failingRepo{}, nil).Record(context.Background(), Event{Action: "a", Resource: "r", Outcome: domain.OutcomeError})
}

func TestLogger_Record_NilRepo(t *testing.T) {
	NewLogger(nil, nil).Record(context.Background(), Event{Actor: "0xa9"})
	var nilLogger *Logger
	nilLogger.Record(context.Background(), Event{Actor: "0xa9"})
}
