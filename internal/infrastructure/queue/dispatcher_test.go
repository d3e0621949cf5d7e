package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carelink/health-exchange/internal/core/domain"
)

type recordingAuditService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingAuditService) Process(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingAuditService) snapshot() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditEvent, len(s.events))
	copy(out, s.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}

func TestDispatcher_ProcessesEvents(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Emit(domain.AuditEvent{Type: domain.AuditProfileUpdated, SubjectEmail: "alice@example.com"})
	d.Emit(domain.AuditEvent{Type: domain.AuditLoanApplied, SubjectEmail: "bob@example.com"})

	waitFor(t, func() bool { return len(svc.snapshot()) == 2 })

	for _, e := range svc.snapshot() {
		if e.Timestamp.IsZero() {
			t.Fatalf("zero timestamps must be stamped on emit")
		}
	}
}

func TestDispatcher_PerSubjectOrdering(t *testing.T) {
	svc := &recordingAuditService{}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		d.Emit(domain.AuditEvent{
			Type:         domain.AuditProfileUpdated,
			SubjectEmail: "alice@example.com",
			Detail:       map[string]string{"seq": string(rune('A' + i%26))},
			Timestamp:    time.Unix(int64(i), 0),
		})
	}

	waitFor(t, func() bool { return len(svc.snapshot()) == n })

	// Same subject always hashes to the same worker, so arrival order holds.
	events := svc.snapshot()
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Fatalf("events for one subject processed out of order at %d", i)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &recordingAuditService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
