package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/identitykit/auth-service/internal/core/domain"
)

type captureAuditService struct {
	events chan domain.AuditEvent
}

func (s *captureAuditService) Record(_ context.Context, event domain.AuditEvent) error {
	s.events <- event
	return nil
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	capture := &captureAuditService{events: make(chan domain.AuditEvent, 16)}
	d := NewDispatcher(2, capture, zerolog.Nop())
	d.Start(ctx)

	sent := []domain.AuditEvent{
		{Username: "alice", Action: domain.AuditActionSignIn, Outcome: domain.AuditOutcomeSuccess},
		{Username: "bob", Action: domain.AuditActionSignUp, Outcome: domain.AuditOutcomeConflict},
		{Username: "alice", Action: domain.AuditActionSignIn, Outcome: domain.AuditOutcomeInvalidCredentials},
	}
	for _, e := range sent {
		d.Enqueue(e)
	}

	got := make(map[string]int)
	for range sent {
		select {
		case e := <-capture.events:
			got[e.Username]++
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for events, received %v", got)
		}
	}
	if got["alice"] != 2 || got["bob"] != 1 {
		t.Fatalf("unexpected delivery counts: %v", got)
	}
}

func TestDispatcher_EnqueueAfterShutdownDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	capture := &captureAuditService{events: make(chan domain.AuditEvent, 1)}
	d := NewDispatcher(1, capture, zerolog.Nop())
	d.Start(ctx)

	cancel()
	select {
	case <-d.quit:
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatcher did not observe shutdown")
	}

	// Workers are gone and nothing drains the channel. Enqueue well past the
	// buffer capacity; every call must return instead of blocking.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < channelBuffer*2; i++ {
			d.Enqueue(domain.AuditEvent{Username: "carol", Action: domain.AuditActionSignIn})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Enqueue blocked after shutdown")
	}
}

func TestDispatcher_ShardingIsStable(t *testing.T) {
	d := NewDispatcher(4, &captureAuditService{events: make(chan domain.AuditEvent, 1)}, zerolog.Nop())

	// Same username always lands on the same worker, preserving per-user
	// ordering in the audit trail.
	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index not stable for same username")
		}
	}
}
