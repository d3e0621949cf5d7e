package redis

import (
	"context"
	"testing"
	"time"
)

func TestShareGuard_MarkAndCheck(t *testing.T) {
	client, _ := testClient(t)
	ctx := context.Background()
	g := NewShareGuard(client)

	dup, err := g.IsDuplicate(ctx, "alice@example.com", "DR-000001", "HOSP-000001")
	if err != nil || dup {
		t.Fatalf("fresh pair must not be duplicate, dup=%v err=%v", dup, err)
	}

	if err := g.Mark(ctx, "alice@example.com", "DR-000001", "HOSP-000001"); err != nil {
		t.Fatalf("Mark returned error: %v", err)
	}

	dup, err = g.IsDuplicate(ctx, "alice@example.com", "DR-000001", "HOSP-000001")
	if err != nil || !dup {
		t.Fatalf("marked pair must be duplicate, dup=%v err=%v", dup, err)
	}

	// A different recipient is a separate pair.
	dup, err = g.IsDuplicate(ctx, "alice@example.com", "DR-000002", "HOSP-000001")
	if err != nil || dup {
		t.Fatalf("different practitioner must not be duplicate, dup=%v err=%v", dup, err)
	}
}

func TestShareGuard_WindowExpires(t *testing.T) {
	client, mr := testClient(t)
	ctx := context.Background()
	g := NewShareGuard(client)

	_ = g.Mark(ctx, "alice@example.com", "DR-000001", "HOSP-000001")
	mr.FastForward(time.Hour + time.Minute)

	dup, err := g.IsDuplicate(ctx, "alice@example.com", "DR-000001", "HOSP-000001")
	if err != nil || dup {
		t.Fatalf("guard window must expire, dup=%v err=%v", dup, err)
	}
}
