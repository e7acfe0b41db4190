package rate_limiter_test

import (
	"testing"
	"time"

	rl "github.com/rogerio-castellano/catalog-sync/internal/http/rate_limiter"
)

func TestVisitorBurstAndCleanup(t *testing.T) {
	t.Cleanup(rl.CleanupAllVisitors)
	rl.Configure(1, 2)

	l := rl.GetVisitor("10.0.0.1")
	if !l.Allow() || !l.Allow() {
		t.Fatal("expected burst of 2 to be allowed")
	}
	if l.Allow() {
		t.Error("expected third request to be limited")
	}
	if rl.GetVisitor("10.0.0.1") != l {
		t.Error("expected the same limiter for a known visitor")
	}

	rl.GetVisitor("10.0.0.2")
	if n := rl.CleanupStaleVisitors(time.Hour); n != 0 {
		t.Errorf("expected no stale visitors, removed %d", n)
	}
	time.Sleep(5 * time.Millisecond)
	if n := rl.CleanupStaleVisitors(time.Millisecond); n != 2 {
		t.Errorf("expected 2 stale visitors removed, got %d", n)
	}
	if rl.Visitors() != 0 {
		t.Errorf("expected empty visitor table, got %d", rl.Visitors())
	}
}
