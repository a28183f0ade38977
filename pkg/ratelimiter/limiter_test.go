package ratelimiter

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Basic(t *testing.T) {
	// 10 RPS, max 5 tokens in bucket
	rl := NewRateLimiter(10, 5)

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Failed to get token %d: %v", i+1, err)
		}
	}

	// Bucket is empty, the next call must wait roughly 100ms for a new token
	start := time.Now()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Failed to get token after waiting: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 80*time.Millisecond {
		t.Errorf("Expected to wait at least 80ms, but waited %v", elapsed)
	}
}

func TestRateLimiter_TryAcquire(t *testing.T) {
	rl := NewRateLimiter(10, 2)

	if !rl.TryAcquire() {
		t.Error("Failed to acquire first token")
	}
	if !rl.TryAcquire() {
		t.Error("Failed to acquire second token")
	}
	available, capacity, interval := rl.GetStats()
	t.Logf("Available: %d, Capacity: %d, Interval: %v\n", available, capacity, interval)
	if capacity != 2 {
		t.Errorf("Expected capacity 2, got %d", capacity)
	}
	if interval != 100*time.Millisecond {
		t.Errorf("Expected interval 100ms, got %v", interval)
	}

	if rl.TryAcquire() {
		t.Error("Should not have acquired 3rd token")
	}
}

func TestRateLimiter_DisabledWhenRPSZero(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !rl.TryAcquire() {
			t.Fatalf("unlimited limiter refused token %d", i+1)
		}
	}
}

func TestPooledRateLimiter(t *testing.T) {
	prl := NewPooledRateLimiter(10, 2)

	ctx := context.Background()

	if err := prl.Wait(ctx, "node1"); err != nil {
		t.Fatalf("Failed to acquire from node1: %v", err)
	}
	if err := prl.Wait(ctx, "node2"); err != nil {
		t.Fatalf("Failed to acquire from node2: %v", err)
	}

	// Each node should have its own limits
	if !prl.getLimiter("node1").TryAcquire() {
		t.Error("Should be able to acquire another token from node1")
	}
	if !prl.getLimiter("node2").TryAcquire() {
		t.Error("Should be able to acquire another token from node2")
	}

	if prl.getLimiter("node1").TryAcquire() {
		t.Error("Node1 should be at limit")
	}
	if prl.getLimiter("node2").TryAcquire() {
		t.Error("Node2 should be at limit")
	}

	if stats := prl.GetStats(); len(stats) != 2 {
		t.Errorf("Expected stats for 2 nodes, got %d", len(stats))
	}
}
