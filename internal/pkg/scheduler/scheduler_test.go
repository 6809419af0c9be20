package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestScheduler_Every(t *testing.T) {
	s, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var runs atomic.Int32
	err = s.Every("count", 20*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Every() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if runs.Load() < 2 {
		t.Errorf("runs = %d, want >= 2", runs.Load())
	}
}

func TestScheduler_InvalidInterval(t *testing.T) {
	s, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Shutdown() })

	if err := s.Every("bad", 0, func(context.Context) error { return nil }); err == nil {
		t.Error("Every() with zero interval error = nil")
	}
}
