package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type otpStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (*entity.PendingCredential, error)
	Consume(ctx context.Context, key, supplied string) (entity.ConsumeResult, error)
	Delete(ctx context.Context, key string) error
	SweepExpired(ctx context.Context) (int, error)
}

var baseTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// runStoreContract checks behavior every driver must share. newStore must
// return an empty store reading time from the given clock, which starts at baseTime.
func runStoreContract(t *testing.T, baseTime time.Time, newStore func(t *testing.T, c clock.Clocker) otpStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("put then get returns a copy", func(t *testing.T) {
		c := clock.NewManual(baseTime)
		s := newStore(t, c)

		if err := s.Put(ctx, "9876543210", "123456", time.Minute); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, err := s.Get(ctx, "9876543210")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Key != "9876543210" || got.Code != "123456" {
			t.Fatalf("Get() = %+v", got)
		}
		if !got.IssuedAt.Equal(baseTime) || !got.ExpiresAt.Equal(baseTime.Add(time.Minute)) {
			t.Fatalf("Get() times = %v / %v", got.IssuedAt, got.ExpiresAt)
		}

		got.Code = "tampered"
		again, err := s.Get(ctx, "9876543210")
		if err != nil || again.Code != "123456" {
			t.Fatalf("stored record changed through returned copy: %+v, %v", again, err)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t, clock.NewManual(baseTime))
		if _, err := s.Get(ctx, "nobody"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("get hides expired without deleting", func(t *testing.T) {
		c := clock.NewManual(baseTime)
		s := newStore(t, c)
		_ = s.Put(ctx, "k", "c", time.Minute)

		c.Advance(time.Minute)
		if _, err := s.Get(ctx, "k"); err != nil {
			t.Fatalf("Get() at exact expiry error = %v, want live", err)
		}

		c.Advance(time.Millisecond)
		if _, err := s.Get(ctx, "k"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("Get() after expiry error = %v, want ErrNotFound", err)
		}

		res, err := s.Consume(ctx, "k", "c")
		if err != nil || res != entity.ConsumeExpired {
			t.Fatalf("Consume() = %v, %v; want Expired", res, err)
		}
	})

	t.Run("consume outcomes", func(t *testing.T) {
		c := clock.NewManual(baseTime)
		s := newStore(t, c)

		res, err := s.Consume(ctx, "k", "c")
		if err != nil || res != entity.ConsumeNotFound {
			t.Fatalf("Consume(empty) = %v, %v", res, err)
		}

		_ = s.Put(ctx, "k", "good", time.Minute)

		res, _ = s.Consume(ctx, "k", "bad")
		if res != entity.ConsumeMismatched {
			t.Fatalf("Consume(bad) = %v, want Mismatched", res)
		}
		res, _ = s.Consume(ctx, "k", "bad")
		if res != entity.ConsumeMismatched {
			t.Fatalf("second Consume(bad) = %v, want Mismatched", res)
		}

		res, _ = s.Consume(ctx, "k", "good")
		if res != entity.ConsumeMatched {
			t.Fatalf("Consume(good) = %v, want Matched", res)
		}
		res, _ = s.Consume(ctx, "k", "good")
		if res != entity.ConsumeNotFound {
			t.Fatalf("Consume(good) twice = %v, want NotFound", res)
		}
	})

	t.Run("expired consume deletes", func(t *testing.T) {
		c := clock.NewManual(baseTime)
		s := newStore(t, c)
		_ = s.Put(ctx, "k", "good", time.Second)
		c.Advance(2 * time.Second)

		res, _ := s.Consume(ctx, "k", "wrong")
		if res != entity.ConsumeExpired {
			t.Fatalf("Consume() = %v, want Expired", res)
		}
		res, _ = s.Consume(ctx, "k", "good")
		if res != entity.ConsumeNotFound {
			t.Fatalf("Consume() after expiry = %v, want NotFound", res)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		c := clock.NewManual(baseTime)
		s := newStore(t, c)
		_ = s.Put(ctx, "k", "first", time.Minute)
		c.Advance(10 * time.Second)
		_ = s.Put(ctx, "k", "second", time.Minute)

		if res, _ := s.Consume(ctx, "k", "first"); res != entity.ConsumeMismatched {
			t.Fatalf("Consume(first) = %v, want Mismatched", res)
		}
		got, err := s.Get(ctx, "k")
		if err != nil || !got.IssuedAt.Equal(baseTime.Add(10*time.Second)) {
			t.Fatalf("Get() = %+v, %v", got, err)
		}
		if res, _ := s.Consume(ctx, "k", "second"); res != entity.ConsumeMatched {
			t.Fatalf("Consume(second) = %v, want Matched", res)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := newStore(t, clock.NewManual(baseTime))
		_ = s.Put(ctx, "k", "c", time.Minute)

		for range 2 {
			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
		}
		if res, _ := s.Consume(ctx, "k", "c"); res != entity.ConsumeNotFound {
			t.Fatalf("Consume() after Delete = %v", res)
		}
	})

	t.Run("concurrent consume matches once", func(t *testing.T) {
		s := newStore(t, clock.NewManual(baseTime))
		_ = s.Put(ctx, "k", "good", time.Minute)

		const n = 32
		results := make(chan entity.ConsumeResult, n)
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := s.Consume(ctx, "k", "good")
				if err != nil {
					t.Errorf("Consume() error = %v", err)
				}
				results <- res
			}()
		}
		wg.Wait()
		close(results)

		matched := 0
		for res := range results {
			switch res {
			case entity.ConsumeMatched:
				matched++
			case entity.ConsumeNotFound:
			default:
				t.Errorf("unexpected result %v", res)
			}
		}
		if matched != 1 {
			t.Fatalf("matched = %d, want 1", matched)
		}
	})
}
