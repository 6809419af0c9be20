package store

import (
	"context"
	"hash/fnv"
	"math/bits"
	"sync"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
	"go.uber.org/atomic"
)

const (
	defaultShards     = 32
	defaultSweepBatch = 256
)

// MemoryConfig tunes the in-memory store.
type MemoryConfig struct {
	// Shards is rounded up to a power of two. Zero means 32.
	Shards int
	// SweepBatch caps deletions per shard lock hold during SweepExpired. Zero means 256.
	SweepBatch int
}

type shard struct {
	mu      sync.Mutex
	records map[string]entity.PendingCredential
}

// Memory is a sharded in-process store. Each key lives in exactly one shard
// and every operation on a key runs under that shard's lock, so consume's
// check-then-delete is indivisible while other shards stay available.
type Memory struct {
	shards []*shard
	mask   uint32
	batch  int
	clock  clock.Clocker
	size   *atomic.Int64
}

// NewMemory builds an empty Memory store reading time from c.
func NewMemory(cfg MemoryConfig, c clock.Clocker) *Memory {
	n := cfg.Shards
	if n <= 0 {
		n = defaultShards
	}
	n = 1 << bits.Len(uint(n-1))

	batch := cfg.SweepBatch
	if batch <= 0 {
		batch = defaultSweepBatch
	}

	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{records: make(map[string]entity.PendingCredential)}
	}

	return &Memory{
		shards: shards,
		mask:   uint32(n - 1),
		batch:  batch,
		clock:  c,
		size:   atomic.NewInt64(0),
	}
}

func (m *Memory) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return m.shards[h.Sum32()&m.mask]
}

// Put replaces any record for key with a fresh one expiring after ttl.
func (m *Memory) Put(_ context.Context, key, code string, ttl time.Duration) error {
	now := m.clock.Now()
	rec := entity.PendingCredential{Key: key, Code: code, IssuedAt: now, ExpiresAt: now.Add(ttl)}

	s := m.shardFor(key)
	s.mu.Lock()
	if _, exists := s.records[key]; !exists {
		m.size.Inc()
	}
	s.records[key] = rec
	s.mu.Unlock()

	return nil
}

// Get returns a copy of the live record for key. Expired records are reported
// as goerror.ErrNotFound and left for Consume or SweepExpired to remove.
func (m *Memory) Get(_ context.Context, key string) (*entity.PendingCredential, error) {
	s := m.shardFor(key)
	s.mu.Lock()
	rec, ok := s.records[key]
	s.mu.Unlock()

	if !ok || rec.Expired(m.clock.Now()) {
		return nil, goerror.ErrNotFound
	}
	return &rec, nil
}

// Consume checks supplied against the record for key and deletes it on match
// or expiry. A mismatch leaves the record in place.
func (m *Memory) Consume(_ context.Context, key, supplied string) (entity.ConsumeResult, error) {
	now := m.clock.Now()

	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return entity.ConsumeNotFound, nil
	}

	if rec.Expired(now) {
		delete(s.records, key)
		m.size.Dec()
		return entity.ConsumeExpired, nil
	}

	if !codesEqual(rec.Code, supplied) {
		return entity.ConsumeMismatched, nil
	}

	delete(s.records, key)
	m.size.Dec()
	return entity.ConsumeMatched, nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (m *Memory) Delete(_ context.Context, key string) error {
	s := m.shardFor(key)
	s.mu.Lock()
	if _, ok := s.records[key]; ok {
		delete(s.records, key)
		m.size.Dec()
	}
	s.mu.Unlock()

	return nil
}

// SweepExpired removes expired records shard by shard, releasing the shard
// lock after every batch deletions. It stops early when ctx is done.
func (m *Memory) SweepExpired(ctx context.Context) (int, error) {
	total := 0
	for _, s := range m.shards {
		for {
			if err := ctx.Err(); err != nil {
				return total, err
			}

			n := m.sweepBatch(s, m.clock.Now())
			total += n
			if n < m.batch {
				break
			}
		}
	}
	return total, nil
}

func (m *Memory) sweepBatch(s *shard, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, rec := range s.records {
		if n == m.batch {
			break
		}
		if rec.Expired(now) {
			delete(s.records, key)
			n++
		}
	}
	m.size.Sub(int64(n))
	return n
}

// Len reports the number of records held, expired or not.
func (m *Memory) Len() int {
	return int(m.size.Load())
}
