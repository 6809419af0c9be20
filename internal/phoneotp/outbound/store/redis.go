package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

const (
	fieldCode      = "code"
	fieldIssuedAt  = "issued_at"
	fieldExpiresAt = "expires_at"

	defaultRedisPrefix    = "phoneotp:"
	defaultExpiredRetains = 10 * time.Minute
)

// consumeScript returns an entity.ConsumeResult value.
// KEYS[1] record key, ARGV[1] supplied code, ARGV[2] now in unix ms.
var consumeScript = redis.NewScript(`
local rec = redis.call('HMGET', KEYS[1], 'code', 'expires_at')
if not rec[1] then
  return 0
end
if tonumber(ARGV[2]) > tonumber(rec[2]) then
  redis.call('DEL', KEYS[1])
  return 3
end
if rec[1] ~= ARGV[1] then
  return 2
end
redis.call('DEL', KEYS[1])
return 1
`)

// RedisConfig tunes the Redis store.
type RedisConfig struct {
	// Prefix is prepended to every key. Empty means "phoneotp:".
	Prefix string
	// ExpiredRetention keeps a record this long past its expiry so a late
	// attempt is reported as expired rather than missing. Zero means 10m.
	ExpiredRetention time.Duration
}

// Redis stores each challenge as a hash. Redis evicts records on its own once
// the retention passes, so SweepExpired has nothing to do.
type Redis struct {
	client    *redis.Client
	clock     clock.Clocker
	prefix    string
	retention time.Duration
}

// NewRedis builds a Redis store over client.
func NewRedis(client *redis.Client, cfg RedisConfig, c clock.Clocker) *Redis {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultRedisPrefix
	}
	if cfg.ExpiredRetention <= 0 {
		cfg.ExpiredRetention = defaultExpiredRetains
	}

	return &Redis{client: client, clock: c, prefix: cfg.Prefix, retention: cfg.ExpiredRetention}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Put replaces the record for key in one MULTI/EXEC.
func (r *Redis) Put(ctx context.Context, key, code string, ttl time.Duration) error {
	now := r.clock.Now()
	exp := now.Add(ttl)
	k := r.key(key)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k,
			fieldCode, code,
			fieldIssuedAt, now.UnixMilli(),
			fieldExpiresAt, exp.UnixMilli(),
		)
		pipe.PExpireAt(ctx, k, exp.Add(r.retention))
		return nil
	})
	return err
}

// Get returns the live record for key or goerror.ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (*entity.PendingCredential, error) {
	vals, err := r.client.HGetAll(ctx, r.key(key)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, goerror.ErrNotFound
	}

	issuedAt, err1 := strconv.ParseInt(vals[fieldIssuedAt], 10, 64)
	expiresAt, err2 := strconv.ParseInt(vals[fieldExpiresAt], 10, 64)
	if err := errors.Join(err1, err2); err != nil {
		return nil, err
	}

	rec := entity.PendingCredential{
		Key:       key,
		Code:      vals[fieldCode],
		IssuedAt:  time.UnixMilli(issuedAt).UTC(),
		ExpiresAt: time.UnixMilli(expiresAt).UTC(),
	}
	if rec.Expired(r.clock.Now()) {
		return nil, goerror.ErrNotFound
	}
	return &rec, nil
}

// Consume runs the check-then-delete as one Lua script, atomic in Redis.
func (r *Redis) Consume(ctx context.Context, key, supplied string) (entity.ConsumeResult, error) {
	n, err := consumeScript.Run(ctx, r.client, []string{r.key(key)}, supplied, r.clock.Now().UnixMilli()).Int()
	if err != nil {
		return entity.ConsumeNotFound, err
	}
	return entity.ConsumeResult(n), nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// SweepExpired always reports zero; key expiry does the work.
func (r *Redis) SweepExpired(context.Context) (int, error) {
	return 0, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
