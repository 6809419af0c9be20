package phoneotp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/inbound"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/outbound/mq"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/outbound/sms"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/outbound/store"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/usecase"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/config"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/phoneotp/internal/pkg/hash"
	"github.com/shandysiswandi/phoneotp/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneotp/internal/pkg/messaging"
	"github.com/shandysiswandi/phoneotp/internal/pkg/otp"
	"github.com/shandysiswandi/phoneotp/internal/pkg/phone"
	"github.com/shandysiswandi/phoneotp/internal/pkg/ratelimit"
	"github.com/shandysiswandi/phoneotp/internal/pkg/router"
	"github.com/shandysiswandi/phoneotp/internal/pkg/scheduler"
	"github.com/shandysiswandi/phoneotp/internal/pkg/validator"
)

const sweepJobName = "phoneotp.sweep_expired"

var (
	errReturnCodeInProduction = errors.New("phoneotp: return_code must be disabled in production")
	errInvalidTTL             = errors.New("phoneotp: ttl_seconds must be positive")
	errRedisRequired          = errors.New("phoneotp: redis connection required")
)

type Dependency struct {
	// CacheConn is required only by the redis store and the resend cooldown.
	CacheConn  *redis.Client
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Scheduler  *scheduler.Scheduler       `validate:"required"`
	Messaging  messaging.Publisher        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cfg := dep.Config
	if cfg.GetBool("modules.phoneotp.return_code") && cfg.GetString("app.env") == "production" {
		return errReturnCodeInProduction
	}
	if cfg.GetSecond("modules.phoneotp.ttl_seconds") <= 0 {
		return errInvalidTTL
	}

	normalizer, err := phone.New(phone.Config{
		Region:  cfg.GetString("phone.region"),
		Pattern: cfg.GetString("phone.pattern"),
		Strict:  cfg.GetBool("phone.strict"),
	})
	if err != nil {
		return err
	}

	generator, err := otp.NewNumeric(cfg.GetInt("modules.phoneotp.code_digits"))
	if err != nil {
		return err
	}

	repoStore, err := newStore(dep)
	if err != nil {
		return err
	}

	guard, err := newGuard(dep)
	if err != nil {
		return err
	}

	gateway, err := sms.NewFromDriver(cfg.GetString("sms.driver"), sms.HTTPConfig{
		URL:     cfg.GetString("sms.http.url"),
		APIKey:  cfg.GetString("sms.http.api_key"),
		Sender:  cfg.GetString("sms.http.sender"),
		Timeout: cfg.GetSecond("sms.http.timeout_seconds"),
		Retries: uint64(cfg.GetUint("sms.http.retries")),
		Backoff: cfg.GetMillisecond("sms.http.backoff_ms"),
	})
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoStore:     repoStore,
		RepoMessaging: mq.NewMessaging(dep.Messaging, dep.Instrument),
		SMS:           sms.New(gateway, dep.Instrument),
		Guard:         guard,
		Phone:         normalizer,
		Generator:     generator,
		HMAC:          dep.HMAC,
		Validator:     dep.Validator,
		Config:        cfg,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	if interval := cfg.GetSecond("modules.phoneotp.sweep_interval_seconds"); interval > 0 {
		if err := dep.Scheduler.Every(sweepJobName, interval, func(ctx context.Context) error {
			_, err := uc.SweepExpired(ctx)
			return err
		}); err != nil {
			return fmt.Errorf("phoneotp: schedule sweeper: %w", err)
		}
	}

	return nil
}

type otpStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (*entity.PendingCredential, error)
	Consume(ctx context.Context, key, supplied string) (entity.ConsumeResult, error)
	Delete(ctx context.Context, key string) error
	SweepExpired(ctx context.Context) (int, error)
}

func newStore(dep Dependency) (otpStore, error) {
	driver, err := store.ValidateDriver(dep.Config.GetString("store.driver"))
	if err != nil {
		return nil, err
	}

	if driver == store.DriverRedis {
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: store.driver is redis", errRedisRequired)
		}
		return store.NewRedis(dep.CacheConn, store.RedisConfig{
			Prefix:           dep.Config.GetString("store.redis.prefix"),
			ExpiredRetention: dep.Config.GetSecond("store.redis.expired_retention_seconds"),
		}, dep.Clock), nil
	}

	return store.NewMemory(store.MemoryConfig{
		Shards:     dep.Config.GetInt("store.memory.shards"),
		SweepBatch: dep.Config.GetInt("store.memory.sweep_batch"),
	}, dep.Clock), nil
}

func newGuard(dep Dependency) (usecase.IssueGuard, error) {
	window := dep.Config.GetSecond("modules.phoneotp.resend_cooldown_seconds")
	if window <= 0 {
		return ratelimit.Noop{}, nil
	}
	if dep.CacheConn == nil {
		return nil, fmt.Errorf("%w: resend cooldown is enabled", errRedisRequired)
	}
	return ratelimit.NewCooldown(dep.CacheConn, window), nil
}
