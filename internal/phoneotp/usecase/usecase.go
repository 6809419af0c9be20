package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/config"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/phoneotp/internal/pkg/hash"
	"github.com/shandysiswandi/phoneotp/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneotp/internal/pkg/otp"
	"github.com/shandysiswandi/phoneotp/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type OtpIssuedEvent struct {
	Phone     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type PhoneVerifiedEvent struct {
	Phone      string
	VerifiedAt time.Time
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
	PublishPhoneVerified(ctx context.Context, msg PhoneVerifiedEvent) error
}

type repoStore interface {
	Put(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (*entity.PendingCredential, error)
	Consume(ctx context.Context, key, supplied string) (entity.ConsumeResult, error)
	Delete(ctx context.Context, key string) error
	SweepExpired(ctx context.Context) (int, error)
}

type smsGateway interface {
	SendOTP(ctx context.Context, phoneE164, code string, expiresAt time.Time) error
}

type phoneNormalizer interface {
	Normalize(raw string) (string, error)
	E164(key string) string
}

// IssueGuard decides whether a new code may be issued for a phone key.
type IssueGuard interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Usecase struct {
	repoStore     repoStore
	repoMessaging repoMessaging
	sms           smsGateway
	guard         IssueGuard
	phone         phoneNormalizer
	generator     otp.Generator
	hmac          hash.Hash
	validator     validator.Validator
	cfg           config.Config
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager

	issuedCounter  metric.Int64Counter
	outcomeCounter metric.Int64Counter
}

type Dependency struct {
	RepoStore     repoStore
	RepoMessaging repoMessaging
	SMS           smsGateway
	Guard         IssueGuard
	Phone         phoneNormalizer
	Generator     otp.Generator
	HMAC          hash.Hash
	Validator     validator.Validator
	Config        config.Config
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("phoneotp.usecase")

	issued, err := meter.Int64Counter("phoneotp.issued",
		metric.WithDescription("Number of one-time codes issued"))
	if err != nil {
		slog.Warn("failed to create issued counter", "error", err)
	}

	outcome, err := meter.Int64Counter("phoneotp.verify.outcome",
		metric.WithDescription("Number of verification attempts by outcome"))
	if err != nil {
		slog.Warn("failed to create verify outcome counter", "error", err)
	}

	return &Usecase{
		repoStore:      dep.RepoStore,
		repoMessaging:  dep.RepoMessaging,
		sms:            dep.SMS,
		guard:          dep.Guard,
		phone:          dep.Phone,
		generator:      dep.Generator,
		hmac:           dep.HMAC,
		validator:      dep.Validator,
		cfg:            dep.Config,
		clock:          dep.Clock,
		ins:            dep.Instrument,
		goroutine:      dep.Goroutine,
		issuedCounter:  issued,
		outcomeCounter: outcome,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("phoneotp.usecase").Start(ctx, name)
}

func (s *Usecase) ttl() time.Duration {
	return s.cfg.GetSecond("modules.phoneotp.ttl_seconds")
}

// digest is what the store keeps in place of the plaintext code.
func (s *Usecase) digest(code string) (string, error) {
	h, err := s.hmac.Hash(code)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
