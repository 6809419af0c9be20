package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/phoneotp/outbound/store"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/config"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goroutine"
	"github.com/shandysiswandi/phoneotp/internal/pkg/hash"
	"github.com/shandysiswandi/phoneotp/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneotp/internal/pkg/phone"
	"github.com/shandysiswandi/phoneotp/internal/pkg/ratelimit"
	"github.com/shandysiswandi/phoneotp/internal/pkg/validator"
)

var startTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type seqGenerator struct {
	mu    sync.Mutex
	codes []string
	next  int
}

func (g *seqGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.codes[g.next%len(g.codes)]
	g.next++
	return c, nil
}

func (g *seqGenerator) Digits() int { return 6 }

type smsCall struct {
	phone     string
	code      string
	expiresAt time.Time
}

type fakeSMS struct {
	mu    sync.Mutex
	calls []smsCall
	err   error
}

func (f *fakeSMS) SendOTP(_ context.Context, phoneE164, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, smsCall{phone: phoneE164, code: code, expiresAt: expiresAt})
	return f.err
}

type fakeMessaging struct {
	mu       sync.Mutex
	issued   []OtpIssuedEvent
	verified []PhoneVerifiedEvent
}

func (f *fakeMessaging) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued = append(f.issued, msg)
	return nil
}

func (f *fakeMessaging) PublishPhoneVerified(_ context.Context, msg PhoneVerifiedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = append(f.verified, msg)
	return nil
}

type fakeGuard struct {
	allow bool
	err   error
}

func (f fakeGuard) Allow(context.Context, string) (bool, error) { return f.allow, f.err }

type brokenStore struct {
	*store.Memory
	err error
}

func (b brokenStore) Consume(context.Context, string, string) (entity.ConsumeResult, error) {
	return entity.ConsumeNotFound, b.err
}

type fixture struct {
	uc    *Usecase
	clk   *clock.Manual
	store *store.Memory
	sms   *fakeSMS
	mq    *fakeMessaging
	gen   *seqGenerator
	gm    *goroutine.Manager
}

type option func(*Dependency)

func withGuard(g IssueGuard) option { return func(d *Dependency) { d.Guard = g } }

func withStore(s repoStore) option { return func(d *Dependency) { d.RepoStore = s } }

func newFixture(t *testing.T, yaml string, opts ...option) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	normalizer, err := phone.New(phone.Config{Region: "IN", Pattern: `[6-9][0-9]{9}`})
	if err != nil {
		t.Fatalf("phone.New: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	f := &fixture{
		clk: clock.NewManual(startTime),
		sms: &fakeSMS{},
		mq:  &fakeMessaging{},
		gen: &seqGenerator{codes: []string{"042137", "918273", "555000"}},
		gm:  goroutine.NewManager(8),
	}
	f.store = store.NewMemory(store.MemoryConfig{Shards: 4}, f.clk)

	dep := Dependency{
		RepoStore:     f.store,
		RepoMessaging: f.mq,
		SMS:           f.sms,
		Guard:         ratelimit.Noop{},
		Phone:         normalizer,
		Generator:     f.gen,
		HMAC:          hash.NewHMACSHA256("test-secret"),
		Validator:     v,
		Config:        cfg,
		Clock:         f.clk,
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.gm,
	}
	for _, opt := range opts {
		opt(&dep)
	}
	f.uc = New(dep)

	return f
}

func (f *fixture) issue(t *testing.T, raw string) *IssueOutput {
	t.Helper()
	out, err := f.uc.Issue(context.Background(), IssueInput{Phone: raw})
	if err != nil {
		t.Fatalf("Issue(%q) error = %v", raw, err)
	}
	return out
}

func (f *fixture) verify(t *testing.T, raw, code string) entity.VerifyOutcome {
	t.Helper()
	outcome, err := f.uc.Verify(context.Background(), VerifyInput{Phone: raw, Code: code})
	if err != nil {
		t.Fatalf("Verify(%q) error = %v", raw, err)
	}
	return outcome
}

func TestUsecase_IssueAndVerifyOnce(t *testing.T) {
	// Arrange
	f := newFixture(t, "")

	// Act
	out := f.issue(t, "+91 98765-43210")

	// Assert
	if out.Phone != "9876543210" {
		t.Fatalf("Issue() phone = %q, want 9876543210", out.Phone)
	}
	if len(out.Code) != 6 {
		t.Fatalf("Issue() code = %q", out.Code)
	}
	if !out.IssuedAt.Equal(startTime) || !out.ExpiresAt.Equal(startTime.Add(10*time.Minute)) {
		t.Fatalf("Issue() times = %v / %v", out.IssuedAt, out.ExpiresAt)
	}

	if got := f.verify(t, "09876543210", out.Code); got != entity.VerifyOutcomeVerified {
		t.Fatalf("Verify() = %v, want Verified", got)
	}
	if got := f.verify(t, "9876543210", out.Code); got != entity.VerifyOutcomeNoPendingChallenge {
		t.Fatalf("second Verify() = %v, want NoPendingChallenge", got)
	}
}

func TestUsecase_StoresDigestNotCode(t *testing.T) {
	f := newFixture(t, "")
	out := f.issue(t, "9876543210")

	rec, err := f.store.Get(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if rec.Code == out.Code {
		t.Fatalf("store holds plaintext code")
	}
}

func TestUsecase_ReissueInvalidatesPrevious(t *testing.T) {
	f := newFixture(t, "")

	first := f.issue(t, "9876543210")
	f.clk.Advance(30 * time.Second)
	second := f.issue(t, "+919876543210")

	if got := f.verify(t, "9876543210", first.Code); got != entity.VerifyOutcomeIncorrectCode {
		t.Fatalf("Verify(first) = %v, want IncorrectCode", got)
	}
	if got := f.verify(t, "9876543210", second.Code); got != entity.VerifyOutcomeVerified {
		t.Fatalf("Verify(second) = %v, want Verified", got)
	}
}

func TestUsecase_Expiry(t *testing.T) {
	t.Run("valid at the expiry instant", func(t *testing.T) {
		f := newFixture(t, "")
		out := f.issue(t, "9876543210")
		f.clk.Advance(10 * time.Minute)

		if got := f.verify(t, "9876543210", out.Code); got != entity.VerifyOutcomeVerified {
			t.Fatalf("Verify() = %v, want Verified", got)
		}
	})

	t.Run("expired then gone", func(t *testing.T) {
		f := newFixture(t, "")
		out := f.issue(t, "9876543210")
		f.clk.Advance(10*time.Minute + time.Second)

		if got := f.verify(t, "9876543210", out.Code); got != entity.VerifyOutcomeChallengeExpired {
			t.Fatalf("Verify() = %v, want ChallengeExpired", got)
		}
		if got := f.verify(t, "9876543210", out.Code); got != entity.VerifyOutcomeNoPendingChallenge {
			t.Fatalf("Verify() after expiry = %v, want NoPendingChallenge", got)
		}
	})

	t.Run("ttl from config", func(t *testing.T) {
		f := newFixture(t, "modules:\n  phoneotp:\n    ttl_seconds: 5\n")
		out := f.issue(t, "9876543210")
		if !out.ExpiresAt.Equal(startTime.Add(5 * time.Second)) {
			t.Fatalf("ExpiresAt = %v", out.ExpiresAt)
		}
	})
}

func TestUsecase_MismatchKeepsChallenge(t *testing.T) {
	f := newFixture(t, "")
	out := f.issue(t, "9876543210")

	for range 3 {
		if got := f.verify(t, "9876543210", "000000"); got != entity.VerifyOutcomeIncorrectCode {
			t.Fatalf("Verify(wrong) = %v, want IncorrectCode", got)
		}
	}
	if got := f.verify(t, "9876543210", out.Code); got != entity.VerifyOutcomeVerified {
		t.Fatalf("Verify(right) = %v, want Verified", got)
	}
}

func TestUsecase_InvalidPhone(t *testing.T) {
	f := newFixture(t, "")

	if got := f.verify(t, "12345", "042137"); got != entity.VerifyOutcomeInvalidPhone {
		t.Fatalf("Verify() = %v, want InvalidPhone", got)
	}

	_, err := f.uc.Issue(context.Background(), IssueInput{Phone: "not a phone"})
	if !errors.Is(err, entity.ErrInvalidPhone) {
		t.Fatalf("Issue() error = %v, want ErrInvalidPhone", err)
	}
	if !goerror.IsCode(err, goerror.CodeInvalidFormat) {
		t.Fatalf("Issue() error code mismatch: %v", err)
	}
}

func TestUsecase_ConcurrentVerifyExactlyOnce(t *testing.T) {
	f := newFixture(t, "")
	out := f.issue(t, "9876543210")

	const n = 50
	outcomes := make(chan entity.VerifyOutcome, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.uc.Verify(context.Background(), VerifyInput{Phone: "+91 98765 43210", Code: out.Code})
			if err != nil {
				t.Errorf("Verify() error = %v", err)
			}
			outcomes <- got
		}()
	}
	wg.Wait()
	close(outcomes)

	verified := 0
	for got := range outcomes {
		switch got {
		case entity.VerifyOutcomeVerified:
			verified++
		case entity.VerifyOutcomeNoPendingChallenge:
		default:
			t.Errorf("unexpected outcome %v", got)
		}
	}
	if verified != 1 {
		t.Fatalf("verified = %d, want 1", verified)
	}
}

func TestUsecase_RemainingTTL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")

	got, err := f.uc.RemainingTTL(ctx, RemainingTTLInput{Phone: "9876543210"})
	if err != nil || got != 0 {
		t.Fatalf("RemainingTTL(absent) = %v, %v", got, err)
	}

	f.issue(t, "9876543210")
	f.clk.Advance(1500 * time.Millisecond)

	got, err = f.uc.RemainingTTL(ctx, RemainingTTLInput{Phone: "+91-98765-43210"})
	if err != nil || got != 598*time.Second {
		t.Fatalf("RemainingTTL() = %v, %v; want 598s", got, err)
	}

	f.clk.Advance(time.Hour)
	got, err = f.uc.RemainingTTL(ctx, RemainingTTLInput{Phone: "9876543210"})
	if err != nil || got != 0 {
		t.Fatalf("RemainingTTL(expired) = %v, %v", got, err)
	}

	got, err = f.uc.RemainingTTL(ctx, RemainingTTLInput{Phone: "x"})
	if got != 0 || !errors.Is(err, entity.ErrInvalidPhone) {
		t.Fatalf("RemainingTTL(invalid) = %v, %v", got, err)
	}
}

func TestUsecase_Revoke(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	out := f.issue(t, "9876543210")

	for range 2 {
		if err := f.uc.Revoke(ctx, RevokeInput{Phone: "9876543210"}); err != nil {
			t.Fatalf("Revoke() error = %v", err)
		}
	}
	if got := f.verify(t, "9876543210", out.Code); got != entity.VerifyOutcomeNoPendingChallenge {
		t.Fatalf("Verify() after Revoke = %v", got)
	}
	if err := f.uc.Revoke(ctx, RevokeInput{Phone: ""}); !errors.Is(err, entity.ErrInvalidPhone) {
		t.Fatalf("Revoke(invalid) error = %v", err)
	}
}

func TestUsecase_SweepExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")
	f.issue(t, "9876543210")
	f.issue(t, "9123456789")

	if n, err := f.uc.SweepExpired(ctx); err != nil || n != 0 {
		t.Fatalf("SweepExpired() = %d, %v", n, err)
	}

	f.clk.Advance(11 * time.Minute)
	if n, err := f.uc.SweepExpired(ctx); err != nil || n != 2 {
		t.Fatalf("SweepExpired() = %d, %v; want 2", n, err)
	}
	if f.store.Len() != 0 {
		t.Fatalf("Len() = %d", f.store.Len())
	}
}

func TestUsecase_IssueGuard(t *testing.T) {
	f := newFixture(t, "", withGuard(fakeGuard{allow: false}))
	_, err := f.uc.Issue(context.Background(), IssueInput{Phone: "9876543210"})
	if !goerror.IsCode(err, goerror.CodeTooManyRequest) {
		t.Fatalf("Issue() error = %v, want too many requests", err)
	}
	if f.store.Len() != 0 {
		t.Fatalf("denied issue stored a credential")
	}

	f = newFixture(t, "", withGuard(fakeGuard{err: errors.New("redis down")}))
	_, err = f.uc.Issue(context.Background(), IssueInput{Phone: "9876543210"})
	if !goerror.IsCode(err, goerror.CodeInternal) {
		t.Fatalf("Issue() error = %v, want server error", err)
	}
}

func TestUsecase_VerifyStoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	broken := brokenStore{Memory: store.NewMemory(store.MemoryConfig{}, clock.NewManual(startTime)), err: boom}
	f := newFixture(t, "", withStore(broken))

	got, err := f.uc.Verify(context.Background(), VerifyInput{Phone: "9876543210", Code: "1"})
	if got != entity.VerifyOutcomeUnknown || !errors.Is(err, boom) {
		t.Fatalf("Verify() = %v, %v", got, err)
	}
}
