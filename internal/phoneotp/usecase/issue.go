package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type IssueInput struct {
	Phone string
}

type IssueOutput struct {
	// Phone is the normalized key.
	Phone     string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Issue starts a new challenge for the phone, replacing any pending one, and
// returns the plaintext code. Delivery is the caller's job.
func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	key, err := s.phone.Normalize(in.Phone)
	if err != nil {
		slog.WarnContext(ctx, "phone number rejected on issue", "error", err)
		return nil, goerror.NewInvalidFormatWrap(entity.ErrInvalidPhone, "Invalid phone number")
	}

	allowed, err := s.guard.Allow(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check issue guard", "error", err)
		return nil, goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "code request denied by issue guard", "retry_after", s.retryAfter(ctx, key))
		return nil, goerror.NewBusiness("Too many code requests, try again later", goerror.CodeTooManyRequest)
	}

	code, err := s.generator.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate code", "error", err)
		return nil, goerror.NewServer(err)
	}

	hashed, err := s.digest(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash code", "error", err)
		return nil, goerror.NewServer(err)
	}

	ttl := s.ttl()
	issuedAt := s.clock.Now()
	if err := s.repoStore.Put(ctx, key, hashed, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store pending credential", "error", err)
		return nil, goerror.NewServer(err)
	}

	s.issuedCounter.Add(ctx, 1)

	return &IssueOutput{Phone: key, Code: code, IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(ttl)}, nil
}

// retryAfter asks guards that can tell how long a denial lasts. Zero otherwise.
func (s *Usecase) retryAfter(ctx context.Context, key string) time.Duration {
	r, ok := s.guard.(interface {
		Retry(ctx context.Context, key string) (time.Duration, error)
	})
	if !ok {
		return 0
	}
	d, err := r.Retry(ctx, key)
	if err != nil {
		return 0
	}
	return d
}
