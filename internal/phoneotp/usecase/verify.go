package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyInput struct {
	Phone string
	Code  string
}

// Verify attempts to consume the pending challenge with code. The outcome is a
// value; the error is non-nil only when the store itself fails.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (entity.VerifyOutcome, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	outcome, err := s.verify(ctx, in)
	if err != nil {
		return entity.VerifyOutcomeUnknown, err
	}

	span.SetAttributes(attribute.String("phoneotp.outcome", outcome.String()))
	s.outcomeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))

	return outcome, nil
}

func (s *Usecase) verify(ctx context.Context, in VerifyInput) (entity.VerifyOutcome, error) {
	key, err := s.phone.Normalize(in.Phone)
	if err != nil {
		return entity.VerifyOutcomeInvalidPhone, nil
	}

	hashed, err := s.digest(in.Code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash supplied code", "error", err)
		return entity.VerifyOutcomeUnknown, goerror.NewServer(err)
	}

	res, err := s.repoStore.Consume(ctx, key, hashed)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume pending credential", "error", err)
		return entity.VerifyOutcomeUnknown, goerror.NewServer(err)
	}

	return entity.VerifyOutcomeFromConsume(res), nil
}
