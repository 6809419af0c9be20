package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/clock"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type RemainingTTLInput struct {
	Phone string
}

// RemainingTTL reports how long the pending challenge stays valid, in whole
// seconds rounded down. It is zero when nothing live is pending.
func (s *Usecase) RemainingTTL(ctx context.Context, in RemainingTTLInput) (time.Duration, error) {
	ctx, span := s.startSpan(ctx, "RemainingTTL")
	defer span.End()

	key, err := s.phone.Normalize(in.Phone)
	if err != nil {
		return 0, goerror.NewInvalidFormatWrap(entity.ErrInvalidPhone, "Invalid phone number")
	}

	rec, err := s.repoStore.Get(ctx, key)
	if errors.Is(err, goerror.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get pending credential", "error", err)
		return 0, goerror.NewServer(err)
	}

	return clock.Until(s.clock, rec.ExpiresAt).Truncate(time.Second), nil
}
