package usecase

import (
	"context"
	"log/slog"
)

func (s *Usecase) SweepExpired(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer span.End()

	n, err := s.repoStore.SweepExpired(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to sweep expired credentials", "removed", n, "error", err)
		return n, err
	}

	if n > 0 {
		slog.InfoContext(ctx, "expired credentials swept", "removed", n)
	}

	return n, nil
}
