package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type RevokeInput struct {
	Phone string
}

// Revoke drops any pending challenge for the phone. Revoking nothing succeeds.
func (s *Usecase) Revoke(ctx context.Context, in RevokeInput) error {
	ctx, span := s.startSpan(ctx, "Revoke")
	defer span.End()

	key, err := s.phone.Normalize(in.Phone)
	if err != nil {
		return goerror.NewInvalidFormatWrap(entity.ErrInvalidPhone, "Invalid phone number")
	}

	if err := s.repoStore.Delete(ctx, key); err != nil {
		slog.ErrorContext(ctx, "failed to delete pending credential", "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
