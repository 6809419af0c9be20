package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/entity"
	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type SubmitCodeInput struct {
	Phone string `validate:"required,max=32"`
	Code  string `validate:"required,digits,max=18"`
}

type SubmitCodeOutput struct {
	Phone string
}

func (s *Usecase) SubmitCode(ctx context.Context, in SubmitCodeInput) (*SubmitCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "SubmitCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	outcome, err := s.Verify(ctx, VerifyInput(in))
	if err != nil {
		return nil, err
	}

	switch outcome {
	case entity.VerifyOutcomeVerified:
	case entity.VerifyOutcomeInvalidPhone:
		return nil, goerror.NewInvalidFormatWrap(entity.ErrInvalidPhone, "Invalid phone number")
	case entity.VerifyOutcomeNoPendingChallenge:
		return nil, goerror.NewBusiness("No pending verification for this phone", goerror.CodeNotFound)
	case entity.VerifyOutcomeIncorrectCode:
		slog.WarnContext(ctx, "incorrect verification code submitted")
		return nil, goerror.NewBusiness("Incorrect verification code", goerror.CodeUnauthorized)
	case entity.VerifyOutcomeChallengeExpired:
		return nil, goerror.NewBusiness("Verification code expired, request a new one", goerror.CodeGone)
	default:
		return nil, goerror.NewServer(nil)
	}

	key, _ := s.phone.Normalize(in.Phone)
	evt := PhoneVerifiedEvent{Phone: s.phone.E164(key), VerifiedAt: s.clock.Now()}

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishPhoneVerified(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "failed to publish phone verified", "error", err)
		}
		return nil
	})

	return &SubmitCodeOutput{Phone: evt.Phone}, nil
}
