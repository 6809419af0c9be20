package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/pkg/goerror"
)

type RequestCodeInput struct {
	Phone string `validate:"required,max=32"`
}

type RequestCodeOutput struct {
	Phone     string
	ExpiresAt time.Time
	// Code is set only when codes are echoed instead of sent.
	Code string
}

func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	issued, err := s.Issue(ctx, IssueInput{Phone: in.Phone})
	if err != nil {
		return nil, err
	}

	e164 := s.phone.E164(issued.Phone)
	out := &RequestCodeOutput{Phone: e164, ExpiresAt: issued.ExpiresAt}

	if s.cfg.GetBool("modules.phoneotp.return_code") {
		out.Code = issued.Code
	} else if err := s.sms.SendOTP(ctx, e164, issued.Code, issued.ExpiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to send code by sms", "error", err)
		return nil, goerror.NewUnavailable(err, "Failed to deliver verification code, try again")
	}

	if err := s.repoMessaging.PublishOtpIssued(ctx, OtpIssuedEvent{
		Phone:     e164,
		IssuedAt:  issued.IssuedAt,
		ExpiresAt: issued.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued", "error", err)
	}

	return out, nil
}
