package mq

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/phoneotp/internal/phoneotp/usecase"
	"github.com/shandysiswandi/phoneotp/internal/pkg/instrument"
	"github.com/shandysiswandi/phoneotp/internal/pkg/messaging"
	"github.com/shandysiswandi/phoneotp/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishOtpIssued(ctx context.Context, msg usecase.OtpIssuedEvent) error {
	ctx, span := m.ins.Tracer("phoneotp.outbound.mq").Start(ctx, "PublishOtpIssued")
	defer span.End()

	err := m.publish(ctx, event.OtpIssuedDestination, msg.Phone, event.OtpIssuedMessage{
		Phone:     msg.Phone,
		IssuedAt:  msg.IssuedAt.UnixMilli(),
		ExpiresAt: msg.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) PublishPhoneVerified(ctx context.Context, msg usecase.PhoneVerifiedEvent) error {
	ctx, span := m.ins.Tracer("phoneotp.outbound.mq").Start(ctx, "PublishPhoneVerified")
	defer span.End()

	err := m.publish(ctx, event.PhoneVerifiedDestination, msg.Phone, event.PhoneVerifiedMessage{
		Phone:      msg.Phone,
		VerifiedAt: msg.VerifiedAt.UnixMilli(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Messaging) publish(ctx context.Context, destination, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return m.client.Publish(ctx, destination, messaging.Message{
		Key:     []byte(key),
		Body:    body,
		Headers: map[string]string{keyOfCorrelationID: instrument.GetCorrelationID(ctx)},
	})
}
