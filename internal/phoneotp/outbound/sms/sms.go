// Package sms delivers one-time codes to phones.
package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shandysiswandi/phoneotp/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DriverHTTP posts to a provider's JSON API.
	DriverHTTP = "http"
	// DriverLog only writes a masked log line; for development.
	DriverLog = "log"
)

// ErrUnknownDriver indicates an unsupported SMS driver.
var ErrUnknownDriver = errors.New("sms: unknown driver")

// Gateway sends a code to a phone number in E.164 form.
type Gateway interface {
	SendOTP(ctx context.Context, phoneE164, code string, expiresAt time.Time) error
}

// NewFromDriver builds the Gateway for driver. Empty means DriverLog.
func NewFromDriver(driver string, cfg HTTPConfig) (Gateway, error) {
	switch strings.TrimSpace(driver) {
	case "", DriverLog:
		return NewLog(), nil
	case DriverHTTP:
		return NewHTTP(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// SMS wraps a Gateway with tracing.
type SMS struct {
	client Gateway
	ins    instrument.Instrumentation
}

// New returns a traced SMS sender over client.
func New(client Gateway, ins instrument.Instrumentation) *SMS {
	return &SMS{client: client, ins: ins}
}

// SendOTP delivers code to phoneE164.
func (s *SMS) SendOTP(ctx context.Context, phoneE164, code string, expiresAt time.Time) error {
	ctx, span := s.ins.Tracer("phoneotp.outbound.sms").Start(ctx, "SendOTP")
	defer span.End()

	span.SetAttributes(attribute.String("sms.phone_suffix", suffix(phoneE164, 4)))

	if err := s.client.SendOTP(ctx, phoneE164, code, expiresAt); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
