package sms

import (
	"context"
	"log/slog"
	"time"
)

// Log is a Gateway that writes the delivery to the default logger. The code
// attribute is masked by the application logger.
type Log struct{}

// NewLog returns a Log gateway.
func NewLog() *Log {
	return &Log{}
}

// SendOTP logs the delivery and never fails.
func (*Log) SendOTP(ctx context.Context, phoneE164, code string, expiresAt time.Time) error {
	slog.InfoContext(ctx, "sms otp delivered to log",
		"phone_suffix", suffix(phoneE164, 4),
		"code", code,
		"expires_at", expiresAt.UTC().Format(time.RFC3339),
	)
	return nil
}
