package entity

import (
	"errors"
	"time"
)

// ErrInvalidPhone marks input that does not normalize to a phone key.
var ErrInvalidPhone = errors.New("phoneotp: invalid phone number")

// PendingCredential is the one outstanding challenge for a phone key.
//
// Code holds whatever the store compares against; the use case stores a keyed
// digest there, never the plaintext sent by SMS.
type PendingCredential struct {
	Key       string
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the credential is dead at now. The instant
// ExpiresAt itself is still valid.
func (p PendingCredential) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
