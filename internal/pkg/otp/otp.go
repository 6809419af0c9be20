package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	// MinDigits and MaxDigits bound the supported code length. 10^18 still fits in int64.
	MinDigits = 1
	MaxDigits = 18
)

// ErrInvalidDigits is returned by NewNumeric for lengths outside MinDigits..MaxDigits.
var ErrInvalidDigits = errors.New("otp: digits out of range")

// Generator produces one-time codes.
type Generator interface {
	Generate() (string, error)
	Digits() int
}

// Numeric generates zero-padded decimal codes.
type Numeric struct {
	digits int
	max    *big.Int
	format string
	rand   io.Reader
}

// NewNumeric returns a generator of codes with exactly digits characters.
func NewNumeric(digits int) (*Numeric, error) {
	return newNumeric(digits, rand.Reader)
}

func newNumeric(digits int, r io.Reader) (*Numeric, error) {
	if digits < MinDigits || digits > MaxDigits {
		return nil, fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidDigits, digits, MinDigits, MaxDigits)
	}

	return &Numeric{
		digits: digits,
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil),
		format: fmt.Sprintf("%%0%dd", digits),
		rand:   r,
	}, nil
}

// Generate returns a fresh code. It fails only if the random source fails.
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(n.format, v.Int64()), nil
}

// Digits reports the configured code length.
func (n *Numeric) Digits() int {
	return n.digits
}
