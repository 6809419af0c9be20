// Package otp generates numeric one-time codes of a fixed length.
//
// Codes are drawn uniformly from [0, 10^n) with crypto/rand and zero-padded,
// so "000123" is as likely as any other six-digit value.
package otp
