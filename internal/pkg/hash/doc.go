// Package hash provides keyed digests for secrets that must be compared later
// but never stored in plaintext, such as issued one-time codes.
package hash
