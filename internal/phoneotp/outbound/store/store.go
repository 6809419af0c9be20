// Package store keeps pending phone challenges with expiry and single-use
// consumption. Memory serves a single instance; Redis shares state between
// instances with the same atomicity.
package store

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverMemory keeps challenges in process memory.
	DriverMemory = "memory"
	// DriverRedis keeps challenges in Redis.
	DriverRedis = "redis"
)

// ErrUnknownDriver indicates an unsupported store driver.
var ErrUnknownDriver = errors.New("store: unknown driver")

// ValidateDriver normalizes driver and rejects unknown names. Empty means DriverMemory.
func ValidateDriver(driver string) (string, error) {
	switch d := strings.TrimSpace(driver); d {
	case "", DriverMemory:
		return DriverMemory, nil
	case DriverRedis:
		return DriverRedis, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func codesEqual(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
