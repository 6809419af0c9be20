// Package clock provides a tiny time abstraction.
//
// Expiry decisions (OTP time-to-live, sweeps, cooldowns) must read time through
// the Clocker interface rather than calling time.Now() directly, so tests can
// move time forward deterministically with a fake clock.
package clock
