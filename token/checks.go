package token

import (
	"crypto/subtle"
	"time"
)

// VerifyBinding reports whether the token's embedded fingerprint matches the
// fingerprint of the current request. It fails closed: a nil payload, an
// empty stored fingerprint, or an empty current fingerprint all return false.
// The comparison is constant-time so a forged token cannot probe the stored
// value through response timing.
func VerifyBinding(c *Claims, currentFingerprint string) bool {
	if c == nil || c.Fingerprint == "" || currentFingerprint == "" {
		return false
	}
	if len(c.Fingerprint) != len(currentFingerprint) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Fingerprint), []byte(currentFingerprint)) == 1
}

// AbsolutelyExpired reports whether the session this token belongs to has
// outlived the absolute ceiling, regardless of the token's own signed expiry.
// A nil payload or missing session stamp counts as expired. The comparison is
// strict: a session exactly at the ceiling is not yet expired.
func AbsolutelyExpired(c *Claims, now time.Time, ceiling time.Duration) bool {
	if c == nil || c.SessionCreatedAt <= 0 {
		return true
	}
	if ceiling <= 0 {
		return false
	}
	return now.Sub(time.Unix(c.SessionCreatedAt, 0)) > ceiling
}
