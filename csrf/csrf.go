package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"io"
)

// TokenBytes is the entropy of a minted token; encoded tokens are twice as
// long in hex.
const TokenBytes = 32

// EncodedLength is the exact length a well-formed token must have.
const EncodedLength = TokenBytes * 2

// HeaderName is the request header the client echoes the token in.
const HeaderName = "X-CSRF-Token"

// CookieName is the cookie the server sets the token in.
const CookieName = "csrf_token"

// Validation failure reasons. These are for audit logs only and must never
// reach the client.
const (
	ReasonMissingHeader = "missing header"
	ReasonMissingCookie = "missing cookie"
	ReasonBadFormat     = "bad format"
	ReasonMismatch      = "mismatch"
)

// Result is the outcome of a double-submit check.
type Result struct {
	Valid  bool
	Reason string
}

// GenerateToken mints a new random token, hex-encoded.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Validate compares the header-submitted token against the cookie token.
// Both must be present, well-formed fixed-length hex, and equal under a
// constant-time comparison.
func Validate(headerToken, cookieToken string) Result {
	if headerToken == "" {
		return Result{Reason: ReasonMissingHeader}
	}
	if cookieToken == "" {
		return Result{Reason: ReasonMissingCookie}
	}
	if !wellFormed(headerToken) || !wellFormed(cookieToken) {
		return Result{Reason: ReasonBadFormat}
	}
	if subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) != 1 {
		return Result{Reason: ReasonMismatch}
	}
	return Result{Valid: true}
}

func wellFormed(tok string) bool {
	if len(tok) != EncodedLength {
		return false
	}
	_, err := hex.DecodeString(tok)
	return err == nil
}
