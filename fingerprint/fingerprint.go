package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"
)

// Unknown is the sentinel fingerprint returned when no request material is
// available. It is a reserved value and never collides with a real digest.
const Unknown = "unknown"

// Length is the hex-encoded length of a generated fingerprint.
const Length = sha256.Size * 2

const separator = "|"

// Generate returns the hex-encoded SHA-256 digest of address and clientAgent.
// Identical inputs always produce identical output; changing either input
// produces a different digest. When both inputs are empty the [Unknown]
// sentinel is returned instead of hashing nothing.
func Generate(address, clientAgent string) string {
	if address == "" && clientAgent == "" {
		return Unknown
	}

	sum := sha256.Sum256([]byte(address + separator + clientAgent))
	return hex.EncodeToString(sum[:])
}

// FromRequest derives a fingerprint from an HTTP request's remote address and
// User-Agent header. A nil request yields [Unknown].
func FromRequest(r *http.Request) string {
	if r == nil {
		return Unknown
	}
	return Generate(ClientAddress(r), r.UserAgent())
}

// ClientAddress extracts the bare client address from a request, stripping
// the port from RemoteAddr when present.
func ClientAddress(r *http.Request) string {
	if r == nil {
		return ""
	}

	addr := strings.TrimSpace(r.RemoteAddr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
