// Package token signs, parses, and checks the bound session tokens used by
// authcore. A session is represented by a [Pair]: a short-lived access token
// and a longer-lived refresh token that share the same client fingerprint and
// session creation instant.
//
// The package is stateless. Revocation and subject-wide invalidation are
// durable concerns and live in internal/revocation; this package only covers
// what can be decided from the token material itself: signature, expiry, kind,
// fingerprint binding, and the absolute session ceiling.
//
// # What this package must NOT do
//
//   - Touch Redis or any other store.
//   - Leak signing keys through its API.
//   - Treat a missing claim as valid: every check here fails closed.
package token
