// Package authcore is the authentication security core of a request-serving
// backend: it issues, binds, rotates and revokes login sessions, detects and
// throttles credential-guessing attacks, and bounds request volume per
// client.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (LoginResult, AuthResult, MetricsSnapshot, etc.). Durable
// state coordination — revocation entries, attempt tracking — lives under
// internal/ and is never exported. The stateless primitives (fingerprint
// derivation, token signing and checks, CSRF comparison, sliding-window
// limiting) live in their own subpackages so integrators can reuse them
// without an Engine.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or key material in its public API.
//   - Reveal lockout state to an unauthenticated caller: lockout and wrong
//     password both surface as [ErrInvalidCredentials].
//   - Let audit logging failures block or fail an authentication decision.
package authcore
