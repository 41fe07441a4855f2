// Package middleware exposes HTTP middleware adapters for access-token, rate-limit,
// and CSRF enforcement built on top of authcore.Engine.
//
// # Adapters
//
//   - [Guard] — extracts the bearer token, stamps client identity into the
//     request context, and calls Engine.ValidateAccess.
//   - [RateLimit] — per-client sliding-window throttling with standard
//     X-RateLimit response headers.
//   - [Csrf] — double-submit cookie check on state-changing methods.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement security logic itself; every decision is delegated to the Engine
// and its collaborators.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Access Redis (Engine handles I/O).
//   - Reveal a rejection's cause to the client beyond the status code.
package middleware
