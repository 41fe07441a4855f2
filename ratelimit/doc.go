// Package ratelimit bounds request volume per client address and endpoint
// category with a true sliding window: the decision is always the exact count
// of requests in the trailing window, so a burst straddling a boundary is
// still throttled correctly.
//
// Buckets are process-local. The limiter takes an injectable clock and an
// optional sweep disable so tests advance virtual time instead of sleeping.
//
// # What this package must NOT do
//
//   - Round to fixed clock-aligned buckets.
//   - Grow without bound: a background sweep drops timestamps older than the
//     longest configured window and removes empty buckets.
package ratelimit
