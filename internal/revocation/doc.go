// Package revocation is the durable half of token lifecycle management: a
// Redis-backed list of tokens invalidated before their natural expiry, plus
// one invalidation mark per subject.
//
// Entries are keyed by a one-way hash of the raw token, so the store never
// holds usable secrets, and carry a TTL equal to the token's remaining
// natural lifetime, so the list self-prunes and never outlives the token it
// guards.
//
// The subject mark is the cheap form of "void everything issued before this
// instant": one timestamp per subject instead of enumerating every
// outstanding token, set on credential change.
package revocation
