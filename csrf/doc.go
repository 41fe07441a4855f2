// Package csrf implements the double-submit-cookie check for state-changing
// requests. The server mints a random token, sets it as a cookie, and the
// client echoes it back in a header; a forged cross-site request cannot read
// the cookie and therefore cannot produce a matching header.
//
// Validity is a pure comparison, never a lookup: nothing is stored server-side
// beyond the cookie the client already holds.
//
// # What this package must NOT do
//
//   - Compare tokens with a short-circuiting equality operator. The match is
//     constant-time over fixed-length values.
//   - Decide which methods or paths need protection; that policy lives in
//     middleware.
package csrf
