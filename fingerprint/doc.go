// Package fingerprint derives a stable client identity from the network
// address and client-agent string of a request.
//
// The fingerprint is a binding attribute, never a primary identity: tokens
// carry it so the engine can detect that a token is being replayed from a
// different client than the one it was issued to.
//
// # What this package must NOT do
//
//   - Perform I/O or keep state. [Generate] is a pure function.
//   - Return an error. An absent request maps to the [Unknown] sentinel.
package fingerprint
