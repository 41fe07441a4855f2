// Package bruteforce tracks failed authentication attempts and computes
// lockout and progressive-delay decisions.
//
// Two independent keyspaces defend against the two guessing shapes: per
// username ("one account, many guesses") and per network address ("many
// accounts, one source"). The address threshold is higher because shared
// addresses behind NAT or proxies carry legitimate bursts.
//
// Attempts are kept in Redis sorted sets scored by timestamp, so a count is
// always over the exact trailing tracking window. Tripping a threshold plants
// a TTL'd lock flag, which is how a lockout outlives the tracking window.
package bruteforce
