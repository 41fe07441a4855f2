package ratelimit

import "strings"

// Category is the endpoint class a request path falls into. Each category has
// its own budget; whitelisted paths have none.
type Category string

const (
	// CategoryWhitelist is an exported constant or variable used by the authentication engine.
	CategoryWhitelist Category = "whitelist"
	// CategoryAuth is an exported constant or variable used by the authentication engine.
	CategoryAuth Category = "auth"
	// CategoryAdmin is an exported constant or variable used by the authentication engine.
	CategoryAdmin Category = "admin"
	// CategoryPublic is an exported constant or variable used by the authentication engine.
	CategoryPublic Category = "public"
)

// Classify maps a request path to its category. Whitelist entries win over
// everything; auth prefixes are tried before admin; anything else is public.
func (l *Limiter) Classify(path string) Category {
	for _, entry := range l.config.Whitelist {
		if path == entry {
			return CategoryWhitelist
		}
		if strings.HasSuffix(entry, "/") && strings.HasPrefix(path, entry) {
			return CategoryWhitelist
		}
	}

	for _, prefix := range l.config.AuthPaths {
		if strings.HasPrefix(path, prefix) {
			return CategoryAuth
		}
	}

	for _, prefix := range l.config.AdminPaths {
		if strings.HasPrefix(path, prefix) {
			return CategoryAdmin
		}
	}

	return CategoryPublic
}
