package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jmadr/authcore"
	"github.com/jmadr/authcore/ratelimit"
)

// RateLimit describes the ratelimit operation and its observable behavior.
//
// RateLimit classifies the request path, charges the client's budget for that
// category, and rejects with 429 once the budget is spent. Whitelisted paths
// bypass the limiter entirely. Standard X-RateLimit headers are set on every
// limited response so well-behaved clients can pace themselves.
func RateLimit(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := engine.RateLimiter()
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			category := limiter.Classify(r.URL.Path)
			rule, limited := limiter.RuleFor(category)
			if !limited {
				next.ServeHTTP(w, r)
				return
			}

			key := string(category) + ":" + clientAddress(r)
			result := limiter.Check(key, rule.Max, rule.Window)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			if !result.ResetAt.IsZero() {
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			}

			if !result.Allowed {
				retryAfter := retryAfterSeconds(result)

				engine.MetricInc(authcore.MetricRateLimitHit)
				engine.EmitAudit(ClientContext(r), authcore.AuditEvent{
					EventType: authcore.AuditEventRateLimitTriggered,
					IP:        clientAddress(r),
					Error:     "rate_limited",
					Metadata: map[string]string{
						"category":    string(category),
						"path":        r.URL.Path,
						"limit":       strconv.Itoa(result.Limit),
						"window":      rule.Window.String(),
						"retry_after": strconv.Itoa(retryAfter),
					},
				})

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds rounds up so a client honoring the header never retries
// inside the window.
func retryAfterSeconds(result ratelimit.Result) int {
	seconds := int((result.RetryAfter + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
