package middleware

import (
	"net/http"
	"strings"

	"github.com/jmadr/authcore"
	"github.com/jmadr/authcore/csrf"
)

// DefaultCsrfSkipList describes the defaultcsrfskiplist operation and its observable behavior.
//
// It returns the paths exempt from the double-submit check when [Csrf] is
// used without an explicit skip list: the login and refresh endpoints, which
// a client necessarily reaches before it holds a CSRF token, and the health
// probe.
func DefaultCsrfSkipList() []string {
	return []string{
		"/api/v1/auth/login",
		"/api/v1/auth/refresh",
		"/health",
	}
}

// Csrf describes the csrf operation and its observable behavior.
//
// Csrf enforces the double-submit cookie check on state-changing methods.
// Safe methods (GET, HEAD, OPTIONS) and the [DefaultCsrfSkipList] paths pass
// through untouched. Rejections are a bare 403; the failing check is recorded
// in the audit trail only.
func Csrf(engine *authcore.Engine) func(http.Handler) http.Handler {
	return CsrfWithSkipList(engine, DefaultCsrfSkipList())
}

// CsrfWithSkipList describes the csrfwithskiplist operation and its observable behavior.
//
// It behaves like [Csrf] with a caller-supplied skip list. Entries match the
// request path exactly; an entry ending in "/" matches as a prefix, the same
// convention the rate limiter whitelist uses. An empty list exempts nothing
// beyond safe methods.
func CsrfWithSkipList(engine *authcore.Engine, skip []string) func(http.Handler) http.Handler {
	skipped := make([]string, len(skip))
	copy(skipped, skip)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethod(r.Method) || skippedPath(skipped, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			headerToken := r.Header.Get(csrf.HeaderName)

			var cookieToken string
			if cookie, err := r.Cookie(csrf.CookieName); err == nil {
				cookieToken = cookie.Value
			}

			result := csrf.Validate(headerToken, cookieToken)
			if !result.Valid {
				if engine != nil {
					engine.MetricInc(authcore.MetricCsrfRejected)
					engine.EmitAudit(ClientContext(r), authcore.AuditEvent{
						EventType: authcore.AuditEventCsrfRejected,
						IP:        clientAddress(r),
						Error:     authcore.AuditEventCsrfRejected,
						Metadata: map[string]string{
							"reason": result.Reason,
							"path":   r.URL.Path,
						},
					})
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func skippedPath(skip []string, path string) bool {
	for _, entry := range skip {
		if entry == "" {
			continue
		}
		if strings.HasSuffix(entry, "/") {
			if strings.HasPrefix(path, entry) {
				return true
			}
			continue
		}
		if path == entry {
			return true
		}
	}
	return false
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
