package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/jmadr/authcore"
)

// AccessCookieName is the cookie consulted when no Authorization header is
// present.
const AccessCookieName = "access_token"

type authResultContextKey struct{}

// AuthResultFromContext describes the authresultfromcontext operation and its observable behavior.
//
// AuthResultFromContext does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func AuthResultFromContext(ctx context.Context) (*authcore.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*authcore.AuthResult)
	return res, ok
}

// Guard describes the guard operation and its observable behavior.
//
// Guard rejects with a bare 401 on any failure; the cause is available only
// through the engine's audit trail.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tokenStr, ok := accessToken(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := ClientContext(r)
			res, err := engine.ValidateAccess(ctx, tokenStr)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientContext stamps the request's client IP and User-Agent into its
// context so engine calls can derive the fingerprint.
func ClientContext(r *http.Request) context.Context {
	ctx := authcore.WithClientIP(r.Context(), clientAddress(r))
	return authcore.WithUserAgent(ctx, r.UserAgent())
}

func accessToken(r *http.Request) (string, bool) {
	if tokenStr, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return tokenStr, true
	}

	cookie, err := r.Cookie(AccessCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tokenStr := value[len(bearer):]
	if tokenStr == "" {
		return "", false
	}

	return tokenStr, true
}

// clientAddress strips the port from RemoteAddr so one client maps to one
// throttle key regardless of ephemeral port.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
