package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jmadr/authcore"
	"github.com/jmadr/authcore/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = authcore.New
	_ = authcore.DefaultConfig

	var _ *authcore.Engine
	var _ authcore.Config
	var _ authcore.AuthResult
	var _ authcore.LoginResult
	var _ authcore.UserRecord
	var _ authcore.UserProvider
	var _ authcore.PasswordVerifier
	var _ authcore.AuditSink
	var _ authcore.AuditEvent
	var _ authcore.MetricsSnapshot

	var _ error = authcore.ErrInvalidCredentials
	var _ error = authcore.ErrTokenInvalid
	var _ error = authcore.ErrTokenRevoked
	var _ error = authcore.ErrFingerprintMismatch
	var _ error = authcore.ErrSessionExpired
	var _ error = authcore.ErrRefreshInvalid
	var _ error = authcore.ErrRateLimited
	var _ error = authcore.ErrCsrfRejected
	var _ error = authcore.ErrStoreUnavailable

	var _ func(*authcore.Engine) func(http.Handler) http.Handler = middleware.Guard
	var _ func(*authcore.Engine) func(http.Handler) http.Handler = middleware.RateLimit
	var _ func(*authcore.Engine) func(http.Handler) http.Handler = middleware.Csrf
	var _ func(*authcore.Engine, []string) func(http.Handler) http.Handler = middleware.CsrfWithSkipList
	var _ []string = middleware.DefaultCsrfSkipList()

	var _ string = authcore.AuditEventRateLimitTriggered
	var _ string = authcore.AuditEventCsrfRejected

	var _ func(*authcore.Engine, context.Context, string, string) (*authcore.LoginResult, error) = (*authcore.Engine).Login
	var _ func(*authcore.Engine, context.Context, string, string) (*authcore.LoginResult, error) = (*authcore.Engine).Refresh
	var _ func(*authcore.Engine, context.Context, string) (*authcore.AuthResult, error) = (*authcore.Engine).ValidateAccess
	var _ func(*authcore.Engine, context.Context, string, string) error = (*authcore.Engine).Logout
	var _ func(*authcore.Engine, context.Context, string, string) error = (*authcore.Engine).InvalidateAllForSubject
	var _ func(*authcore.Engine) (string, error) = (*authcore.Engine).CsrfToken
}
