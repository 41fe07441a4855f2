package authcore

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	// It covers user-not-found, wrong password, and lockout alike: the three
	// outcomes must be indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenRevoked is an exported constant or variable used by the authentication engine.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrFingerprintMismatch is an exported constant or variable used by the authentication engine.
	ErrFingerprintMismatch = errors.New("fingerprint mismatch")
	// ErrSessionExpired is an exported constant or variable used by the authentication engine.
	ErrSessionExpired = errors.New("session absolute timeout exceeded")
	// ErrRefreshInvalid is an exported constant or variable used by the authentication engine.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrRateLimited is an exported constant or variable used by the authentication engine.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrCsrfRejected is an exported constant or variable used by the authentication engine.
	ErrCsrfRejected = errors.New("csrf validation failed")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("durable store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")

	// errLockedOut never leaves the engine; callers see
	// [ErrInvalidCredentials] while the audit trail records the true cause.
	errLockedOut = errors.New("account locked out")
)
