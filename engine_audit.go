package authcore

import (
	"context"
	"errors"
	"time"
)

// Audit event types emitted from the HTTP middleware rather than the engine
// itself. Exported so the middleware package and sink consumers share one
// spelling.
const (
	// AuditEventRateLimitTriggered is an exported constant or variable used by the authentication engine.
	AuditEventRateLimitTriggered = "rate_limit_triggered"
	// AuditEventCsrfRejected is an exported constant or variable used by the authentication engine.
	AuditEventCsrfRejected = "csrf_rejected"
)

const (
	auditEventLoginSuccess        = "login_success"
	auditEventLoginFailure        = "login_failure"
	auditEventLoginLockedOut      = "login_locked_out"
	auditEventRefreshSuccess      = "refresh_success"
	auditEventRefreshInvalid      = "refresh_invalid"
	auditEventRefreshReuse        = "refresh_reuse_detected"
	auditEventFingerprintMismatch = "fingerprint_mismatch"
	auditEventSessionCeiling      = "session_absolute_timeout"
	auditEventLogout              = "logout"
	auditEventSubjectInvalidated  = "subject_invalidated"
	auditEventTokenRevoked        = "token_revoked"
)

// AuditErrorCode defines a public type used by authcore APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrLockedOut          AuditErrorCode = "locked_out"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrTokenRevoked       AuditErrorCode = "token_revoked"
	auditErrFingerprint        AuditErrorCode = "fingerprint_mismatch"
	auditErrSessionExpired     AuditErrorCode = "session_expired"
	auditErrRefreshInvalid     AuditErrorCode = "refresh_invalid"
	auditErrRateLimited        AuditErrorCode = "rate_limited"
	auditErrCsrf               AuditErrorCode = "csrf_rejected"
	auditErrStoreUnavailable   AuditErrorCode = "store_unavailable"
)

func auditErrorCode(err error) AuditErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errLockedOut):
		return auditErrLockedOut
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrTokenRevoked):
		return auditErrTokenRevoked
	case errors.Is(err, ErrFingerprintMismatch):
		return auditErrFingerprint
	case errors.Is(err, ErrSessionExpired):
		return auditErrSessionExpired
	case errors.Is(err, ErrRefreshInvalid):
		return auditErrRefreshInvalid
	case errors.Is(err, ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrCsrfRejected):
		return auditErrCsrf
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrStoreUnavailable
	default:
		return AuditErrorCode(err.Error())
	}
}

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	fingerprint string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		UserID:      userID,
		IP:          clientIPFromContext(ctx),
		Fingerprint: fingerprintPrefix(fingerprint),
		Success:     success,
		Metadata:    metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

// fingerprintPrefix truncates a fingerprint for logging. The full digest
// never leaves the engine.
func fingerprintPrefix(fp string) string {
	const keep = 12
	if len(fp) <= keep {
		return fp
	}
	return fp[:keep]
}
