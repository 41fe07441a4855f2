package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmadr/authcore/token"
)

// ValidateAccess describes the validateaccess operation and its observable behavior.
//
// ValidateAccess checks an access token's signature, kind, revocation state,
// subject invalidation mark, fingerprint binding, and the session's absolute
// age ceiling, in that order, failing closed at each step.
//
// ValidateAccess may return an error when input validation, dependency calls, or security checks fail.
// ValidateAccess does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ValidateAccess(ctx context.Context, accessToken string) (*AuthResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	started := time.Now()
	defer func() {
		if e.metrics != nil {
			e.metrics.Observe(MetricValidateLatency, time.Since(started))
		}
	}()

	fp := e.fingerprintFromContext(ctx)

	claims, err := e.tokens.Parse(accessToken, token.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	storeContext, cancel := e.storeCtx(ctx)
	defer cancel()

	revoked, err := e.revocations.IsRevoked(storeContext, accessToken)
	if err != nil {
		e.warn(err, "revocation check failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	if err := e.checkSubjectMark(storeContext, claims); err != nil {
		return nil, err
	}

	if !token.VerifyBinding(claims, fp) {
		e.metricInc(MetricFingerprintMismatch)
		e.emitAudit(ctx, auditEventFingerprintMismatch, false, claims.UID, fp, ErrFingerprintMismatch, nil)
		return nil, ErrFingerprintMismatch
	}

	if token.AbsolutelyExpired(claims, time.Now().UTC(), e.config.Session.AbsoluteLifetime) {
		e.metricInc(MetricSessionCeilingExceeded)
		e.emitAudit(ctx, auditEventSessionCeiling, false, claims.UID, fp, ErrSessionExpired, nil)
		return nil, ErrSessionExpired
	}

	result := &AuthResult{
		UserID:      claims.UID,
		Role:        claims.Role,
		Fingerprint: claims.Fingerprint,
	}
	if origin, ok := claims.IssuedInstant(); ok {
		result.SessionCreatedAt = origin
	}

	return result, nil
}
