package authcore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmadr/authcore/internal/revocation"
	"github.com/jmadr/authcore/token"
)

// Logout describes the logout operation and its observable behavior.
//
// Logout revokes both halves of the presented pair so neither can be used
// again, regardless of their remaining signed lifetime. Logout is idempotent:
// revoking an already-revoked or expired token is not an error.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	fp := e.fingerprintFromContext(ctx)

	// Parse leniently: an expired or malformed token still ends the session.
	claims, err := e.tokens.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		claims, err = e.tokens.Parse(accessToken, token.KindAccess)
	}
	if err != nil {
		e.emitAudit(ctx, auditEventLogout, true, "", fp, nil, nil)
		return nil
	}

	storeContext, cancel := e.storeCtx(ctx)
	defer cancel()

	var failed error
	if accessToken != "" {
		if err := e.revocations.Revoke(storeContext, accessToken, claims.UID, revocation.ReasonLogout, e.tokens.AccessTTL()); err != nil {
			failed = err
		}
	}
	if refreshToken != "" {
		if err := e.revocations.Revoke(storeContext, refreshToken, claims.UID, revocation.ReasonLogout, remainingTTL(claims, e.tokens.RefreshTTL())); err != nil {
			failed = errors.Join(failed, err)
		}
	}
	if failed != nil {
		e.warn(failed, "logout revocation failed")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, failed)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, claims.UID, fp, nil, nil)

	return nil
}

// InvalidateAllForSubject stamps a subject-wide invalidation mark. Every
// token issued at or before the mark, on any device, fails validation from
// this point on. The mark outlives the longest possible token.
//
// InvalidateAllForSubject may return an error when input validation, dependency calls, or security checks fail.
func (e *Engine) InvalidateAllForSubject(ctx context.Context, subjectID, reason string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if subjectID == "" {
		return errors.New("subject id required")
	}
	if reason == "" {
		reason = revocation.ReasonCredentialChange
	}

	storeContext, cancel := e.storeCtx(ctx)
	defer cancel()

	ttl := e.tokens.RefreshTTL()
	if e.config.Session.AbsoluteLifetime > ttl {
		ttl = e.config.Session.AbsoluteLifetime
	}

	if err := e.revocations.MarkSubject(storeContext, subjectID, time.Now().UTC(), ttl); err != nil {
		e.warn(err, "subject invalidation failed")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricSubjectInvalidated)
	e.emitAudit(ctx, auditEventSubjectInvalidated, true, subjectID, "", nil, func() map[string]string {
		return map[string]string{"reason": reason}
	})

	return nil
}
