package authcore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmadr/authcore/internal/revocation"
	"github.com/jmadr/authcore/token"
)

// Refresh describes the refresh operation and its observable behavior.
//
// Refresh rotates a token pair: the presented refresh token is validated
// against revocation state, fingerprint binding, the session's absolute age
// ceiling, and the subject invalidation mark, then both old tokens are
// revoked and a new pair is issued. The new pair keeps the original session
// creation instant unless Session.SlidingAbsoluteTimeout is set.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	fp := e.fingerprintFromContext(ctx)

	claims, err := e.tokens.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, "", fp, ErrRefreshInvalid, nil)
		return nil, fmt.Errorf("%w: %v", ErrRefreshInvalid, err)
	}

	storeContext, cancel := e.storeCtx(ctx)
	defer cancel()

	revoked, err := e.revocations.IsRevoked(storeContext, refreshToken)
	if err != nil {
		e.warn(err, "revocation check failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if revoked {
		// A revoked refresh token presented again is the replay signal the
		// rotation scheme exists to surface.
		e.metricInc(MetricRefreshReuseDetected)
		e.emitAudit(ctx, auditEventRefreshReuse, false, claims.UID, fp, ErrTokenRevoked, nil)
		return nil, fmt.Errorf("%w: refresh token already consumed", ErrTokenRevoked)
	}

	if !token.VerifyBinding(claims, fp) {
		e.revokeCompromisedPair(storeContext, accessToken, refreshToken, claims)
		e.metricInc(MetricFingerprintMismatch)
		e.emitAudit(ctx, auditEventFingerprintMismatch, false, claims.UID, fp, ErrFingerprintMismatch, nil)
		return nil, ErrFingerprintMismatch
	}

	now := time.Now().UTC()
	if token.AbsolutelyExpired(claims, now, e.config.Session.AbsoluteLifetime) {
		e.metricInc(MetricSessionCeilingExceeded)
		e.emitAudit(ctx, auditEventSessionCeiling, false, claims.UID, fp, ErrSessionExpired, nil)
		return nil, ErrSessionExpired
	}

	if err := e.checkSubjectMark(storeContext, claims); err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, claims.UID, fp, err, nil)
		return nil, err
	}

	// Re-read the user so role changes and deactivations take effect at
	// rotation time rather than persisting for the full refresh TTL. The
	// lookup uses the login name carried in the claims, the same identifier
	// the provider resolved at login.
	user, err := e.userProvider.GetUserByIdentifier(ctx, claims.Name)
	if err != nil || user == nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, claims.UID, fp, ErrRefreshInvalid, nil)
		return nil, ErrRefreshInvalid
	}

	sessionCreatedAt := now
	if !e.config.Session.SlidingAbsoluteTimeout {
		if origin, ok := claims.IssuedInstant(); ok {
			sessionCreatedAt = origin
		}
	}

	pair, err := e.tokens.IssuePair(user.ID, user.Name, user.Role, fp, sessionCreatedAt)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	e.revokePair(storeContext, accessToken, refreshToken, claims, revocation.ReasonRotation)

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.ID, fp, nil, nil)

	return &LoginResult{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		SessionCreatedAt: pair.SessionCreatedAt,
	}, nil
}

// checkSubjectMark rejects tokens issued before the subject's invalidation
// instant.
func (e *Engine) checkSubjectMark(ctx context.Context, claims *token.Claims) error {
	mark, present, err := e.revocations.SubjectMark(ctx, claims.UID)
	if err != nil {
		e.warn(err, "subject mark lookup failed")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !present {
		return nil
	}

	issued := time.Time{}
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Time
	}
	if !issued.After(mark) {
		return fmt.Errorf("%w: subject invalidated", ErrTokenRevoked)
	}
	return nil
}

// revokePair puts both halves of a pair on the denylist. Each entry lives
// only as long as the token's own signed expiry would.
func (e *Engine) revokePair(ctx context.Context, accessToken, refreshToken string, claims *token.Claims, reason string) {
	if accessToken != "" {
		if err := e.revocations.Revoke(ctx, accessToken, claims.UID, reason, e.tokens.AccessTTL()); err != nil {
			e.warn(err, "access token revocation failed")
		}
	}
	if err := e.revocations.Revoke(ctx, refreshToken, claims.UID, reason, remainingTTL(claims, e.tokens.RefreshTTL())); err != nil {
		e.warn(err, "refresh token revocation failed")
	}
}

func (e *Engine) revokeCompromisedPair(ctx context.Context, accessToken, refreshToken string, claims *token.Claims) {
	e.revokePair(ctx, accessToken, refreshToken, claims, revocation.ReasonFingerprintMismatch)
	e.metricInc(MetricTokenRevoked)
	e.emitAudit(ctx, auditEventTokenRevoked, false, claims.UID, claims.Fingerprint, nil, func() map[string]string {
		return map[string]string{"reason": revocation.ReasonFingerprintMismatch}
	})
}

// remainingTTL is the time until the token's signed expiry, floored at one
// second so an entry always outlives the token it denies.
func remainingTTL(claims *token.Claims, fallback time.Duration) time.Duration {
	if claims == nil || claims.ExpiresAt == nil {
		return fallback
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < time.Second {
		return time.Second
	}
	return remaining
}
