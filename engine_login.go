package authcore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jmadr/authcore/internal/bruteforce"
)

// Login describes the login operation and its observable behavior.
//
// Login authenticates a username and password against the configured user
// provider and, on success, issues a fresh token pair bound to the caller's
// client fingerprint. Every failure mode, including an active lockout, is
// reported to the client as [ErrInvalidCredentials]; the audit trail carries
// the real cause.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, username, secret string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	address := clientIPFromContext(ctx)
	fp := e.fingerprintFromContext(ctx)

	storeContext, cancel := e.storeCtx(ctx)
	defer cancel()

	decision, err := e.guard.CheckLockout(storeContext, username, address)
	if err != nil {
		e.warn(err, "lockout check failed")
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if decision.Locked {
		e.metricInc(MetricLoginLockedOut)
		lockType := string(decision.Type)
		e.emitAudit(ctx, auditEventLoginLockedOut, false, username, fp, errLockedOut, func() map[string]string {
			return map[string]string{"lock_type": lockType}
		})
		// Indistinguishable from a bad password on the wire.
		return nil, ErrInvalidCredentials
	}

	user, err := e.userProvider.GetUserByIdentifier(ctx, username)
	if err != nil || user == nil {
		return nil, e.failLogin(ctx, username, address, fp)
	}

	ok, err := e.verifier.Verify(secret, user.CredentialHash)
	if err != nil || !ok {
		// Tracked under the presented username so the counter matches the
		// lockout check.
		return nil, e.failLogin(ctx, username, address, fp)
	}

	if err := e.guard.RecordSuccess(storeContext, username, address); err != nil {
		e.warn(err, "failure counter reset failed")
	}

	pair, err := e.tokens.IssuePair(user.ID, user.Name, user.Role, fp, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, fp, nil, nil)

	return &LoginResult{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		SessionCreatedAt: pair.SessionCreatedAt,
	}, nil
}

// failLogin records the failed attempt in both tracking keyspaces, applies
// the progressive delay, and collapses the cause into the generic rejection.
func (e *Engine) failLogin(ctx context.Context, username, address, fp string) error {
	storeContext, cancel := e.storeCtx(ctx)
	defer cancel()

	if err := e.guard.RecordFailure(storeContext, username, address); err != nil {
		e.warn(err, "failure record failed")
	}

	attempts, err := e.guard.CountUsernameFailures(storeContext, username)
	if err != nil {
		e.warn(err, "failure count unavailable")
		attempts = 1
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, username, fp, ErrInvalidCredentials, func() map[string]string {
		return map[string]string{"attempts": strconv.Itoa(attempts)}
	})

	// Runs to completion once started; context cancellation does not cut the
	// delay short, so abandoning the request buys an attacker nothing.
	e.sleep(bruteforce.ProgressiveDelay(attempts))

	return ErrInvalidCredentials
}
