package authcore

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jmadr/authcore/csrf"
	"github.com/jmadr/authcore/fingerprint"
	"github.com/jmadr/authcore/internal/bruteforce"
	"github.com/jmadr/authcore/internal/revocation"
	"github.com/jmadr/authcore/ratelimit"
	"github.com/jmadr/authcore/token"
)

// Engine defines a public type used by authcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config      Config
	tokens      *token.Manager
	guard       *bruteforce.Guard
	revocations *revocation.Store
	rateLimiter *ratelimit.Limiter
	audit       *auditDispatcher
	metrics     *Metrics
	logger      zerolog.Logger

	userProvider UserProvider
	verifier     PasswordVerifier

	// sleep is the progressive-delay primitive; replaced in tests.
	sleep func(time.Duration)
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.rateLimiter != nil {
		e.rateLimiter.Close()
	}
}

// RateLimiter exposes the engine's request throttle for middleware wiring.
func (e *Engine) RateLimiter() *ratelimit.Limiter {
	if e == nil {
		return nil
	}
	return e.rateLimiter
}

// CsrfToken mints a fresh CSRF token for the double-submit cookie exchange.
func (e *Engine) CsrfToken() (string, error) {
	return csrf.GenerateToken()
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// EmitAudit forwards an externally observed security event (a middleware
// rejection, for example) through the engine's dispatcher.
func (e *Engine) EmitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	e.audit.Emit(ctx, event)
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// MetricInc increments a counter on behalf of middleware adapters.
func (e *Engine) MetricInc(id MetricID) {
	e.metricInc(id)
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// storeCtx bounds a durable-store call with the configured timeout so a slow
// store cannot stall the request pipeline.
func (e *Engine) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, e.config.Store.Timeout)
}

// fingerprintFromContext derives the current request's fingerprint from the
// context-attached client IP and user agent.
func (e *Engine) fingerprintFromContext(ctx context.Context) string {
	return fingerprint.Generate(clientIPFromContext(ctx), userAgentFromContext(ctx))
}

func (e *Engine) warn(err error, msg string) {
	if e == nil {
		return
	}
	e.logger.Warn().Err(err).Msg(msg)
}
