package ratelimit

import (
	"sync"
	"time"
)

// Rule is one (max requests, window) budget.
type Rule struct {
	Max    int
	Window time.Duration
}

// Config holds per-category budgets, path classification sets, and the sweep
// interval for the background cleanup pass.
type Config struct {
	Public Rule
	Auth   Rule
	Admin  Rule

	// Whitelist entries are matched exactly, or as a prefix when the entry
	// ends with "/". Whitelisted paths are exempt from limiting entirely.
	Whitelist []string

	// AuthPaths and AdminPaths are prefix-matched against the request path.
	AuthPaths  []string
	AdminPaths []string

	SweepInterval time.Duration
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		Public: Rule{Max: 100, Window: time.Minute},
		Auth:   Rule{Max: 10, Window: time.Minute},
		Admin:  Rule{Max: 30, Window: time.Minute},
		Whitelist: []string{
			"/health",
			"/api/v1/streams/heartbeat",
		},
		AuthPaths:     []string{"/api/v1/auth/"},
		AdminPaths:    []string{"/api/v1/admin/"},
		SweepInterval: 5 * time.Minute,
	}
}

// Result is one throttle decision.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter is the process-wide sliding-window throttle. All mutation happens
// under one mutex; the background sweeper shares it.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	config  Config

	now func() time.Time

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option customizes limiter construction.
type Option func(*Limiter)

// WithClock replaces the wall clock, letting tests advance virtual time.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithoutSweeper disables the background cleanup goroutine; callers invoke
// [Limiter.Sweep] themselves.
func WithoutSweeper() Option {
	return func(l *Limiter) {
		l.done = nil
	}
}

// New creates a [Limiter] and, unless disabled, starts its sweep goroutine.
func New(cfg Config, opts ...Option) *Limiter {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}

	l := &Limiter{
		buckets: make(map[string][]time.Time),
		config:  cfg,
		now:     time.Now,
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.done != nil {
		l.wg.Add(1)
		go l.sweepLoop()
	}

	return l
}

// RuleFor returns the budget for a category. Whitelisted traffic has no rule.
func (l *Limiter) RuleFor(cat Category) (Rule, bool) {
	switch cat {
	case CategoryAuth:
		return l.config.Auth, true
	case CategoryAdmin:
		return l.config.Admin, true
	case CategoryPublic:
		return l.config.Public, true
	default:
		return Rule{}, false
	}
}

// Check prunes the key's bucket to the trailing window, then either records
// the request and returns the decremented remaining budget, or rejects with a
// RetryAfter computed from when the oldest retained timestamp falls out of
// the window (minimum one second).
func (l *Limiter) Check(key string, max int, window time.Duration) Result {
	if max <= 0 || window <= 0 {
		return Result{Allowed: true, Limit: max}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-window)

	bucket := pruneBefore(l.buckets[key], cutoff)

	if len(bucket) >= max {
		l.buckets[key] = bucket
		resetAt := bucket[0].Add(window)
		retry := resetAt.Sub(now)
		if retry < time.Second {
			retry = time.Second
		}
		return Result{
			Allowed:    false,
			Limit:      max,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: retry,
		}
	}

	bucket = append(bucket, now)
	l.buckets[key] = bucket

	return Result{
		Allowed:   true,
		Limit:     max,
		Remaining: max - len(bucket),
		ResetAt:   bucket[0].Add(window),
	}
}

// Sweep drops timestamps older than the longest configured window across all
// keys and removes buckets left empty. Called periodically by the background
// goroutine; exported for tests and manual scheduling.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.longestWindow())
	for key, bucket := range l.buckets {
		pruned := pruneBefore(bucket, cutoff)
		if len(pruned) == 0 {
			delete(l.buckets, key)
			continue
		}
		l.buckets[key] = pruned
	}
}

// Keys reports the number of live buckets. Useful for memory monitoring.
func (l *Limiter) Keys() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Close stops the background sweeper. Safe to call more than once.
func (l *Limiter) Close() {
	if l == nil || l.done == nil {
		return
	}
	l.closeOnce.Do(func() {
		close(l.done)
		l.wg.Wait()
	})
}

func (l *Limiter) sweepLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.done:
			return
		}
	}
}

func (l *Limiter) longestWindow() time.Duration {
	longest := l.config.Public.Window
	if l.config.Auth.Window > longest {
		longest = l.config.Auth.Window
	}
	if l.config.Admin.Window > longest {
		longest = l.config.Admin.Window
	}
	if longest <= 0 {
		longest = time.Minute
	}
	return longest
}

func pruneBefore(bucket []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(bucket) && !bucket[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return bucket
	}
	return append(bucket[:0:0], bucket[idx:]...)
}
