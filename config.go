package authcore

import (
	"errors"
	"time"

	"github.com/jmadr/authcore/internal/bruteforce"
	"github.com/jmadr/authcore/ratelimit"
	"github.com/jmadr/authcore/token"
)

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token      TokenConfig
	Session    SessionConfig
	BruteForce BruteForceConfig
	RateLimit  ratelimit.Config
	Audit      AuditConfig
	Metrics    MetricsConfig
	Store      StoreConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authcore APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod string // "ed25519" or "hs256" (default)
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authcore APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// AbsoluteLifetime is the hard ceiling on total session age, enforced
	// independently of any token's own signed expiry.
	AbsoluteLifetime time.Duration

	// SlidingAbsoluteTimeout restamps sessionCreatedAt on every rotation,
	// which lets an actively refreshed session persist indefinitely. Off by
	// default: rotation preserves the original login instant.
	SlidingAbsoluteTimeout bool
}

/*
====================================
BRUTE FORCE CONFIG
====================================
*/

// BruteForceConfig defines a public type used by authcore APIs.
//
// BruteForceConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BruteForceConfig struct {
	UsernameThreshold int
	AddressThreshold  int
	TrackingWindow    time.Duration
	UsernameLockout   time.Duration
	AddressLockout    time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authcore APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authcore APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines a public type used by authcore APIs.
//
// StoreConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StoreConfig struct {
	// RedisPrefix namespaces every durable key this engine writes.
	RedisPrefix string

	// Timeout bounds each durable-store call so a slow store cannot stall
	// the request pipeline indefinitely.
	Timeout time.Duration
}

// DefaultConfig returns the production defaults. Token signing material and
// the issuer must still be supplied before [Builder.Build].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     time.Hour,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: string(token.MethodHS256),
		},
		Session: SessionConfig{
			AbsoluteLifetime: 24 * time.Hour,
		},
		BruteForce: BruteForceConfig{
			UsernameThreshold: 5,
			AddressThreshold:  10,
			TrackingWindow:    15 * time.Minute,
			UsernameLockout:   30 * time.Minute,
			AddressLockout:    60 * time.Minute,
		},
		RateLimit: ratelimit.DefaultConfig(),
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
		Store: StoreConfig{
			RedisPrefix: "ac",
			Timeout:     2 * time.Second,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token.AccessTTL must be positive")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token.RefreshTTL must be positive")
	}
	if c.Token.RefreshTTL < c.Token.AccessTTL {
		return errors.New("Token.RefreshTTL must not be shorter than Token.AccessTTL")
	}
	if c.Session.AbsoluteLifetime <= 0 {
		return errors.New("Session.AbsoluteLifetime must be positive")
	}
	if c.Session.AbsoluteLifetime < c.Token.AccessTTL {
		return errors.New("Session.AbsoluteLifetime must cover at least one access token lifetime")
	}
	if c.BruteForce.UsernameThreshold <= 0 || c.BruteForce.AddressThreshold <= 0 {
		return errors.New("BruteForce thresholds must be positive")
	}
	if c.BruteForce.UsernameThreshold > c.BruteForce.AddressThreshold {
		return errors.New("BruteForce.UsernameThreshold must not exceed AddressThreshold")
	}
	if c.BruteForce.TrackingWindow <= 0 {
		return errors.New("BruteForce.TrackingWindow must be positive")
	}
	if c.BruteForce.UsernameLockout < c.BruteForce.TrackingWindow ||
		c.BruteForce.AddressLockout < c.BruteForce.TrackingWindow {
		return errors.New("BruteForce lockout durations must cover the tracking window")
	}
	if c.Store.Timeout <= 0 {
		return errors.New("Store.Timeout must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg

	out.Token.PrivateKey = append([]byte(nil), cfg.Token.PrivateKey...)
	out.Token.PublicKey = append([]byte(nil), cfg.Token.PublicKey...)

	out.RateLimit.Whitelist = append([]string(nil), cfg.RateLimit.Whitelist...)
	out.RateLimit.AuthPaths = append([]string(nil), cfg.RateLimit.AuthPaths...)
	out.RateLimit.AdminPaths = append([]string(nil), cfg.RateLimit.AdminPaths...)

	return out
}

func (c *Config) bruteForceConfig() bruteforce.Config {
	return bruteforce.Config{
		UsernameThreshold: c.BruteForce.UsernameThreshold,
		AddressThreshold:  c.BruteForce.AddressThreshold,
		TrackingWindow:    c.BruteForce.TrackingWindow,
		UsernameLockout:   c.BruteForce.UsernameLockout,
		AddressLockout:    c.BruteForce.AddressLockout,
	}
}
