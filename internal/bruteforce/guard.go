package bruteforce

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indicates the attempt-tracking backend is unreachable.
var ErrUnavailable = errors.New("bruteforce backend unavailable")

// LockType identifies which keyspace tripped a lockout.
type LockType string

const (
	// LockNone is an exported constant or variable used by the authentication engine.
	LockNone LockType = ""
	// LockUsername is an exported constant or variable used by the authentication engine.
	LockUsername LockType = "username"
	// LockAddress is an exported constant or variable used by the authentication engine.
	LockAddress LockType = "address"
)

// Decision is a computed lockout state. It is derived at query time, never
// stored.
type Decision struct {
	Locked bool
	Type   LockType
}

// Config holds the guard policy. This is fixed deployment policy, not user
// input.
type Config struct {
	UsernameThreshold int
	AddressThreshold  int
	TrackingWindow    time.Duration
	UsernameLockout   time.Duration
	AddressLockout    time.Duration
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return Config{
		UsernameThreshold: 5,
		AddressThreshold:  10,
		TrackingWindow:    15 * time.Minute,
		UsernameLockout:   30 * time.Minute,
		AddressLockout:    60 * time.Minute,
	}
}

// Guard tracks failed attempts per username and per address and answers
// lockout queries against the configured thresholds.
type Guard struct {
	redis  redis.UniversalClient
	config Config
	now    func() time.Time
}

// New creates a [Guard] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Guard {
	if cfg.UsernameThreshold <= 0 {
		cfg.UsernameThreshold = 5
	}
	if cfg.AddressThreshold <= 0 {
		cfg.AddressThreshold = 10
	}
	if cfg.TrackingWindow <= 0 {
		cfg.TrackingWindow = 15 * time.Minute
	}
	if cfg.UsernameLockout <= 0 {
		cfg.UsernameLockout = 30 * time.Minute
	}
	if cfg.AddressLockout <= 0 {
		cfg.AddressLockout = 60 * time.Minute
	}

	return &Guard{
		redis:  redisClient,
		config: cfg,
		now:    time.Now,
	}
}

func usernameAttemptsKey(username string) string { return "bfa:u:" + username }
func addressAttemptsKey(address string) string   { return "bfa:a:" + address }
func usernameLockKey(username string) string     { return "bfl:u:" + username }
func addressLockKey(address string) string       { return "bfl:a:" + address }

// RecordFailure appends an attempt record under both the username and the
// address keyspace with the current timestamp.
func (g *Guard) RecordFailure(ctx context.Context, username, address string) error {
	if username != "" {
		if err := g.appendAttempt(ctx, usernameAttemptsKey(username)); err != nil {
			return err
		}
	}
	if address != "" {
		if err := g.appendAttempt(ctx, addressAttemptsKey(address)); err != nil {
			return err
		}
	}
	return nil
}

// RecordSuccess clears the username keyspace only. The address keyspace is
// deliberately left intact: abuse from one source across many usernames must
// keep accumulating.
func (g *Guard) RecordSuccess(ctx context.Context, username, address string) error {
	_ = address

	if username == "" {
		return nil
	}
	if err := g.redis.Del(ctx, usernameAttemptsKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// CountUsernameFailures returns the number of attempt records for the
// username within the tracking window.
func (g *Guard) CountUsernameFailures(ctx context.Context, username string) (int, error) {
	if username == "" {
		return 0, nil
	}
	return g.countRecent(ctx, usernameAttemptsKey(username))
}

// CountAddressFailures returns the number of attempt records for the address
// within the tracking window.
func (g *Guard) CountAddressFailures(ctx context.Context, address string) (int, error) {
	if address == "" {
		return 0, nil
	}
	return g.countRecent(ctx, addressAttemptsKey(address))
}

// CheckLockout evaluates the username keyspace before the address keyspace.
// Either key may be empty and is then skipped, so address-only checks work
// on paths where no username is known.
func (g *Guard) CheckLockout(ctx context.Context, username, address string) (Decision, error) {
	if username != "" {
		locked, err := g.checkKeyspace(ctx,
			usernameLockKey(username), usernameAttemptsKey(username),
			g.config.UsernameThreshold, g.config.UsernameLockout)
		if err != nil {
			return Decision{}, err
		}
		if locked {
			return Decision{Locked: true, Type: LockUsername}, nil
		}
	}

	if address != "" {
		locked, err := g.checkKeyspace(ctx,
			addressLockKey(address), addressAttemptsKey(address),
			g.config.AddressThreshold, g.config.AddressLockout)
		if err != nil {
			return Decision{}, err
		}
		if locked {
			return Decision{Locked: true, Type: LockAddress}, nil
		}
	}

	return Decision{}, nil
}

func (g *Guard) checkKeyspace(ctx context.Context, lockKey, attemptsKey string, threshold int, lockout time.Duration) (bool, error) {
	exists, err := g.redis.Exists(ctx, lockKey).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if exists > 0 {
		return true, nil
	}

	count, err := g.countRecent(ctx, attemptsKey)
	if err != nil {
		return false, err
	}
	if count < threshold {
		return false, nil
	}

	// Threshold just tripped: plant the lock flag so the lockout duration is
	// honored independently of the tracking window.
	if err := g.redis.Set(ctx, lockKey, "1", lockout).Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return true, nil
}

func (g *Guard) appendAttempt(ctx context.Context, key string) error {
	now := g.now()

	pipe := g.redis.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now.Add(-g.config.TrackingWindow).UnixMilli(), 10))
	pipe.Expire(ctx, key, g.config.TrackingWindow)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (g *Guard) countRecent(ctx context.Context, key string) (int, error) {
	cutoff := g.now().Add(-g.config.TrackingWindow).UnixMilli()

	count, err := g.redis.ZCount(ctx, key,
		"("+strconv.FormatInt(cutoff, 10), "+inf").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return int(count), nil
}
