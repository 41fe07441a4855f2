package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable indicates the revocation backend is unreachable.
var ErrUnavailable = errors.New("revocation backend unavailable")

// Revocation reasons recorded alongside entries.
const (
	ReasonLogout              = "logout"
	ReasonRotation            = "rotation"
	ReasonFingerprintMismatch = "fingerprint_mismatch"
	ReasonCredentialChange    = "credential_change"
)

// Entry is a stored revocation record, returned by [Store.Lookup].
type Entry struct {
	SubjectID string
	Reason    string
}

// Store persists revocation entries and subject invalidation marks.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// New creates a revocation [Store]. The prefix namespaces all keys.
func New(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "ac"
	}
	return &Store{redis: redisClient, prefix: prefix}
}

// HashToken returns the one-way hash under which a raw token is filed.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

func (s *Store) tokenKey(rawToken string) string {
	return s.prefix + ":rvk:" + HashToken(rawToken)
}

func (s *Store) subjectKey(subjectID string) string {
	return s.prefix + ":sim:" + subjectID
}

// Revoke files an entry for the token with a TTL equal to the token's
// remaining natural lifetime. A non-positive TTL means the token is already
// past its signed expiry and nothing needs to be stored.
func (s *Store) Revoke(ctx context.Context, rawToken, subjectID, reason string, ttl time.Duration) error {
	if rawToken == "" || ttl <= 0 {
		return nil
	}

	value := subjectID + "|" + reason
	if err := s.redis.Set(ctx, s.tokenKey(rawToken), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether a live entry exists for the token.
func (s *Store) IsRevoked(ctx context.Context, rawToken string) (bool, error) {
	if rawToken == "" {
		return false, nil
	}

	exists, err := s.redis.Exists(ctx, s.tokenKey(rawToken)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return exists > 0, nil
}

// Lookup returns the stored entry for a token, if any.
func (s *Store) Lookup(ctx context.Context, rawToken string) (*Entry, error) {
	value, err := s.redis.Get(ctx, s.tokenKey(rawToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	subjectID, reason, _ := strings.Cut(value, "|")
	return &Entry{SubjectID: subjectID, Reason: reason}, nil
}

// MarkSubject records "tokens issued before at are void" for the subject.
// The TTL should cover the longest-lived token that could predate the mark;
// after that, nothing the mark guards against can still validate.
func (s *Store) MarkSubject(ctx context.Context, subjectID string, at time.Time, ttl time.Duration) error {
	if subjectID == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	value := strconv.FormatInt(at.Unix(), 10)
	if err := s.redis.Set(ctx, s.subjectKey(subjectID), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// SubjectMark returns the subject's invalidation instant, if one is set.
func (s *Store) SubjectMark(ctx context.Context, subjectID string) (time.Time, bool, error) {
	if subjectID == "" {
		return time.Time{}, false, nil
	}

	value, err := s.redis.Get(ctx, s.subjectKey(subjectID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: malformed subject mark", ErrUnavailable)
	}
	return time.Unix(unix, 0), true, nil
}
