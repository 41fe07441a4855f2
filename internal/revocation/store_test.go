package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, "ac"), mr
}

func TestRevoke_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatalf("unrevoked token reported revoked")
	}

	if err := s.Revoke(ctx, "token-a", "u1", ReasonLogout, time.Hour); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	revoked, err = s.IsRevoked(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if !revoked {
		t.Fatalf("revoked token not reported revoked")
	}

	entry, err := s.Lookup(ctx, "token-a")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry == nil || entry.SubjectID != "u1" || entry.Reason != ReasonLogout {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestRevoke_EntrySelfPrunes(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.Revoke(ctx, "token-b", "u1", ReasonRotation, time.Minute); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := s.IsRevoked(ctx, "token-b")
	if err != nil {
		t.Fatalf("IsRevoked failed: %v", err)
	}
	if revoked {
		t.Fatalf("entry must expire with the token's natural lifetime")
	}
}

func TestRevoke_ExpiredTokenStoresNothing(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.Revoke(ctx, "token-c", "u1", ReasonLogout, -time.Second); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	entry, err := s.Lookup(ctx, "token-c")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("already-expired token must not be filed")
	}
}

func TestStore_NeverHoldsRawToken(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	const raw = "raw-secret-token-material"
	if err := s.Revoke(ctx, raw, "u1", ReasonLogout, time.Hour); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	for _, key := range mr.Keys() {
		if key == "ac:rvk:"+HashToken(raw) {
			continue
		}
		t.Fatalf("unexpected key %q", key)
	}
	if mr.Exists("ac:rvk:" + raw) {
		t.Fatalf("store keyed by raw token")
	}
}

func TestSubjectMark(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.SubjectMark(ctx, "u1")
	if err != nil {
		t.Fatalf("SubjectMark failed: %v", err)
	}
	if ok {
		t.Fatalf("unset mark reported present")
	}

	at := time.Unix(1700000000, 0)
	if err := s.MarkSubject(ctx, "u1", at, time.Hour); err != nil {
		t.Fatalf("MarkSubject failed: %v", err)
	}

	mark, ok, err := s.SubjectMark(ctx, "u1")
	if err != nil {
		t.Fatalf("SubjectMark failed: %v", err)
	}
	if !ok || !mark.Equal(at) {
		t.Fatalf("mark = %v ok=%v, want %v", mark, ok, at)
	}
}

func TestSubjectMark_Expires(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	if err := s.MarkSubject(ctx, "u1", time.Now(), time.Minute); err != nil {
		t.Fatalf("MarkSubject failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, ok, err := s.SubjectMark(ctx, "u1")
	if err != nil {
		t.Fatalf("SubjectMark failed: %v", err)
	}
	if ok {
		t.Fatalf("mark must expire with its TTL")
	}
}
