package authcore

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoginIssuesBoundPair(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := defaultClientContext()

	result := h.login(t, ctx, "alice", "open sesame")

	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if result.AccessToken == result.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if time.Since(result.SessionCreatedAt) > time.Minute {
		t.Fatalf("stale session creation instant: %v", result.SessionCreatedAt)
	}

	event := h.waitEvent(t, "login_success")
	if event.UserID != "u-alice" || !event.Success {
		t.Fatalf("unexpected audit event: %+v", event)
	}
	if got := h.engine.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("login success counter = %d, want 1", got)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := defaultClientContext()

	_, wrongSecret := h.engine.Login(ctx, "alice", "not the password")
	_, unknownUser := h.engine.Login(ctx, "mallory", "whatever")

	if !errors.Is(wrongSecret, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongSecret)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", unknownUser)
	}
	if wrongSecret.Error() != unknownUser.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongSecret, unknownUser)
	}
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := defaultClientContext()

	for i := 0; i < h.engine.config.BruteForce.UsernameThreshold; i++ {
		if _, err := h.engine.Login(ctx, "alice", "bad guess"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: got %v", i+1, err)
		}
	}

	// Correct credentials no longer help, and the wire error stays generic.
	_, err := h.engine.Login(ctx, "alice", "open sesame")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("locked-out login: got %v", err)
	}

	event := h.waitEvent(t, "login_locked_out")
	if event.Metadata["lock_type"] != "username" {
		t.Fatalf("lock_type = %q, want username", event.Metadata["lock_type"])
	}
	if event.Error != "locked_out" {
		t.Fatalf("audit error code = %q, want locked_out", event.Error)
	}
	if got := h.engine.MetricsSnapshot().Counters[MetricLoginLockedOut]; got == 0 {
		t.Fatal("locked-out counter not incremented")
	}
}

func TestLoginLockoutToleranceUnderConcurrentLoad(t *testing.T) {
	h := newTestHarness(t, nil)

	threshold := h.engine.config.BruteForce.UsernameThreshold
	const workers = 4

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx := defaultClientContext()
			for i := 0; i < threshold; i++ {
				_, _ = h.engine.Login(ctx, "alice", "bad guess")
			}
		}()
	}
	wg.Wait()

	// The lock is in place: correct credentials no longer help.
	_, err := h.engine.Login(defaultClientContext(), "alice", "open sesame")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("login after concurrent failures: got %v", err)
	}

	// The lockout check and the failure record are separate store round
	// trips, so each concurrent caller can slip at most one attempt past the
	// threshold before the lock lands.
	failures := h.engine.MetricsSnapshot().Counters[MetricLoginFailure]
	if failures < uint64(threshold) {
		t.Fatalf("recorded failures = %d, want at least %d", failures, threshold)
	}
	if max := uint64(threshold + workers - 1); failures > max {
		t.Fatalf("recorded failures = %d, want at most %d", failures, max)
	}
}

func TestLoginSuccessResetsFailureCount(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := defaultClientContext()

	threshold := h.engine.config.BruteForce.UsernameThreshold
	for i := 0; i < threshold-1; i++ {
		_, _ = h.engine.Login(ctx, "alice", "bad guess")
	}

	h.login(t, ctx, "alice", "open sesame")

	// The slate is clean: the same number of fresh failures does not lock.
	for i := 0; i < threshold-1; i++ {
		_, _ = h.engine.Login(ctx, "alice", "bad guess")
	}
	h.login(t, ctx, "alice", "open sesame")
}

func TestLoginProgressiveDelaySchedule(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := defaultClientContext()

	var delays []time.Duration
	h.engine.sleep = func(d time.Duration) { delays = append(delays, d) }

	for i := 0; i < 4; i++ {
		_, _ = h.engine.Login(ctx, "alice", "bad guess")
	}

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("recorded %d delays, want %d", len(delays), len(want))
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay %d = %v, want %v", i+1, delays[i], want[i])
		}
	}
}

func TestLoginAddressLockoutSpansUsernames(t *testing.T) {
	h := newTestHarness(t, nil)
	ctx := defaultClientContext()

	// Distinct usernames from one address, each below the per-username
	// threshold, still trip the per-address threshold.
	usernames := []string{"alice", "bob", "mallory"}
	for i := 0; i < h.engine.config.BruteForce.AddressThreshold; i++ {
		_, _ = h.engine.Login(ctx, usernames[i%len(usernames)], "bad guess")
	}

	_, err := h.engine.Login(ctx, "carol", "irrelevant")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v", err)
	}

	event := h.waitEvent(t, "login_locked_out")
	if event.Metadata["lock_type"] != "address" {
		t.Fatalf("lock_type = %q, want address", event.Metadata["lock_type"])
	}

	// A different address is unaffected.
	other := clientContext("198.51.100.9", "integration-test/1.0")
	h.login(t, other, "alice", "open sesame")
}
