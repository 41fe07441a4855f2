package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type staticUsers map[string]*UserRecord

func (s staticUsers) GetUserByIdentifier(_ context.Context, name string) (*UserRecord, error) {
	if u, ok := s[name]; ok {
		return u, nil
	}
	return nil, errors.New("no such user")
}

// plainVerifier compares plaintext directly so tests skip argon2 cost.
type plainVerifier struct{}

func (plainVerifier) Verify(plainSecret, storedHash string) (bool, error) {
	return plainSecret == storedHash, nil
}

type testHarness struct {
	engine *Engine
	sink   *ChannelSink
	mr     *miniredis.Miniredis
}

func newTestHarness(t *testing.T, mutate func(*Config)) *testHarness {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := defaultConfig()
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	cfg.Token.Issuer = "authcore-test"
	cfg.Audit.Enabled = true
	cfg.Metrics.Enabled = true
	if mutate != nil {
		mutate(&cfg)
	}

	sink := NewChannelSink(64)

	engine, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithUserProvider(staticUsers{
			"alice": {ID: "u-alice", Name: "alice", Role: "user", CredentialHash: "open sesame"},
			"bob":   {ID: "u-bob", Name: "bob", Role: "admin", CredentialHash: "hunter2hunter2"},
		}).
		WithPasswordVerifier(plainVerifier{}).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	// Progressive delays would dominate test runtime.
	engine.sleep = func(time.Duration) {}

	return &testHarness{engine: engine, sink: sink, mr: mr}
}

func clientContext(ip, userAgent string) context.Context {
	ctx := WithClientIP(context.Background(), ip)
	return WithUserAgent(ctx, userAgent)
}

func defaultClientContext() context.Context {
	return clientContext("203.0.113.7", "integration-test/1.0")
}

func (h *testHarness) waitEvent(t *testing.T, eventType string) AuditEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-h.sink.Events():
			if event.EventType == eventType {
				return event
			}
		case <-deadline:
			t.Fatalf("no %q audit event observed", eventType)
			return AuditEvent{}
		}
	}
}

func (h *testHarness) login(t *testing.T, ctx context.Context, username, secret string) *LoginResult {
	t.Helper()

	result, err := h.engine.Login(ctx, username, secret)
	if err != nil {
		t.Fatalf("Login(%s): %v", username, err)
	}
	return result
}
