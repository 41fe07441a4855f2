package authcore

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero access ttl",
			mutate:  func(c *Config) { c.Token.AccessTTL = 0 },
			wantErr: "AccessTTL",
		},
		{
			name:    "refresh shorter than access",
			mutate:  func(c *Config) { c.Token.RefreshTTL = c.Token.AccessTTL - time.Minute },
			wantErr: "RefreshTTL",
		},
		{
			name:    "zero absolute lifetime",
			mutate:  func(c *Config) { c.Session.AbsoluteLifetime = 0 },
			wantErr: "AbsoluteLifetime",
		},
		{
			name: "ceiling below access ttl",
			mutate: func(c *Config) {
				c.Token.AccessTTL = 2 * time.Hour
				c.Token.RefreshTTL = 3 * time.Hour
				c.Session.AbsoluteLifetime = time.Hour
			},
			wantErr: "AbsoluteLifetime",
		},
		{
			name:    "zero username threshold",
			mutate:  func(c *Config) { c.BruteForce.UsernameThreshold = 0 },
			wantErr: "thresholds",
		},
		{
			name: "username threshold above address threshold",
			mutate: func(c *Config) {
				c.BruteForce.UsernameThreshold = 20
				c.BruteForce.AddressThreshold = 10
			},
			wantErr: "UsernameThreshold",
		},
		{
			name:    "zero tracking window",
			mutate:  func(c *Config) { c.BruteForce.TrackingWindow = 0 },
			wantErr: "TrackingWindow",
		},
		{
			name:    "lockout shorter than tracking window",
			mutate:  func(c *Config) { c.BruteForce.UsernameLockout = time.Minute },
			wantErr: "lockout",
		},
		{
			name:    "zero store timeout",
			mutate:  func(c *Config) { c.Store.Timeout = 0 },
			wantErr: "Store.Timeout",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestCloneConfigDetachesSlices(t *testing.T) {
	cfg := defaultConfig()
	cfg.Token.PrivateKey = []byte("0123456789abcdef0123456789abcdef")

	clone := cloneConfig(cfg)
	cfg.Token.PrivateKey[0] = 'Z'
	cfg.RateLimit.Whitelist[0] = "/changed"

	if clone.Token.PrivateKey[0] == 'Z' {
		t.Fatal("private key shares backing array")
	}
	if clone.RateLimit.Whitelist[0] == "/changed" {
		t.Fatal("whitelist shares backing array")
	}
}
