package token

import (
	"strings"
	"testing"
	"time"
)

// FuzzParse exercises token parsing with arbitrary strings.
// Goal: no panics; invalid inputs should return errors cleanly.
func FuzzParse(f *testing.F) {
	m, err := NewManager(Config{
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Issuer:        "fuzz",
	})
	if err != nil {
		f.Fatalf("NewManager: %v", err)
	}

	f.Add("")
	f.Add("a.b.c")
	f.Add("!!!not-base64!!!")
	f.Add(strings.Repeat("A", 512))

	// One genuine token as seed.
	if pair, err := m.IssuePair("u1", "alice", "user", "fp", time.Now()); err == nil {
		f.Add(pair.AccessToken)
		f.Add(pair.RefreshToken)
	}

	f.Fuzz(func(t *testing.T, input string) {
		// Must not panic. Errors are fine for invalid inputs.
		claims, err := m.Parse(input, KindAccess)
		if err != nil {
			return
		}

		// A successful parse implies the kind check passed and the subject
		// claims are populated.
		if claims.TokenKind != KindAccess {
			t.Fatalf("parsed token with kind %q", claims.TokenKind)
		}
		if claims.UID == "" {
			t.Fatal("parsed token without uid")
		}
	})
}
