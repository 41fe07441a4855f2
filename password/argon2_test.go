package password

import (
	"strings"
	"testing"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	hasher, err := NewArgon2(Config{})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}

	hash, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash prefix: %s", hash)
	}

	ok, err := hasher.Verify("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatal("expected matching password to verify")
	}

	ok, err = hasher.Verify("wrong password entirely", hash)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	hasher, err := NewArgon2(Config{})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}

	if _, err := hasher.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher, err := NewArgon2(Config{})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}

	first, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	second, err := hasher.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyRejectsMalformedHashes(t *testing.T) {
	hasher, err := NewArgon2(Config{})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}

	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainly-not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{"missing version", "$argon2id$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA$x"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=2$!!!$aGFzaGhhc2hoYXNoaGFzaA"},
		{"memory below floor", "$argon2id$v=19$m=1024,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := hasher.Verify("whatever", tc.hash); err == nil {
				t.Fatalf("expected error for %q", tc.hash)
			}
		})
	}
}

func TestNeedsUpgrade(t *testing.T) {
	weak, err := NewArgon2(Config{Memory: 8 * 1024, Time: 1, Parallelism: 1})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}
	strong, err := NewArgon2(Config{})
	if err != nil {
		t.Fatalf("NewArgon2: %v", err)
	}

	hash, err := weak.Hash("a sufficiently long password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	upgrade, err := strong.NeedsUpgrade(hash)
	if err != nil {
		t.Fatalf("NeedsUpgrade: %v", err)
	}
	if !upgrade {
		t.Fatal("hash with weaker parameters should need upgrade")
	}

	current, err := strong.Hash("a sufficiently long password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	upgrade, err = strong.NeedsUpgrade(current)
	if err != nil {
		t.Fatalf("NeedsUpgrade: %v", err)
	}
	if upgrade {
		t.Fatal("hash with current parameters should not need upgrade")
	}
}
