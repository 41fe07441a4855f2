package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	defaultMemoryKB    uint32 = 64 * 1024
	defaultTimeCost    uint32 = 3
	defaultParallelism uint8  = 2
	defaultSaltLength  uint32 = 16
	defaultKeyLength   uint32 = 32

	minMemoryKB   uint32 = 8 * 1024
	minSaltLength uint32 = 16
	minKeyLength  uint32 = 16

	algorithmID = "argon2id"
)

// Config holds argon2id cost parameters. Zero fields take the package
// defaults, so Config{} is a valid production configuration.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Argon2 defines a public type used by authcore APIs.
//
// Argon2 instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Argon2 struct {
	config Config
}

type decodedHash struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// NewArgon2 describes the newargon2 operation and its observable behavior.
//
// NewArgon2 may return an error when input validation, dependency calls, or security checks fail.
// NewArgon2 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewArgon2(cfg Config) (*Argon2, error) {
	cfg = withDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return &Argon2{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash may return an error when input validation, dependency calls, or security checks fail.
// Hash does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) Hash(plainSecret string) (string, error) {
	// Raw string bytes exactly as provided, no Unicode normalization.
	if plainSecret == "" {
		return "", errors.New("password must not be empty")
	}

	salt := make([]byte, a.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(plainSecret),
		salt,
		a.config.Time,
		a.config.Memory,
		a.config.Parallelism,
		a.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		a.config.Memory,
		a.config.Time,
		a.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify describes the verify operation and its observable behavior.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (a *Argon2) Verify(plainSecret string, storedHash string) (bool, error) {
	decoded, err := decodePHC(storedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(plainSecret),
		decoded.salt,
		decoded.time,
		decoded.memory,
		decoded.parallelism,
		uint32(len(decoded.key)),
	)

	return subtle.ConstantTimeCompare(computed, decoded.key) == 1, nil
}

// NeedsUpgrade reports whether storedHash was produced with parameters weaker
// than the configured ones, so the caller can re-hash on the next successful
// verification.
func (a *Argon2) NeedsUpgrade(storedHash string) (bool, error) {
	decoded, err := decodePHC(storedHash)
	if err != nil {
		return false, err
	}

	switch {
	case a.config.Memory > decoded.memory:
		return true, nil
	case a.config.Time > decoded.time:
		return true, nil
	case a.config.Parallelism > decoded.parallelism:
		return true, nil
	case int(a.config.KeyLength) != len(decoded.key):
		return true, nil
	default:
		return false, nil
	}
}

func decodePHC(storedHash string) (*decodedHash, error) {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	versionValue, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing argon2 version")
	}
	version, err := strconv.Atoi(versionValue)
	if err != nil {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	memory, timeCost, parallelism, err := decodeParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, errors.New("invalid salt encoding")
	}
	if len(salt) < int(minSaltLength) {
		return nil, errors.New("invalid salt length")
	}

	key, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, errors.New("invalid hash encoding")
	}
	if len(key) < int(minKeyLength) {
		return nil, errors.New("invalid hash length")
	}

	return &decodedHash{
		memory:      memory,
		time:        timeCost,
		parallelism: parallelism,
		salt:        salt,
		key:         key,
	}, nil
}

func decodeParams(part string) (memory, timeCost uint32, parallelism uint8, err error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return 0, 0, 0, errors.New("invalid parameter format")
	}

	var haveMemory, haveTime, haveParallelism bool

	for _, pair := range pairs {
		name, value, found := strings.Cut(pair, "=")
		if !found {
			return 0, 0, 0, errors.New("invalid parameter entry")
		}

		switch name {
		case "m":
			v, parseErr := strconv.ParseUint(value, 10, 32)
			if parseErr != nil || v < uint64(minMemoryKB) {
				return 0, 0, 0, errors.New("invalid memory parameter")
			}
			memory = uint32(v)
			haveMemory = true
		case "t":
			v, parseErr := strconv.ParseUint(value, 10, 32)
			if parseErr != nil || v == 0 {
				return 0, 0, 0, errors.New("invalid time parameter")
			}
			timeCost = uint32(v)
			haveTime = true
		case "p":
			v, parseErr := strconv.ParseUint(value, 10, 8)
			if parseErr != nil || v == 0 {
				return 0, 0, 0, errors.New("invalid parallelism parameter")
			}
			parallelism = uint8(v)
			haveParallelism = true
		default:
			return 0, 0, 0, errors.New("unsupported parameter")
		}
	}

	if !haveMemory || !haveTime || !haveParallelism {
		return 0, 0, 0, errors.New("missing parameters")
	}

	return memory, timeCost, parallelism, nil
}

func withDefaults(cfg Config) Config {
	if cfg.Memory == 0 {
		cfg.Memory = defaultMemoryKB
	}
	if cfg.Time == 0 {
		cfg.Time = defaultTimeCost
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = defaultParallelism
	}
	if cfg.SaltLength == 0 {
		cfg.SaltLength = defaultSaltLength
	}
	if cfg.KeyLength == 0 {
		cfg.KeyLength = defaultKeyLength
	}
	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("password memory must be >= 8192 KB")
	}
	if cfg.Time == 0 {
		return errors.New("password time must be >= 1")
	}
	if cfg.Parallelism == 0 {
		return errors.New("password parallelism must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("password salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("password key length must be >= 16")
	}

	return nil
}
