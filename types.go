package authcore

import (
	"context"
	"time"
)

// UserRecord is the minimal user representation the engine consumes from its
// integrator. The engine never writes user records.
type UserRecord struct {
	ID             string
	Name           string
	Role           string
	CredentialHash string
}

// UserProvider is the user-record lookup collaborator. The identifier is
// always the login name the user presented: at login it is the submitted
// username, and at refresh rotation it is the name carried in the token's
// claims, so implementations only ever resolve by name. Lookup failures are
// returned as a plain error; the engine collapses them into a generic
// rejection before they reach the client.
type UserProvider interface {
	GetUserByIdentifier(ctx context.Context, name string) (*UserRecord, error)
}

// PasswordVerifier is the credential-verification collaborator. The default
// implementation is [password.Argon2].
type PasswordVerifier interface {
	Verify(plainSecret, storedHash string) (bool, error)
}

// LoginResult is returned by [Engine.Login] and [Engine.Refresh].
type LoginResult struct {
	AccessToken      string
	RefreshToken     string
	SessionCreatedAt time.Time
}

// AuthResult is returned by [Engine.ValidateAccess]. It contains the
// authenticated subject's identity and session metadata.
type AuthResult struct {
	UserID           string
	Role             string
	Fingerprint      string
	SessionCreatedAt time.Time
}
