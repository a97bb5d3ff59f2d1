// Package identity defines the contract against the external identity
// provider. The core treats "no user" as "no accessible collection".
package identity

import (
	"context"
	"os"
	"strings"
)

// State is the authentication lifecycle state.
type State string

const (
	StateLoading   State = "loading"
	StateSignedOut State = "signed_out"
	StateSignedIn  State = "signed_in"
)

// Session carries the resolved identity. UserID is stable and only set when
// State is StateSignedIn.
type Session struct {
	UserID string
	State  State
}

// Provider supplies the authenticated user identity.
type Provider interface {
	Session(ctx context.Context) (Session, error)
}

// EnvProvider resolves the session from an environment variable. It never
// reports StateLoading; the variable is either set or not.
type EnvProvider struct {
	// Var is the environment variable holding the user id.
	Var string
}

// Session implements Provider.
func (p EnvProvider) Session(ctx context.Context) (Session, error) {
	userID := strings.TrimSpace(os.Getenv(p.Var))
	if userID == "" {
		return Session{State: StateSignedOut}, nil
	}
	return Session{UserID: userID, State: StateSignedIn}, nil
}

// Static is a fixed-session provider, useful in tests.
type Static struct {
	Value Session
}

// Session implements Provider.
func (p Static) Session(ctx context.Context) (Session, error) {
	return p.Value, nil
}
