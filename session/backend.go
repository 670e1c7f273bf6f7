package session

import "context"

// AuthBackend is the auth half of the backend-as-a-service boundary.
type AuthBackend interface {
	// SignUp registers a new account and returns its identity.
	SignUp(ctx context.Context, email, password string) (*Identity, error)

	// SignIn exchanges credentials for an authenticated identity.
	SignIn(ctx context.Context, email, password string) (*Identity, error)

	// SignOut ends the backend session.
	SignOut(ctx context.Context) error

	// CurrentIdentity returns the identity of an already-established session,
	// or nil when none exists.
	CurrentIdentity(ctx context.Context) (*Identity, error)

	// OnAuthStateChange registers a handler invoked on every session
	// transition (sign-in, sign-out, expiry). Returns an unsubscribe function.
	OnAuthStateChange(handler func(*Identity)) (unsubscribe func())
}
