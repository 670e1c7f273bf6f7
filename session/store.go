package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

// Store is the single source of truth for "who is signed in". It caches the
// last identity reported by the backend and fans every transition out to its
// subscribers. All methods are safe for concurrent use; handlers are invoked
// outside the store lock and must not assume any ordering between subscribers.
type Store struct {
	backend AuthBackend
	log     zerolog.Logger

	mu          sync.RWMutex
	identity    *Identity
	loading     bool
	handlers    map[int]func(Session)
	nextHandler int
	stopBackend func()
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the logger used for session transitions.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// NewStore creates a Store in the pending state (loading, no identity).
func NewStore(backend AuthBackend, options ...StoreOption) (*Store, error) {
	if backend == nil {
		return nil, errors.New("[NewStore] backend is required")
	}

	store := &Store{
		backend:  backend,
		log:      zerolog.Nop(),
		loading:  true,
		handlers: make(map[int]func(Session)),
	}

	for _, opt := range options {
		opt(store)
	}

	return store, nil
}

// Start resolves the initial session and hooks backend auth-state changes.
// A backend failure here (including not-configured) resolves to signed out
// rather than failing startup.
func (s *Store) Start(ctx context.Context) {
	identity, err := s.backend.CurrentIdentity(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("initial session lookup failed, treating as signed out")
		identity = nil
	}

	s.mu.Lock()
	s.identity = identity
	s.loading = false
	if s.stopBackend == nil {
		s.stopBackend = s.backend.OnAuthStateChange(s.applyBackendState)
	}
	s.mu.Unlock()

	s.notify()
}

// Stop unhooks the backend auth-state listener.
func (s *Store) Stop() {
	s.mu.Lock()
	stop := s.stopBackend
	s.stopBackend = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Current returns a synchronous read of the cached session state.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{Identity: s.identity, Loading: s.loading}
}

// Subscribe registers a handler invoked on every session transition and
// returns its unsubscribe function. Callers must unsubscribe on teardown.
func (s *Store) Subscribe(handler func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextHandler
	s.nextHandler++
	s.handlers[id] = handler
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
}

// SignIn delegates to the backend. On success the cached identity is updated
// and observers are notified; on failure the state is left untouched.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	identity, err := s.backend.SignIn(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "[Store.SignIn] backend.SignIn")
	}

	s.setIdentity(identity)
	s.log.Info().Str("user_id", identity.ID).Msg("signed in")
	return nil
}

// SignUp registers a new account. When the backend establishes a session for
// the new account the cached identity is updated as for SignIn.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	identity, err := s.backend.SignUp(ctx, email, password)
	if err != nil {
		return errors.Wrap(err, "[Store.SignUp] backend.SignUp")
	}

	if identity != nil {
		s.setIdentity(identity)
		s.log.Info().Str("user_id", identity.ID).Msg("signed up")
	}
	return nil
}

// SignOut clears the cached identity and notifies observers. The identity is
// cleared even when the backend call fails, so a broken backend can never pin
// a user into a signed-in shell.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.backend.SignOut(ctx)

	s.setIdentity(nil)
	s.log.Info().Msg("signed out")

	if err != nil {
		return errors.Wrap(err, "[Store.SignOut] backend.SignOut")
	}
	return nil
}

// HandleAuthError treats a session-expiry error as an explicit sign-out:
// identity cleared, observers notified. Other errors leave state untouched.
func (s *Store) HandleAuthError(err error) {
	if !interrors.Is(err, interrors.ErrSessionExpired) {
		return
	}
	s.log.Warn().Msg("session expired, clearing identity")
	s.setIdentity(nil)
}

func (s *Store) applyBackendState(identity *Identity) {
	s.setIdentity(identity)
}

func (s *Store) setIdentity(identity *Identity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.RLock()
	current := Session{Identity: s.identity, Loading: s.loading}
	handlers := make([]func(Session), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mu.RUnlock()

	for _, h := range handlers {
		h(current)
	}
}
