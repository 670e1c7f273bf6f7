package backendfake

import (
	"context"
	"sync"

	"github.com/google/uuid"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/session"
)

var _ session.AuthBackend = (*FakeAuthBackend)(nil)

// FakeAuthBackend is an in-memory auth backend for tests.
type FakeAuthBackend struct {
	lock        sync.Mutex
	accounts    map[string]fakeAccount // email -> account
	current     *session.Identity
	handlers    map[int]func(*session.Identity)
	nextHandler int

	// SignInErr, when set, is returned by SignIn instead of checking
	// credentials. Used to simulate network failures.
	SignInErr error
}

type fakeAccount struct {
	identity session.Identity
	password string
}

func NewFakeAuthBackend() *FakeAuthBackend {
	return &FakeAuthBackend{
		accounts: make(map[string]fakeAccount),
		handlers: make(map[int]func(*session.Identity)),
	}
}

func (b *FakeAuthBackend) SignUp(_ context.Context, email, password string) (*session.Identity, error) {
	b.lock.Lock()

	if _, ok := b.accounts[email]; ok {
		b.lock.Unlock()
		return nil, interrors.ErrEmailTaken
	}

	account := fakeAccount{
		identity: session.Identity{ID: uuid.New().String(), Email: email},
		password: password,
	}
	b.accounts[email] = account
	identity := account.identity
	b.current = &identity
	b.lock.Unlock()

	b.emit(&identity)
	return &identity, nil
}

func (b *FakeAuthBackend) SignIn(_ context.Context, email, password string) (*session.Identity, error) {
	b.lock.Lock()

	if b.SignInErr != nil {
		err := b.SignInErr
		b.lock.Unlock()
		return nil, err
	}

	account, ok := b.accounts[email]
	if !ok || account.password != password {
		b.lock.Unlock()
		return nil, interrors.ErrInvalidCredentials
	}

	identity := account.identity
	b.current = &identity
	b.lock.Unlock()

	b.emit(&identity)
	return &identity, nil
}

func (b *FakeAuthBackend) SignOut(_ context.Context) error {
	b.lock.Lock()
	b.current = nil
	b.lock.Unlock()

	b.emit(nil)
	return nil
}

func (b *FakeAuthBackend) CurrentIdentity(_ context.Context) (*session.Identity, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.current, nil
}

func (b *FakeAuthBackend) OnAuthStateChange(handler func(*session.Identity)) (unsubscribe func()) {
	b.lock.Lock()
	id := b.nextHandler
	b.nextHandler++
	b.handlers[id] = handler
	b.lock.Unlock()

	return func() {
		b.lock.Lock()
		delete(b.handlers, id)
		b.lock.Unlock()
	}
}

// ExpireSession simulates the backend reporting an expired session.
func (b *FakeAuthBackend) ExpireSession() {
	b.lock.Lock()
	b.current = nil
	b.lock.Unlock()

	b.emit(nil)
}

func (b *FakeAuthBackend) emit(identity *session.Identity) {
	b.lock.Lock()
	handlers := make([]func(*session.Identity), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.lock.Unlock()

	for _, h := range handlers {
		h(identity)
	}
}
