package backend

import (
	"context"

	"github.com/aionx/connect-dashboard/connections"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/session"
)

var _ Client = (*Unconfigured)(nil)

// Unconfigured is the stub selected when no backend settings are present.
// Every call returns a typed not-configured error instead of crashing.
type Unconfigured struct {
	session.StateNotifier
}

func NewUnconfigured() *Unconfigured {
	return &Unconfigured{}
}

func (u *Unconfigured) SignUp(context.Context, string, string) (*session.Identity, error) {
	return nil, interrors.ErrNotConfigured
}

func (u *Unconfigured) SignIn(context.Context, string, string) (*session.Identity, error) {
	return nil, interrors.ErrNotConfigured
}

func (u *Unconfigured) SignOut(context.Context) error {
	return interrors.ErrNotConfigured
}

func (u *Unconfigured) CurrentIdentity(context.Context) (*session.Identity, error) {
	return nil, interrors.ErrNotConfigured
}

func (u *Unconfigured) SelectByUser(context.Context, string) ([]connections.Connection, error) {
	return nil, interrors.ErrNotConfigured
}

func (u *Unconfigured) Insert(context.Context, connections.Connection) (connections.Connection, error) {
	return connections.Connection{}, interrors.ErrNotConfigured
}

func (u *Unconfigured) Update(context.Context, string, connections.Patch) (connections.Connection, error) {
	return connections.Connection{}, interrors.ErrNotConfigured
}

func (u *Unconfigured) Delete(context.Context, string) error {
	return interrors.ErrNotConfigured
}
