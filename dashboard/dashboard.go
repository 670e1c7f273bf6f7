package dashboard

import (
	"context"

	"github.com/aionx/connect-dashboard/connections"
)

// ConnectionRepo is the repository surface the controllers depend on.
type ConnectionRepo interface {
	List(ctx context.Context, userID string) ([]connections.Connection, error)
	Create(ctx context.Context, draft connections.Draft) (connections.Connection, error)
	Update(ctx context.Context, id string, patch connections.Patch) (connections.Connection, error)
	Delete(ctx context.Context, id string) error
}

// Notifier receives the transient success/error notifications that every
// async action must produce. Implementations must be safe for concurrent use.
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string, string) {}
func (NopNotifier) Error(string, string)   {}
