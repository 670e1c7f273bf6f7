package dashboard

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/aionx/connect-dashboard/connections"
	"github.com/aionx/connect-dashboard/internal/utils"
)

// ListState is the lifecycle of one list instance.
type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListLoaded
	ListFailed
)

func (s ListState) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListFailed:
		return "failed"
	}
	return "unknown"
}

// ListSnapshot is a point-in-time copy of the controller state for rendering.
type ListSnapshot struct {
	State       ListState
	Connections []connections.Connection
	ErrorMsg    string
	Processing  map[string]bool
}

// ListController coordinates the connections list: it fetches rows, applies
// per-item mutations keyed by id, and reconciles with backend responses.
// Overlapping refreshes resolve by request sequence, not arrival order, so a
// stale slow response can never overwrite a fresher fast one. After Close no
// result is applied.
type ListController struct {
	repo     ConnectionRepo
	notifier Notifier

	mu         sync.Mutex
	state      ListState
	conns      []connections.Connection
	errorMsg   string
	processing map[string]struct{}
	refreshSeq uint64
	closed     bool
}

// NewListController initializes an idle list controller.
func NewListController(repo ConnectionRepo, notifier Notifier) (*ListController, error) {
	if repo == nil {
		return nil, errors.New("[NewListController] repo is required")
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ListController{
		repo:       repo,
		notifier:   notifier,
		state:      ListIdle,
		processing: make(map[string]struct{}),
	}, nil
}

// Snapshot returns a copy of the current state.
func (lc *ListController) Snapshot() ListSnapshot {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	snap := ListSnapshot{
		State:       lc.state,
		Connections: make([]connections.Connection, len(lc.conns)),
		ErrorMsg:    lc.errorMsg,
		Processing:  make(map[string]bool, len(lc.processing)),
	}
	copy(snap.Connections, lc.conns)
	for id := range lc.processing {
		snap.Processing[id] = true
	}
	return snap
}

// Refresh reloads the list for userID. Each call is tagged with a
// monotonically increasing sequence; only the latest issued request may
// commit its result.
func (lc *ListController) Refresh(ctx context.Context, userID string) {
	lc.mu.Lock()
	if lc.closed {
		lc.mu.Unlock()
		return
	}
	lc.refreshSeq++
	seq := lc.refreshSeq
	lc.state = ListLoading
	lc.mu.Unlock()

	rows, err := lc.repo.List(ctx, userID)

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.closed || seq != lc.refreshSeq {
		// A newer refresh was issued (or the view went away) while this one
		// was in flight; its result is discarded.
		return
	}

	if err != nil {
		lc.state = ListFailed
		lc.errorMsg = userMessage(err, "Could not load your connections.")
		lc.notifier.Error("Failed to load connections", lc.errorMsg)
		return
	}

	lc.state = ListLoaded
	lc.errorMsg = ""
	lc.conns = rows
}

// ToggleActive flips a connection's active flag. Only the targeted item is
// touched; concurrent toggles on other items proceed independently. On
// failure the prior value is kept.
func (lc *ListController) ToggleActive(ctx context.Context, conn connections.Connection) {
	if !lc.beginProcessing(conn.ID) {
		return
	}
	defer lc.endProcessing(conn.ID)

	updated, err := lc.repo.Update(ctx, conn.ID, connections.Patch{Active: utils.Ptr(!conn.Active)})
	if err != nil {
		lc.notifier.Error("Failed to update connection", userMessage(err, "Could not update the connection state."))
		return
	}

	lc.mu.Lock()
	if !lc.closed {
		lc.applyActive(conn.ID, updated.Active)
	}
	lc.mu.Unlock()

	if updated.Active {
		lc.notifier.Success("Connection activated", "Connection \""+conn.Name+"\" is now active.")
	} else {
		lc.notifier.Success("Connection deactivated", "Connection \""+conn.Name+"\" is now inactive.")
	}
}

// Remove permanently deletes a connection. Callers must have obtained an
// explicit user confirmation before invoking it.
func (lc *ListController) Remove(ctx context.Context, id string) {
	if !lc.beginProcessing(id) {
		return
	}
	defer lc.endProcessing(id)

	if err := lc.repo.Delete(ctx, id); err != nil {
		lc.notifier.Error("Failed to remove connection", userMessage(err, "Could not remove the connection."))
		return
	}

	lc.mu.Lock()
	if !lc.closed {
		lc.removeByID(id)
	}
	lc.mu.Unlock()

	lc.notifier.Success("Connection removed", "The connection was removed.")
}

// Close marks the controller unmounted. In-flight results arriving afterwards
// are dropped rather than applied.
func (lc *ListController) Close() {
	lc.mu.Lock()
	lc.closed = true
	lc.mu.Unlock()
}

// beginProcessing marks an item busy. Returns false when the item already has
// an operation in flight, gating duplicate concurrent actions per item.
func (lc *ListController) beginProcessing(id string) bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if lc.closed {
		return false
	}
	if _, busy := lc.processing[id]; busy {
		return false
	}
	lc.processing[id] = struct{}{}
	return true
}

func (lc *ListController) endProcessing(id string) {
	lc.mu.Lock()
	delete(lc.processing, id)
	lc.mu.Unlock()
}

// applyActive updates the matching item by id. Responses may arrive out of
// submission order, so matching by position would corrupt unrelated rows.
func (lc *ListController) applyActive(id string, active bool) {
	for i := range lc.conns {
		if lc.conns[i].ID == id {
			lc.conns[i].Active = active
			return
		}
	}
}

func (lc *ListController) removeByID(id string) {
	for i := range lc.conns {
		if lc.conns[i].ID == id {
			lc.conns = append(lc.conns[:i], lc.conns[i+1:]...)
			return
		}
	}
}
