package dashboard_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionx/connect-dashboard/connections"
	"github.com/aionx/connect-dashboard/connections/tablefake"
	"github.com/aionx/connect-dashboard/dashboard"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, title)
}

func (n *recordingNotifier) Error(title, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, title)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func (n *recordingNotifier) successCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes)
}

type listFixture struct {
	repo     *connections.Repository
	table    *tablefake.FakeTable
	notifier *recordingNotifier
	list     *dashboard.ListController
}

func newListFixture(t *testing.T) *listFixture {
	t.Helper()

	table := tablefake.NewFakeTable()
	repo, err := connections.NewRepository(table)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	list, err := dashboard.NewListController(repo, notifier)
	require.NoError(t, err)

	return &listFixture{repo: repo, table: table, notifier: notifier, list: list}
}

func (f *listFixture) seed(t *testing.T, userID, name string) connections.Connection {
	t.Helper()
	created, err := f.repo.Create(context.Background(), connections.Draft{
		UserID:    userID,
		Name:      name,
		ServerID:  "srv-1",
		ChannelID: "chan-1",
	})
	require.NoError(t, err)
	return created
}

func TestNewListControllerRequiresRepo(t *testing.T) {
	_, err := dashboard.NewListController(nil, nil)
	require.Error(t, err)
}

func TestListStartsIdle(t *testing.T) {
	f := newListFixture(t)
	assert.Equal(t, dashboard.ListIdle, f.list.Snapshot().State)
}

func TestRefreshLoadsConnections(t *testing.T) {
	f := newListFixture(t)
	created := f.seed(t, "user-1", "Main Bot")

	f.list.Refresh(context.Background(), "user-1")

	snap := f.list.Snapshot()
	assert.Equal(t, dashboard.ListLoaded, snap.State)
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, created.ID, snap.Connections[0].ID)
}

func TestRefreshFailureSetsFailedState(t *testing.T) {
	f := newListFixture(t)
	f.table.SelectErr = interrors.ErrBackend

	f.list.Refresh(context.Background(), "user-1")

	snap := f.list.Snapshot()
	assert.Equal(t, dashboard.ListFailed, snap.State)
	assert.NotEmpty(t, snap.ErrorMsg)
	assert.Equal(t, 1, f.notifier.errorCount())
}

func TestRefreshRecoversAfterFailure(t *testing.T) {
	f := newListFixture(t)
	f.seed(t, "user-1", "Main Bot")

	f.table.SelectErr = interrors.ErrBackend
	f.list.Refresh(context.Background(), "user-1")
	require.Equal(t, dashboard.ListFailed, f.list.Snapshot().State)

	f.table.SelectErr = nil
	f.list.Refresh(context.Background(), "user-1")

	snap := f.list.Snapshot()
	assert.Equal(t, dashboard.ListLoaded, snap.State)
	assert.Empty(t, snap.ErrorMsg)
	assert.Len(t, snap.Connections, 1)
}

// scriptedListRepo serves List calls from a queue and blocks each one until
// its release channel fires, so tests can overlap refreshes deterministically.
type scriptedListRepo struct {
	mu      sync.Mutex
	queue   []scriptedList
	started chan struct{}
}

type scriptedList struct {
	rows    []connections.Connection
	release chan struct{}
}

func (r *scriptedListRepo) List(context.Context, string) ([]connections.Connection, error) {
	r.mu.Lock()
	call := r.queue[0]
	r.queue = r.queue[1:]
	r.mu.Unlock()

	r.started <- struct{}{}
	<-call.release
	return call.rows, nil
}

func (r *scriptedListRepo) Create(context.Context, connections.Draft) (connections.Connection, error) {
	return connections.Connection{}, interrors.ErrInternal
}

func (r *scriptedListRepo) Update(context.Context, string, connections.Patch) (connections.Connection, error) {
	return connections.Connection{}, interrors.ErrInternal
}

func (r *scriptedListRepo) Delete(context.Context, string) error {
	return interrors.ErrInternal
}

func TestStaleRefreshResultIsDiscarded(t *testing.T) {
	slow := scriptedList{rows: []connections.Connection{{ID: "stale"}}, release: make(chan struct{})}
	fast := scriptedList{rows: []connections.Connection{{ID: "fresh"}}, release: make(chan struct{})}
	repo := &scriptedListRepo{queue: []scriptedList{slow, fast}, started: make(chan struct{}, 2)}

	list, err := dashboard.NewListController(repo, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		list.Refresh(context.Background(), "user-1")
	}()
	<-repo.started // first refresh is in flight

	close(fast.release)
	list.Refresh(context.Background(), "user-1")
	<-repo.started

	close(slow.release) // the older response arrives last
	wg.Wait()

	snap := list.Snapshot()
	assert.Equal(t, dashboard.ListLoaded, snap.State)
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, "fresh", snap.Connections[0].ID)
}

func TestRefreshResultAfterCloseIsDropped(t *testing.T) {
	call := scriptedList{rows: []connections.Connection{{ID: "late"}}, release: make(chan struct{})}
	repo := &scriptedListRepo{queue: []scriptedList{call}, started: make(chan struct{}, 1)}

	list, err := dashboard.NewListController(repo, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		list.Refresh(context.Background(), "user-1")
	}()
	<-repo.started

	list.Close()
	close(call.release)
	wg.Wait()

	assert.Empty(t, list.Snapshot().Connections)
}

func TestToggleActiveFlips(t *testing.T) {
	f := newListFixture(t)
	created := f.seed(t, "user-1", "Main Bot")
	f.list.Refresh(context.Background(), "user-1")

	f.list.ToggleActive(context.Background(), created)

	snap := f.list.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.True(t, snap.Connections[0].Active)
	assert.Equal(t, 1, f.notifier.successCount())

	f.list.ToggleActive(context.Background(), snap.Connections[0])
	assert.False(t, f.list.Snapshot().Connections[0].Active)
}

func TestToggleFailureKeepsPriorValue(t *testing.T) {
	f := newListFixture(t)
	created := f.seed(t, "user-1", "Main Bot")
	f.list.Refresh(context.Background(), "user-1")

	f.table.UpdateErr = interrors.ErrBackend
	f.list.ToggleActive(context.Background(), created)

	snap := f.list.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.False(t, snap.Connections[0].Active)
	assert.Equal(t, 1, f.notifier.errorCount())
}

func TestTogglesOnDifferentItemsAreIndependent(t *testing.T) {
	f := newListFixture(t)
	first := f.seed(t, "user-1", "First")
	second := f.seed(t, "user-1", "Second")
	f.list.Refresh(context.Background(), "user-1")

	// Remove the second row behind the controller's back so its toggle fails.
	require.NoError(t, f.table.Delete(context.Background(), second.ID))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		f.list.ToggleActive(context.Background(), first)
	}()
	go func() {
		defer wg.Done()
		f.list.ToggleActive(context.Background(), second)
	}()
	wg.Wait()

	snap := f.list.Snapshot()
	for _, conn := range snap.Connections {
		if conn.ID == first.ID {
			assert.True(t, conn.Active, "the failed toggle must not affect other items")
		}
	}
	assert.Equal(t, 1, f.notifier.errorCount())
	assert.Equal(t, 1, f.notifier.successCount())
}

func TestToggleGatedWhileItemBusy(t *testing.T) {
	f := newListFixture(t)
	created := f.seed(t, "user-1", "Main Bot")
	f.list.Refresh(context.Background(), "user-1")

	// Re-enter while the first toggle is mid-flight; the duplicate is dropped.
	reentered := false
	f.table.BeforeUpdate = func(id string) {
		if !reentered {
			reentered = true
			f.list.ToggleActive(context.Background(), created)
		}
	}

	f.list.ToggleActive(context.Background(), created)

	snap := f.list.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.True(t, snap.Connections[0].Active, "only one toggle may run per item")
	assert.Equal(t, 1, f.notifier.successCount())
}

func TestRemoveDeletesItem(t *testing.T) {
	f := newListFixture(t)
	first := f.seed(t, "user-1", "First")
	second := f.seed(t, "user-1", "Second")
	f.list.Refresh(context.Background(), "user-1")

	f.list.Remove(context.Background(), first.ID)

	snap := f.list.Snapshot()
	require.Len(t, snap.Connections, 1)
	assert.Equal(t, second.ID, snap.Connections[0].ID)
	assert.Equal(t, 1, f.notifier.successCount())

	rows, err := f.repo.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRemoveFailureKeepsItem(t *testing.T) {
	f := newListFixture(t)
	created := f.seed(t, "user-1", "Main Bot")
	f.list.Refresh(context.Background(), "user-1")

	f.table.DeleteErr = interrors.ErrBackend
	f.list.Remove(context.Background(), created.ID)

	snap := f.list.Snapshot()
	assert.Len(t, snap.Connections, 1)
	assert.Equal(t, 1, f.notifier.errorCount())
}

func TestClosedControllerIgnoresActions(t *testing.T) {
	f := newListFixture(t)
	created := f.seed(t, "user-1", "Main Bot")
	f.list.Refresh(context.Background(), "user-1")

	f.list.Close()
	f.list.ToggleActive(context.Background(), created)
	f.list.Remove(context.Background(), created.ID)
	f.list.Refresh(context.Background(), "user-1")

	assert.Zero(t, f.notifier.successCount())
	assert.Zero(t, f.notifier.errorCount())

	rows, err := f.repo.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "closed controllers must not mutate the backend")
}
