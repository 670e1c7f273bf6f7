package tablefake

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aionx/connect-dashboard/connections"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

var _ connections.Table = (*FakeTable)(nil)

// FakeTable is an in-memory connections table for tests.
type FakeTable struct {
	rows map[string]*connections.Connection
	lock sync.RWMutex

	// Error injection, checked before the corresponding operation runs.
	SelectErr error
	InsertErr error
	UpdateErr error
	DeleteErr error

	// BeforeUpdate, when set, is called outside the lock before an update is
	// applied. Tests use it to interleave concurrent mutations.
	BeforeUpdate func(id string)
}

func NewFakeTable() *FakeTable {
	return &FakeTable{
		rows: make(map[string]*connections.Connection),
	}
}

func (ft *FakeTable) SelectByUser(_ context.Context, userID string) ([]connections.Connection, error) {
	if ft.SelectErr != nil {
		return nil, ft.SelectErr
	}

	ft.lock.RLock()
	defer ft.lock.RUnlock()

	result := make([]connections.Connection, 0)
	for _, row := range ft.rows {
		if row.UserID == userID {
			result = append(result, *row)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (ft *FakeTable) Insert(_ context.Context, row connections.Connection) (connections.Connection, error) {
	if ft.InsertErr != nil {
		return connections.Connection{}, ft.InsertErr
	}

	ft.lock.Lock()
	defer ft.lock.Unlock()

	row.ID = uuid.New().String()
	row.CreatedAt = time.Now().UTC()
	ft.rows[row.ID] = &row
	return row, nil
}

func (ft *FakeTable) Update(_ context.Context, id string, patch connections.Patch) (connections.Connection, error) {
	if ft.BeforeUpdate != nil {
		ft.BeforeUpdate(id)
	}
	if ft.UpdateErr != nil {
		return connections.Connection{}, ft.UpdateErr
	}

	ft.lock.Lock()
	defer ft.lock.Unlock()

	row, ok := ft.rows[id]
	if !ok {
		return connections.Connection{}, interrors.ErrNotFound
	}

	patch.Apply(row)
	return *row, nil
}

func (ft *FakeTable) Delete(_ context.Context, id string) error {
	if ft.DeleteErr != nil {
		return ft.DeleteErr
	}

	ft.lock.Lock()
	defer ft.lock.Unlock()

	if _, ok := ft.rows[id]; !ok {
		return interrors.ErrNotFound
	}

	delete(ft.rows, id)
	return nil
}
