package connections

import (
	"context"

	"github.com/pkg/errors"
)

// Repository is the CRUD boundary over the connections table. It holds no
// state of its own: every call is a fresh round trip, validated client-side
// where the contract requires it.
type Repository struct {
	table Table
}

// NewRepository initializes a Repository over the given table boundary.
func NewRepository(table Table) (*Repository, error) {
	if table == nil {
		return nil, errors.New("[NewRepository] table is required")
	}
	return &Repository{table: table}, nil
}

// List returns all connections owned by userID. An empty result is a valid
// outcome, not an error.
func (r *Repository) List(ctx context.Context, userID string) ([]Connection, error) {
	rows, err := r.table.SelectByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Repository.List] table.SelectByUser")
	}
	return rows, nil
}

// Create validates the draft and inserts a new connection. New rows start
// inactive; the backend assigns id and created_at.
func (r *Repository) Create(ctx context.Context, draft Draft) (Connection, error) {
	draft = draft.Trimmed()
	if err := draft.Validate(); err != nil {
		return Connection{}, err
	}

	row := Connection{
		UserID:    draft.UserID,
		Name:      draft.Name,
		ServerID:  draft.ServerID,
		ChannelID: draft.ChannelID,
		Token:     draft.Token,
		Active:    false,
	}

	created, err := r.table.Insert(ctx, row)
	if err != nil {
		return Connection{}, errors.Wrap(err, "[Repository.Create] table.Insert")
	}
	return created, nil
}

// Update applies a partial update, commonly just the active flag. Ownership
// is enforced by the backend; an id belonging to another user reads as
// not-found.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (Connection, error) {
	updated, err := r.table.Update(ctx, id, patch)
	if err != nil {
		return Connection{}, errors.Wrap(err, "[Repository.Update] table.Update")
	}
	return updated, nil
}

// Delete permanently removes a connection. There is no undo.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.table.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "[Repository.Delete] table.Delete")
	}
	return nil
}
