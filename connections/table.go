package connections

import "context"

// Table is the raw backend contract for the connections table. Row-level
// ownership is enforced by the backend; implementations surface cross-user
// access attempts as not-found.
type Table interface {
	// SelectByUser returns all rows owned by userID, in no guaranteed order.
	SelectByUser(ctx context.Context, userID string) ([]Connection, error)

	// Insert stores a new row. The backend assigns id and created_at.
	Insert(ctx context.Context, row Connection) (Connection, error)

	// Update applies a partial update to the row with the given id.
	Update(ctx context.Context, id string, patch Patch) (Connection, error)

	// Delete permanently removes the row with the given id.
	Delete(ctx context.Context, id string) error
}
