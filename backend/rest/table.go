package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/aionx/connect-dashboard/connections"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

var _ connections.Table = (*Client)(nil)

// SelectByUser returns the connections owned by userID. The user filter is
// applied in the query in addition to the backend's row-level policies.
func (c *Client) SelectByUser(ctx context.Context, userID string) ([]connections.Connection, error) {
	query := url.Values{
		"select":  []string{"*"},
		"user_id": []string{"eq." + userID},
	}

	var rows []connections.Connection
	status, err := c.doJSON(ctx, http.MethodGet, "/rest/v1/"+connectionsTable, query, nil, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.SelectByUser] doJSON")
	}
	if err := c.tableStatusErr("SelectByUser", status); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []connections.Connection{}
	}
	return rows, nil
}

// Insert stores a new row and returns the backend's representation with the
// assigned id and created_at.
func (c *Client) Insert(ctx context.Context, row connections.Connection) (connections.Connection, error) {
	query := url.Values{"select": []string{"*"}}

	var rows []connections.Connection
	status, err := c.doRepresentation(ctx, http.MethodPost, "/rest/v1/"+connectionsTable, query, []connections.Connection{row}, &rows)
	if err != nil {
		return connections.Connection{}, errors.Wrap(err, "[Client.Insert] doRepresentation")
	}
	if err := c.tableStatusErr("Insert", status); err != nil {
		return connections.Connection{}, err
	}
	if len(rows) == 0 {
		return connections.Connection{}, errors.Wrap(interrors.ErrBackend, "[Client.Insert] empty representation")
	}
	return rows[0], nil
}

// Update applies a partial update to the row with the given id. Rows outside
// the caller's row-level policy read as not-found.
func (c *Client) Update(ctx context.Context, id string, patch connections.Patch) (connections.Connection, error) {
	query := url.Values{
		"select": []string{"*"},
		"id":     []string{"eq." + id},
	}

	var rows []connections.Connection
	status, err := c.doRepresentation(ctx, http.MethodPatch, "/rest/v1/"+connectionsTable, query, patch, &rows)
	if err != nil {
		return connections.Connection{}, errors.Wrap(err, "[Client.Update] doRepresentation")
	}
	if err := c.tableStatusErr("Update", status); err != nil {
		return connections.Connection{}, err
	}
	if len(rows) == 0 {
		return connections.Connection{}, interrors.ErrNotFound
	}
	return rows[0], nil
}

// Delete permanently removes the row with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	query := url.Values{"id": []string{"eq." + id}}

	status, err := c.doJSON(ctx, http.MethodDelete, "/rest/v1/"+connectionsTable, query, nil, nil)
	if err != nil {
		return errors.Wrap(err, "[Client.Delete] doJSON")
	}
	return c.tableStatusErr("Delete", status)
}

// doRepresentation is doJSON with the Prefer header asking the backend to
// return the affected rows.
func (c *Client) doRepresentation(ctx context.Context, method, path string, query url.Values, body, out interface{}) (int, error) {
	return c.do(ctx, method, path, query, body, out, "return=representation")
}

// tableStatusErr maps table endpoint statuses onto the error taxonomy. An
// expired token is surfaced as session expiry and the cached session is
// dropped, which observers see as a sign-out.
func (c *Client) tableStatusErr(op string, status int) error {
	switch {
	case status < 400:
		return nil
	case status == http.StatusUnauthorized:
		c.clearSession()
		return interrors.ErrSessionExpired
	case status == http.StatusNotFound || status == http.StatusNotAcceptable:
		return interrors.ErrNotFound
	default:
		return errors.Wrapf(interrors.ErrBackend, "[Client.%s] status %d", op, status)
	}
}
