package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aionx/connect-dashboard/connections"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

var _ connections.Table = (*Client)(nil)

// SelectByUser returns all connections owned by userID.
func (c *Client) SelectByUser(ctx context.Context, userID string) ([]connections.Connection, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, user_id, name, server_id, channel_id, token, active, created_at
		 FROM connections WHERE user_id = ?`, userID)
	if err != nil {
		return nil, errors.Wrapf(interrors.ErrBackend, "[Client.SelectByUser] query: %v", err)
	}
	defer rows.Close()

	result := make([]connections.Connection, 0)
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.SelectByUser] scanConnection")
		}
		result = append(result, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(interrors.ErrBackend, "[Client.SelectByUser] rows: %v", err)
	}
	return result, nil
}

// Insert stores a new row, assigning id and created_at.
func (c *Client) Insert(ctx context.Context, row connections.Connection) (connections.Connection, error) {
	row.ID = uuid.New().String()
	row.CreatedAt = c.nowTime().UTC()

	var token sql.NullString
	if row.Token != nil {
		token = sql.NullString{String: *row.Token, Valid: true}
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO connections (id, user_id, name, server_id, channel_id, token, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.UserID, row.Name, row.ServerID, row.ChannelID, token, row.Active, row.CreatedAt)
	if err != nil {
		return connections.Connection{}, errors.Wrapf(interrors.ErrBackend, "[Client.Insert] insert: %v", err)
	}
	return row, nil
}

// Update applies a partial update and returns the updated row. Ownership is
// checked against the current session, standing in for the hosted backend's
// row-level policies.
func (c *Client) Update(ctx context.Context, id string, patch connections.Patch) (connections.Connection, error) {
	current, err := c.getOwned(ctx, id)
	if err != nil {
		return connections.Connection{}, err
	}

	patch.Apply(&current)

	var token sql.NullString
	if current.Token != nil {
		token = sql.NullString{String: *current.Token, Valid: true}
	}

	_, err = c.db.ExecContext(ctx,
		`UPDATE connections SET name = ?, server_id = ?, channel_id = ?, token = ?, active = ? WHERE id = ?`,
		current.Name, current.ServerID, current.ChannelID, token, current.Active, id)
	if err != nil {
		return connections.Connection{}, errors.Wrapf(interrors.ErrBackend, "[Client.Update] update: %v", err)
	}
	return current, nil
}

// Delete permanently removes the row with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if _, err := c.getOwned(ctx, id); err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id); err != nil {
		return errors.Wrapf(interrors.ErrBackend, "[Client.Delete] delete: %v", err)
	}
	return nil
}

// getOwned loads a row and verifies it belongs to the signed-in user.
// Cross-user rows read as not-found, matching the hosted behaviour.
func (c *Client) getOwned(ctx context.Context, id string) (connections.Connection, error) {
	c.mu.Lock()
	identity := c.identity
	c.mu.Unlock()

	if identity == nil {
		return connections.Connection{}, interrors.ErrSessionExpired
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, server_id, channel_id, token, active, created_at
		 FROM connections WHERE id = ?`, id)

	conn, err := scanConnection(row)
	if err == sql.ErrNoRows {
		return connections.Connection{}, interrors.ErrNotFound
	}
	if err != nil {
		return connections.Connection{}, errors.Wrap(err, "[Client.getOwned] scanConnection")
	}
	if conn.UserID != identity.ID {
		return connections.Connection{}, interrors.ErrNotFound
	}
	return conn, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConnection(row rowScanner) (connections.Connection, error) {
	var conn connections.Connection
	var token sql.NullString
	var createdAt time.Time

	err := row.Scan(&conn.ID, &conn.UserID, &conn.Name, &conn.ServerID, &conn.ChannelID, &token, &conn.Active, &createdAt)
	if err != nil {
		return connections.Connection{}, err
	}

	if token.Valid {
		conn.Token = &token.String
	}
	conn.CreatedAt = createdAt
	return conn, nil
}
