// Package sqlite implements the backend boundary on a local single-file
// database, for self-hosted deployments without the hosted service. Auth
// sessions live for the process lifetime, matching the hosted contract.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/session"
)

// Client is a local sqlite-backed implementation of the backend boundary.
type Client struct {
	session.StateNotifier

	db      *sql.DB
	log     zerolog.Logger
	nowTime func() time.Time

	mu       sync.Mutex
	identity *session.Identity
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// Open opens (creating if needed) the database at path and ensures the
// schema. Use ":memory:" for an ephemeral database.
func Open(path string, options ...Option) (*Client, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("[sqlite.Open] path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "[sqlite.Open] sql.Open")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, errors.Wrap(err, "[sqlite.Open] enabling foreign keys")
	}
	if err := createSchema(db); err != nil {
		return nil, errors.Wrap(err, "[sqlite.Open] createSchema")
	}

	client := &Client{
		db:      db,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Close closes the underlying database.
func (c *Client) Close() error {
	return c.db.Close()
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*session.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.SignUp] bcrypt.GenerateFromPassword")
	}

	id := uuid.New().String()
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, email, string(hash), c.nowTime().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, interrors.ErrEmailTaken
		}
		return nil, errors.Wrapf(interrors.ErrBackend, "[Client.SignUp] insert: %v", err)
	}

	identity := &session.Identity{ID: id, Email: email}
	c.setIdentity(identity)
	c.log.Info().Str("user_id", id).Msg("account created")
	return identity, nil
}

// SignIn checks the credentials against the stored hash.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var id, hash string
	err := c.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM users WHERE email = ?`, email).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, interrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrapf(interrors.ErrBackend, "[Client.SignIn] select: %v", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, interrors.ErrInvalidCredentials
	}

	identity := &session.Identity{ID: id, Email: email}
	c.setIdentity(identity)
	return identity, nil
}

// SignOut clears the current session.
func (c *Client) SignOut(context.Context) error {
	c.setIdentity(nil)
	return nil
}

// CurrentIdentity returns the signed-in identity, or nil when none exists.
func (c *Client) CurrentIdentity(context.Context) (*session.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity, nil
}

func (c *Client) setIdentity(identity *session.Identity) {
	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()
	c.Emit(identity)
}
