// Package rest implements the backend boundary against a hosted
// backend-as-a-service exposing password-grant auth endpoints and
// PostgREST-style table endpoints.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/session"
)

const (
	connectionsTable = "connections"
	requestTimeout   = 15 * time.Second
)

// Client talks to the hosted backend. It keeps the current access token so
// table requests run under the signed-in user's row-level policies.
type Client struct {
	session.StateNotifier

	baseURL string
	anonKey string
	http    *http.Client
	log     zerolog.Logger
	nowTime func() time.Time

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	identity     *session.Identity
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHTTPClient overrides the HTTP client (primarily for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// New creates a Client for the given service endpoint and public API key.
func New(baseURL, anonKey string, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[rest.New] baseURL is required")
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, errors.New("[rest.New] anonKey is required")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: requestTimeout},
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type errorResponse struct {
	Message     string `json:"msg"`
	Description string `json:"error_description"`
	Error       string `json:"error"`
}

func (er errorResponse) text() string {
	if er.Message != "" {
		return er.Message
	}
	if er.Description != "" {
		return er.Description
	}
	return er.Error
}

// SignUp registers a new account. Backends configured with email confirmation
// issue no session; that is reported as a nil identity so callers prompt for
// verification instead of treating the user as signed in.
func (c *Client) SignUp(ctx context.Context, email, password string) (*session.Identity, error) {
	body := map[string]string{"email": email, "password": password}

	var resp authResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", nil, body, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.SignUp] doJSON")
	}
	if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
		return nil, interrors.ErrEmailTaken
	}
	if status >= 400 {
		return nil, errors.Wrapf(interrors.ErrBackend, "[Client.SignUp] status %d", status)
	}

	if resp.AccessToken == "" {
		return nil, nil
	}

	identity := &session.Identity{ID: resp.User.ID, Email: resp.User.Email}
	c.storeSession(resp, identity)
	c.Emit(identity)
	return identity, nil
}

// SignIn exchanges credentials for a session via the password grant.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	query := url.Values{"grant_type": []string{"password"}}

	var resp authResponse
	status, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token", query, body, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.SignIn] doJSON")
	}
	if status == http.StatusBadRequest || status == http.StatusUnauthorized {
		return nil, interrors.ErrInvalidCredentials
	}
	if status >= 400 {
		return nil, errors.Wrapf(interrors.ErrBackend, "[Client.SignIn] status %d", status)
	}

	identity := &session.Identity{ID: resp.User.ID, Email: resp.User.Email}
	c.storeSession(resp, identity)
	c.Emit(identity)
	return identity, nil
}

// SignOut revokes the backend session and clears the cached tokens. The local
// session is cleared even when the revocation call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	c.accessToken = ""
	c.refreshToken = ""
	c.identity = nil
	c.mu.Unlock()

	c.Emit(nil)

	if token == "" {
		return nil
	}

	status, err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", nil, nil, nil)
	if err != nil {
		return errors.Wrap(err, "[Client.SignOut] doJSON")
	}
	if status >= 400 && status != http.StatusUnauthorized {
		return errors.Wrapf(interrors.ErrBackend, "[Client.SignOut] status %d", status)
	}
	return nil
}

// CurrentIdentity returns the identity carried by the stored access token, or
// nil when no session exists. An expired token clears the session and reports
// expiry, which the Session Store treats as a sign-out.
func (c *Client) CurrentIdentity(_ context.Context) (*session.Identity, error) {
	c.mu.Lock()
	token := c.accessToken
	identity := c.identity
	c.mu.Unlock()

	if token == "" || identity == nil {
		return nil, nil
	}

	expired, err := c.tokenExpired(token)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.CurrentIdentity] tokenExpired")
	}
	if expired {
		c.clearSession()
		return nil, interrors.ErrSessionExpired
	}

	return identity, nil
}

func (c *Client) storeSession(resp authResponse, identity *session.Identity) {
	c.mu.Lock()
	c.accessToken = resp.AccessToken
	c.refreshToken = resp.RefreshToken
	c.identity = identity
	c.mu.Unlock()
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.identity = nil
	c.mu.Unlock()

	c.Emit(nil)
}

// doJSON performs one request with the service headers applied. It returns
// the HTTP status; statuses are mapped to error classes by the callers.
// Network failures are wrapped as backend errors.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) (int, error) {
	return c.do(ctx, method, path, query, body, out, "")
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, prefer string) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, errors.Wrap(err, "json.Marshal")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, errors.Wrap(err, "http.NewRequestWithContext")
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()
	if token == "" {
		token = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, errors.Wrapf(interrors.ErrBackend, "request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.Wrapf(interrors.ErrBackend, "reading response: %v", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		_ = json.Unmarshal(raw, &apiErr)
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("message", apiErr.text()).
			Msg("backend error response")
		return resp.StatusCode, nil
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, errors.Wrapf(interrors.ErrBackend, "decoding response: %v", err)
		}
	}
	return resp.StatusCode, nil
}
