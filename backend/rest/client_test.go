package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionx/connect-dashboard/backend/rest"
	"github.com/aionx/connect-dashboard/connections"
	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/session"
)

const anonKey = "anon-key"

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func authBody(t *testing.T, accessToken string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"access_token":  accessToken,
		"refresh_token": "refresh-1",
		"user":          map[string]string{"id": "user-1", "email": "user@example.com"},
	})
	require.NoError(t, err)
	return payload
}

func newClient(t *testing.T, handler http.Handler) *rest.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := rest.New(srv.URL, anonKey)
	require.NoError(t, err)
	return client
}

func signIn(t *testing.T, client *rest.Client) *session.Identity {
	t.Helper()
	identity, err := client.SignIn(context.Background(), "user@example.com", "Password1")
	require.NoError(t, err)
	require.NotNil(t, identity)
	return identity
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := rest.New("", anonKey)
	require.Error(t, err)

	_, err = rest.New("http://localhost", " ")
	require.Error(t, err)
}

func TestSignInStoresSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, anonKey, r.Header.Get("apikey"))
		_, _ = w.Write(authBody(t, token))
	})

	client := newClient(t, mux)
	identity := signIn(t, client)
	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "user@example.com", identity.Email)

	current, err := client.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "user-1", current.ID)
}

func TestSignInInvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	})

	client := newClient(t, mux)
	_, err := client.SignIn(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, interrors.Is(err, interrors.ErrInvalidCredentials))
}

func TestSignUpEmailTaken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"msg":"User already registered"}`))
	})

	client := newClient(t, mux)
	_, err := client.SignUp(context.Background(), "user@example.com", "Password1")
	require.Error(t, err)
	assert.True(t, interrors.Is(err, interrors.ErrEmailTaken))
}

func TestSignUpWithEmailConfirmationPending(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, _ *http.Request) {
		// No access token: the account exists but has no session yet.
		_, _ = w.Write([]byte(`{"user":{"id":"user-1","email":"user@example.com"}}`))
	})

	client := newClient(t, mux)
	identity, err := client.SignUp(context.Background(), "user@example.com", "Password1")
	require.NoError(t, err)
	assert.Nil(t, identity, "no identity is reported until the email is confirmed")

	current, err := client.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestExpiredTokenReportsSessionExpired(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Minute))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(authBody(t, token))
	})

	client := newClient(t, mux)

	var events []*session.Identity
	unsubscribe := client.OnAuthStateChange(func(identity *session.Identity) {
		events = append(events, identity)
	})
	defer unsubscribe()

	signIn(t, client)

	_, err := client.CurrentIdentity(context.Background())
	require.Error(t, err)
	assert.True(t, interrors.Is(err, interrors.ErrSessionExpired))

	require.Len(t, events, 2)
	assert.NotNil(t, events[0], "sign-in emits the identity")
	assert.Nil(t, events[1], "expiry emits a sign-out")
}

func TestSignOutClearsSessionFirst(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	logoutCalled := false
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(authBody(t, token))
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, _ *http.Request) {
		logoutCalled = true
		w.WriteHeader(http.StatusNoContent)
	})

	client := newClient(t, mux)
	signIn(t, client)

	require.NoError(t, client.SignOut(context.Background()))
	assert.True(t, logoutCalled)

	current, err := client.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSelectByUserEmptyResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/v1/connections", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.user-1", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`[]`))
	})

	client := newClient(t, mux)
	rows, err := client.SelectByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSelectByUserCarriesAccessToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(authBody(t, token))
	})
	mux.HandleFunc("GET /rest/v1/connections", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		assert.Equal(t, anonKey, r.Header.Get("apikey"))
		_, _ = w.Write([]byte(`[{"id":"conn-1","user_id":"user-1","name":"Main Bot","server_id":"srv-1","channel_id":"chan-1","active":false}]`))
	})

	client := newClient(t, mux)
	signIn(t, client)

	rows, err := client.SelectByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "conn-1", rows[0].ID)
}

func TestInsertReturnsRepresentation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rest/v1/connections", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var rows []connections.Connection
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		require.Len(t, rows, 1)

		rows[0].ID = "conn-1"
		rows[0].CreatedAt = time.Now().UTC()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rows)
	})

	client := newClient(t, mux)
	created, err := client.Insert(context.Background(), connections.Connection{
		UserID:    "user-1",
		Name:      "Main Bot",
		ServerID:  "srv-1",
		ChannelID: "chan-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "conn-1", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestUpdateNoMatchingRowsIsNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /rest/v1/connections", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.conn-1", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`[]`))
	})

	client := newClient(t, mux)
	active := true
	_, err := client.Update(context.Background(), "conn-1", connections.Patch{Active: &active})
	require.Error(t, err)
	assert.True(t, interrors.Is(err, interrors.ErrNotFound))
}

func TestUnauthorizedTableCallClearsSession(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(authBody(t, token))
	})
	mux.HandleFunc("GET /rest/v1/connections", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"JWT expired"}`))
	})

	client := newClient(t, mux)

	var lastEvent *session.Identity
	unsubscribe := client.OnAuthStateChange(func(identity *session.Identity) {
		lastEvent = identity
	})
	defer unsubscribe()

	signIn(t, client)
	require.NotNil(t, lastEvent)

	_, err := client.SelectByUser(context.Background(), "user-1")
	require.Error(t, err)
	assert.True(t, interrors.Is(err, interrors.ErrSessionExpired))
	assert.Nil(t, lastEvent, "the revoked session is observed as a sign-out")

	current, err := client.CurrentIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestDelete(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /rest/v1/connections", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.conn-1", r.URL.Query().Get("id"))
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	client := newClient(t, mux)
	require.NoError(t, client.Delete(context.Background(), "conn-1"))
	assert.True(t, deleted)
}
