package loginsession_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aionx/connect-dashboard/server/loginsession"
)

func TestUpsertAndGet(t *testing.T) {
	repo := loginsession.NewInMemoryRepo()

	err := repo.Upsert("sess-1", loginsession.Session{UserID: "user-1", Email: "user@example.com"})
	require.NoError(t, err)

	sess, err := repo.Get("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.ID)
	assert.Equal(t, "user-1", sess.UserID)
}

func TestUpsertRequiresSessionID(t *testing.T) {
	repo := loginsession.NewInMemoryRepo()
	require.Error(t, repo.Upsert("", loginsession.Session{}))
}

func TestGetUnknownSession(t *testing.T) {
	repo := loginsession.NewInMemoryRepo()
	_, err := repo.Get("missing")
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo := loginsession.NewInMemoryRepo()
	require.NoError(t, repo.Upsert("sess-1", loginsession.Session{UserID: "user-1"}))

	require.NoError(t, repo.Delete("sess-1"))
	_, err := repo.Get("sess-1")
	require.Error(t, err)
}

func TestDeleteByUser(t *testing.T) {
	repo := loginsession.NewInMemoryRepo()
	require.NoError(t, repo.Upsert("sess-1", loginsession.Session{UserID: "user-1"}))
	require.NoError(t, repo.Upsert("sess-2", loginsession.Session{UserID: "user-1"}))
	require.NoError(t, repo.Upsert("sess-3", loginsession.Session{UserID: "user-2"}))

	require.NoError(t, repo.DeleteByUser("user-1"))

	_, err := repo.Get("sess-1")
	require.Error(t, err)
	_, err = repo.Get("sess-2")
	require.Error(t, err)
	_, err = repo.Get("sess-3")
	require.NoError(t, err)
}

func TestExpired(t *testing.T) {
	now := time.Now()
	sess := loginsession.Session{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, sess.Expired(now))
	assert.True(t, sess.Expired(now.Add(2*time.Hour)))
}
