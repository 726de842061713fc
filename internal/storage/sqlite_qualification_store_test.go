package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

func TestSQLiteQualificationStore(t *testing.T) {
	db := openTestDB(t)
	users := storage.NewSQLiteUserStore(db)
	store := storage.NewSQLiteQualificationStore(db)
	ctx := context.Background()

	seedUser(t, users, "u-1", "a@example.org", false)
	seedUser(t, users, "u-2", "b@example.org", false)

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	add := func(id, userID string, expires time.Time) {
		require.NoError(t, store.AddQualification(ctx, &storage.Qualification{
			ID: id, UserID: userID, Title: "Cert " + id, ExpiresAt: expires, CreatedAt: now.Add(-24 * time.Hour),
		}))
	}
	add("q-future", "u-1", now.Add(30*24*time.Hour))
	add("q-past", "u-1", now.Add(-2*time.Hour))
	add("q-exact", "u-2", now)

	t.Run("list ordered by expiry", func(t *testing.T) {
		quals, err := store.ListQualifications(ctx, "u-1")
		require.NoError(t, err)
		require.Len(t, quals, 2)
		assert.Equal(t, "q-past", quals[0].ID)
		assert.Equal(t, "q-future", quals[1].ID)
		assert.Nil(t, quals[0].ExpiryNotifiedAt)
	})

	t.Run("list for unknown user is empty", func(t *testing.T) {
		quals, err := store.ListQualifications(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, quals)
	})

	t.Run("expired unnotified includes boundary", func(t *testing.T) {
		expired, err := store.ListExpiredUnnotified(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 2)
		assert.Equal(t, "q-past", expired[0].ID)
		assert.Equal(t, "a@example.org", expired[0].User.Email)
		assert.Equal(t, "q-exact", expired[1].ID)
		assert.Equal(t, "u-2", expired[1].User.ID)
	})

	t.Run("mark notified removes from scan", func(t *testing.T) {
		require.NoError(t, store.MarkExpiryNotified(ctx, "q-past", now))

		expired, err := store.ListExpiredUnnotified(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, "q-exact", expired[0].ID)

		quals, err := store.ListQualifications(ctx, "u-1")
		require.NoError(t, err)
		require.NotNil(t, quals[0].ExpiryNotifiedAt)
		assert.True(t, now.Equal(*quals[0].ExpiryNotifiedAt))
	})

	t.Run("mark unknown qualification", func(t *testing.T) {
		assert.Error(t, store.MarkExpiryNotified(ctx, "missing", now))
	})
}
