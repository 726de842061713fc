package storage_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

func TestSQLiteNotificationStore(t *testing.T) {
	db, _, err := storage.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := storage.NewSQLiteNotificationStore(db)
	ctx := context.Background()

	t.Run("log and list", func(t *testing.T) {
		entry := storage.NotificationLogEntry{
			Kind:       "shift_signup",
			Provider:   "smtp",
			Recipients: "ann@example.org, admin@example.org",
			Subject:    "Shift signup: Ann Lee",
			Status:     "sent",
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, store.LogNotification(ctx, entry))

		list, err := store.ListNotifications(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)

		got := list[0]
		assert.NotZero(t, got.ID)
		assert.Equal(t, entry.Kind, got.Kind)
		assert.Equal(t, entry.Provider, got.Provider)
		assert.Equal(t, entry.Recipients, got.Recipients)
		assert.Equal(t, entry.Subject, got.Subject)
		assert.Equal(t, entry.Status, got.Status)
		assert.Empty(t, got.ErrorMsg)
		assert.True(t, entry.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("newest first and limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, store.LogNotification(ctx, storage.NotificationLogEntry{
				Kind:      "otp",
				Provider:  "log",
				Subject:   fmt.Sprintf("code %d", i),
				Status:    "failed",
				ErrorMsg:  "connection refused",
				CreatedAt: time.Now().UTC(),
			}))
		}

		list, err := store.ListNotifications(ctx, 3)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "code 4", list[0].Subject)
		assert.Equal(t, "code 2", list[2].Subject)
		assert.Equal(t, "connection refused", list[0].ErrorMsg)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		list, err := store.ListNotifications(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, list, 6)
	})
}
