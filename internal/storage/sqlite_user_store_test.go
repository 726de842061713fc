package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/storage"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := storage.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedUser(t *testing.T, store *storage.SQLiteUserStore, id, email string, admin bool) *storage.User {
	t.Helper()
	u := &storage.User{
		ID:        id,
		FirstName: "First " + id,
		LastName:  "Last",
		Email:     email,
		IsAdmin:   admin,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func TestSQLiteUserStore_CreateAndGet(t *testing.T) {
	store := storage.NewSQLiteUserStore(openTestDB(t))
	ctx := context.Background()

	want := &storage.User{
		ID:            "u-1",
		FirstName:     "Ann",
		LastName:      "Lee",
		Email:         "ann@example.org",
		VolunteerType: "driver",
		CreatedAt:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateUser(ctx, want))

	got, err := store.GetUser(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Email, got.Email)
	assert.Equal(t, "Ann Lee", got.FullName())
	assert.Equal(t, "driver", got.VolunteerType)
	assert.False(t, got.IsAdmin)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	byEmail, err := store.GetUserByEmail(ctx, "ANN@example.org")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "u-1", byEmail.ID)
}

func TestSQLiteUserStore_GetMissing(t *testing.T) {
	store := storage.NewSQLiteUserStore(openTestDB(t))
	ctx := context.Background()

	got, err := store.GetUser(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.GetUserByEmail(ctx, "nobody@example.org")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteUserStore_DuplicateEmail(t *testing.T) {
	store := storage.NewSQLiteUserStore(openTestDB(t))
	seedUser(t, store, "u-1", "ann@example.org", false)

	err := store.CreateUser(context.Background(), &storage.User{
		ID: "u-2", FirstName: "Other", Email: "Ann@Example.org", CreatedAt: time.Now(),
	})
	require.ErrorIs(t, err, storage.ErrConflict)
}

func TestSQLiteUserStore_ListUsers(t *testing.T) {
	store := storage.NewSQLiteUserStore(openTestDB(t))
	ctx := context.Background()
	seedUser(t, store, "u-1", "a@example.org", false)
	seedUser(t, store, "u-2", "b@example.org", true)
	seedUser(t, store, "u-3", "c@example.org", true)

	all, err := store.ListUsers(ctx, storage.UserFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"u-1", "u-2", "u-3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	admin := true
	admins, err := store.ListUsers(ctx, storage.UserFilter{IsAdmin: &admin})
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Equal(t, "u-2", admins[0].ID)
	assert.True(t, admins[1].IsAdmin)

	notAdmin := false
	volunteers, err := store.ListUsers(ctx, storage.UserFilter{IsAdmin: &notAdmin})
	require.NoError(t, err)
	require.Len(t, volunteers, 1)
	assert.Equal(t, "u-1", volunteers[0].ID)
}

func TestSQLiteUserStore_VolunteerTypeRequest(t *testing.T) {
	db := openTestDB(t)
	store := storage.NewSQLiteUserStore(db)
	ctx := context.Background()
	seedUser(t, store, "u-1", "a@example.org", false)

	req := &storage.VolunteerTypeRequest{
		ID:            "r-1",
		UserID:        "u-1",
		VolunteerType: "first-aid",
		Status:        storage.RequestStatusPending,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, store.CreateVolunteerTypeRequest(ctx, req))

	var status string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT status FROM volunteer_type_requests WHERE id = ?`, "r-1").Scan(&status))
	assert.Equal(t, storage.RequestStatusPending, status)

	req.ID = "r-2"
	req.UserID = "missing"
	assert.Error(t, store.CreateVolunteerTypeRequest(ctx, req), "foreign key must reject unknown users")
}
