package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
	"github.com/shaharia-lab/shiftcrew/internal/storage/mocks"
)

var scanTime = time.Date(2026, 5, 1, 7, 0, 0, 0, time.UTC)

func newQualificationTestService() (*qualificationService, *mocks.MockQualificationStore, *mocks.MockUserStore, *mockNotifier) {
	quals := new(mocks.MockQualificationStore)
	users := new(mocks.MockUserStore)
	notifier := new(mockNotifier)
	svc := NewQualificationService(quals, users, notifier, newTestLogger()).(*qualificationService)
	svc.now = func() time.Time { return scanTime }
	return svc, quals, users, notifier
}

func expired(id, title string) *storage.ExpiredQualification {
	return &storage.ExpiredQualification{
		Qualification: storage.Qualification{ID: id, UserID: "u-1", Title: title, ExpiresAt: scanTime.Add(-time.Hour)},
		User:          *testUser(),
	}
}

func adminFilter() storage.UserFilter {
	isAdmin := true
	return storage.UserFilter{IsAdmin: &isAdmin}
}

func TestQualificationService_AddQualification(t *testing.T) {
	svc, quals, users, _ := newQualificationTestService()
	users.On("GetUser", mock.Anything, "u-1").Return(testUser(), nil)
	quals.On("AddQualification", mock.Anything, mock.Anything).Return(nil)

	q, err := svc.AddQualification(context.Background(), "u-1", " First Aid ", scanTime.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, "First Aid", q.Title)
	assert.Equal(t, scanTime, q.CreatedAt)
}

func TestQualificationService_AddQualification_Validation(t *testing.T) {
	svc, _, _, _ := newQualificationTestService()

	_, err := svc.AddQualification(context.Background(), "u-1", "  ", scanTime)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Field)

	_, err = svc.AddQualification(context.Background(), "u-1", "CPR", time.Time{})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "expires_at", vErr.Field)
}

func TestQualificationService_NotifyExpired_MarksDelivered(t *testing.T) {
	svc, quals, users, notifier := newQualificationTestService()
	quals.On("ListExpiredUnnotified", mock.Anything, scanTime).
		Return([]*storage.ExpiredQualification{expired("q-1", "First Aid"), expired("q-2", "CPR")}, nil)
	users.On("ListUsers", mock.Anything, adminFilter()).
		Return([]*storage.User{{ID: "a-1", Email: "admin@example.org", IsAdmin: true}}, nil)

	notifier.On("SendQualificationExpiryEmail", mock.Anything, mock.MatchedBy(func(ev notification.QualificationExpired) bool {
		return ev.QualificationTitle == "First Aid"
	})).Return(notification.Result{Delivered: true}, nil)
	notifier.On("SendQualificationExpiryEmail", mock.Anything, mock.MatchedBy(func(ev notification.QualificationExpired) bool {
		return ev.QualificationTitle == "CPR"
	})).Return(notification.Result{FailureReason: "connection refused"}, nil)
	quals.On("MarkExpiryNotified", mock.Anything, "q-1", scanTime).Return(nil)

	n, err := svc.NotifyExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	quals.AssertNotCalled(t, "MarkExpiryNotified", mock.Anything, "q-2", mock.Anything)

	ev := notifier.Calls[0].Arguments.Get(1).(notification.QualificationExpired)
	assert.Equal(t, notification.AddressList{"admin@example.org"}, ev.Recipients)
	assert.Equal(t, "Ann", ev.FirstName)
	assert.Equal(t, "u-1", ev.UserID)
}

func TestQualificationService_NotifyExpired_NoAdmins(t *testing.T) {
	svc, quals, users, notifier := newQualificationTestService()
	quals.On("ListExpiredUnnotified", mock.Anything, scanTime).
		Return([]*storage.ExpiredQualification{expired("q-1", "First Aid")}, nil)
	users.On("ListUsers", mock.Anything, adminFilter()).Return([]*storage.User{}, nil)

	n, err := svc.NotifyExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	notifier.AssertNotCalled(t, "SendQualificationExpiryEmail", mock.Anything, mock.Anything)
	quals.AssertNotCalled(t, "MarkExpiryNotified", mock.Anything, mock.Anything, mock.Anything)
}

func TestQualificationService_NotifyExpired_NothingExpired(t *testing.T) {
	svc, quals, users, _ := newQualificationTestService()
	quals.On("ListExpiredUnnotified", mock.Anything, scanTime).Return([]*storage.ExpiredQualification{}, nil)

	n, err := svc.NotifyExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	users.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
}

func TestQualificationService_NotifyExpired_AdminLookupFails(t *testing.T) {
	svc, quals, users, _ := newQualificationTestService()
	quals.On("ListExpiredUnnotified", mock.Anything, scanTime).
		Return([]*storage.ExpiredQualification{expired("q-1", "First Aid")}, nil)
	users.On("ListUsers", mock.Anything, adminFilter()).Return(nil, errors.New("db locked"))

	_, err := svc.NotifyExpired(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

func TestQualificationService_NotifyExpired_ConcurrentScansReportOnce(t *testing.T) {
	db, _, err := storage.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	users := storage.NewSQLiteUserStore(db)
	quals := storage.NewSQLiteQualificationStore(db)
	require.NoError(t, users.CreateUser(ctx, &storage.User{ID: "admin", FirstName: "Ada", Email: "admin@example.org", IsAdmin: true, CreatedAt: scanTime}))
	require.NoError(t, users.CreateUser(ctx, &storage.User{ID: "u-1", FirstName: "Ann", Email: "ann@example.org", CreatedAt: scanTime}))
	for _, id := range []string{"q-1", "q-2"} {
		require.NoError(t, quals.AddQualification(ctx, &storage.Qualification{
			ID: id, UserID: "u-1", Title: "Cert " + id, ExpiresAt: scanTime.Add(-time.Hour), CreatedAt: scanTime,
		}))
	}

	notifier := new(mockNotifier)
	notifier.On("SendQualificationExpiryEmail", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(10 * time.Millisecond) }).
		Return(notification.Result{Delivered: true}, nil)

	svc := NewQualificationService(quals, users, notifier, newTestLogger()).(*qualificationService)
	svc.now = func() time.Time { return scanTime }

	const scans = 4
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.NotifyExpired(ctx)
			assert.NoError(t, err)
			mu.Lock()
			total += n
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, total)
	notifier.AssertNumberOfCalls(t, "SendQualificationExpiryEmail", 2)
}
