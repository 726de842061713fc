package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
	"github.com/shaharia-lab/shiftcrew/internal/storage/mocks"
)

func newUserTestService() (*userService, *mocks.MockUserStore, *mockNotifier) {
	users := new(mocks.MockUserStore)
	notifier := new(mockNotifier)
	return NewUserService(users, notifier, newTestLogger()).(*userService), users, notifier
}

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		user      *storage.User
		storeErr  error
		wantField string
		conflict  bool
	}{
		{name: "valid", user: &storage.User{FirstName: "Ann", Email: " ann@example.org "}},
		{name: "missing first name", user: &storage.User{Email: "ann@example.org"}, wantField: "first_name"},
		{name: "missing email", user: &storage.User{FirstName: "Ann"}, wantField: "email"},
		{name: "invalid email", user: &storage.User{FirstName: "Ann", Email: "not-an-address"}, wantField: "email"},
		{name: "duplicate email", user: &storage.User{FirstName: "Ann", Email: "ann@example.org"}, storeErr: storage.ErrConflict, conflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _ := newUserTestService()
			users.On("CreateUser", mock.Anything, mock.Anything).Return(tt.storeErr).Maybe()

			got, err := svc.CreateUser(context.Background(), tt.user)
			switch {
			case tt.wantField != "":
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.wantField, vErr.Field)
			case tt.conflict:
				var cErr *ConflictError
				require.ErrorAs(t, err, &cErr)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, got.ID)
				assert.Equal(t, "ann@example.org", got.Email)
			}
		})
	}
}

func TestUserService_ImportUsers(t *testing.T) {
	svc, users, _ := newUserTestService()
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *storage.User) bool {
		return u.Email == "bob@example.org"
	})).Return(storage.ErrConflict)
	users.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	doc := `
users:
  - first_name: Ann
    last_name: Lee
    email: ann@example.org
    is_admin: true
  - first_name: Bob
    email: bob@example.org
`
	res, err := svc.ImportUsers(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Created: 1, Skipped: 1}, res)

	first := users.Calls[0].Arguments.Get(1).(*storage.User)
	assert.True(t, first.IsAdmin)
	assert.Equal(t, "Lee", first.LastName)
}

func TestUserService_ImportUsers_RejectsUnknownFields(t *testing.T) {
	svc, _, _ := newUserTestService()

	_, err := svc.ImportUsers(context.Background(), strings.NewReader("users:\n  - first_name: Ann\n    phone: 123\n"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUserService_ImportUsers_StopsOnInvalidUser(t *testing.T) {
	svc, users, _ := newUserTestService()

	_, err := svc.ImportUsers(context.Background(), strings.NewReader("users:\n  - first_name: Ann\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user #1")
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserService_RequestVolunteerType(t *testing.T) {
	svc, users, notifier := newUserTestService()
	users.On("GetUser", mock.Anything, "u-1").Return(testUser(), nil)
	users.On("CreateVolunteerTypeRequest", mock.Anything, mock.Anything).Return(nil)
	users.On("ListUsers", mock.Anything, adminFilter()).Return([]*storage.User{
		{ID: "a-1", Email: "one@example.org", IsAdmin: true},
		{ID: "a-2", Email: "two@example.org", IsAdmin: true},
	}, nil)
	notifier.On("SendVolunteerTypeApprovalEmail", mock.Anything, mock.Anything).
		Return(notification.Result{Delivered: true}, nil)

	res, err := svc.RequestVolunteerType(context.Background(), "u-1", "Driver")
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	req := users.Calls[1].Arguments.Get(1).(*storage.VolunteerTypeRequest)
	assert.Equal(t, storage.RequestStatusPending, req.Status)
	assert.Equal(t, "Driver", req.VolunteerType)

	ev := notifier.Calls[0].Arguments.Get(1).(notification.VolunteerTypeRequested)
	assert.Equal(t, notification.AddressList{"one@example.org", "two@example.org"}, ev.Recipients)
	assert.Equal(t, "Driver", ev.VolunteerType)
	assert.Equal(t, "Lee", ev.LastName)
}

func TestUserService_RequestVolunteerType_UnknownUser(t *testing.T) {
	svc, users, notifier := newUserTestService()
	users.On("GetUser", mock.Anything, "nope").Return(nil, nil)

	_, err := svc.RequestVolunteerType(context.Background(), "nope", "Driver")
	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	notifier.AssertNotCalled(t, "SendVolunteerTypeApprovalEmail", mock.Anything, mock.Anything)
}
