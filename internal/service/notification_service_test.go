package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/notification"
	"github.com/shaharia-lab/shiftcrew/internal/storage"
	"github.com/shaharia-lab/shiftcrew/internal/storage/mocks"
)

func TestNotificationService_ListLog(t *testing.T) {
	store := new(mocks.MockNotificationStore)
	entries := []storage.NotificationLogEntry{{ID: 2, Kind: "otp", Status: "sent"}}
	store.On("ListNotifications", mock.Anything, 10).Return(entries, nil)

	svc := NewNotificationService(new(mockNotifier), store)
	got, err := svc.ListLog(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestNotificationService_SendTest(t *testing.T) {
	notifier := new(mockNotifier)
	notifier.On("SendTestEmail", mock.Anything, notification.AddressList{"ops@example.org"}).
		Return(notification.Result{Delivered: true})

	svc := NewNotificationService(notifier, new(mocks.MockNotificationStore))
	res, err := svc.SendTest(context.Background(), "ops@example.org")
	require.NoError(t, err)
	assert.True(t, res.Delivered)
}

func TestNotificationService_SendTest_InvalidAddress(t *testing.T) {
	notifier := new(mockNotifier)
	svc := NewNotificationService(notifier, new(mocks.MockNotificationStore))

	_, err := svc.SendTest(context.Background(), "not an address")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "to", vErr.Field)
	notifier.AssertNotCalled(t, "SendTestEmail", mock.Anything, mock.Anything)
}
