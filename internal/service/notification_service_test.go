package service_test

import (
	"context"
	"testing"

	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Subscribe(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	user := testutil.NewUserBuilder().Build(t, ts.Repos)
	keys := domain.SubscriptionKeys{P256dh: "p256dh", Auth: "auth"}

	_, err := ts.Services.Notification.Subscribe(ctx, user.ID, "", keys)
	assert.ErrorIs(t, err, domain.ErrInvalidSubscription)
	_, err = ts.Services.Notification.Subscribe(ctx, user.ID, "https://push.example.com/d1", domain.SubscriptionKeys{})
	assert.ErrorIs(t, err, domain.ErrInvalidSubscription)

	sub, err := ts.Services.Notification.Subscribe(ctx, user.ID, "https://push.example.com/d1", keys)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub.UserID)

	// Re-subscribing the same endpoint refreshes keys instead of
	// duplicating the row.
	newKeys := domain.SubscriptionKeys{P256dh: "rotated", Auth: "rotated"}
	_, err = ts.Services.Notification.Subscribe(ctx, user.ID, "https://push.example.com/d1", newKeys)
	require.NoError(t, err)

	subs, err := ts.Repos.Subscription.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "rotated", subs[0].Keys.Data().P256dh)
}

func TestNotificationService_SubscriptionStatus(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	user := testutil.NewUserBuilder().Build(t, ts.Repos)
	keys := domain.SubscriptionKeys{P256dh: "p256dh", Auth: "auth"}

	subscribed, err := ts.Services.Notification.IsSubscribed(ctx, user.ID, "")
	require.NoError(t, err)
	assert.False(t, subscribed)

	_, err = ts.Services.Notification.Subscribe(ctx, user.ID, "https://push.example.com/d1", keys)
	require.NoError(t, err)

	subscribed, err = ts.Services.Notification.IsSubscribed(ctx, user.ID, "")
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = ts.Services.Notification.IsSubscribed(ctx, user.ID, "https://push.example.com/d1")
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = ts.Services.Notification.IsSubscribed(ctx, user.ID, "https://push.example.com/other")
	require.NoError(t, err)
	assert.False(t, subscribed)

	deleted, err := ts.Services.Notification.Unsubscribe(ctx, user.ID, "https://push.example.com/d1")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	deleted, err = ts.Services.Notification.Unsubscribe(ctx, user.ID, "https://push.example.com/d1")
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}

func TestNotificationService_NotifyCountsDeliveries(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	user := testutil.NewUserBuilder().Build(t, ts.Repos)

	sender := &fakeSender{fail: map[string]error{}}
	notifications := service.NewNotificationService(ts.Repos.Subscription, sender, ts.Hub)

	subscribe(t, ts, user.ID, "https://push.example.com/d1")
	subscribe(t, ts, user.ID, "https://push.example.com/d2")

	delivered, err := notifications.Notify(ctx, user.ID, "Hello", "Body", "/todos")
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Len(t, sender.sent(), 2)
}

func TestNotificationService_NilSender(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()
	user := testutil.NewUserBuilder().Build(t, ts.Repos)
	subscribe(t, ts, user.ID, "https://push.example.com/d1")

	// The default test server has push disabled; notifications still
	// succeed with zero deliveries.
	delivered, err := ts.Services.Notification.Notify(ctx, user.ID, "Hello", "Body", "/todos")
	require.NoError(t, err)
	assert.Equal(t, 0, delivered)
}
