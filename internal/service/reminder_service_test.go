package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/config"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/push"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeSender records deliveries instead of hitting push endpoints.
type fakeSender struct {
	mu    sync.Mutex
	sends []string // endpoints, in send order
	fail  map[string]error
}

func (f *fakeSender) Send(_ context.Context, sub *domain.PushSubscription, _ []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[sub.Endpoint]; ok {
		return err
	}
	f.sends = append(f.sends, sub.Endpoint)
	return nil
}

func (f *fakeSender) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sends...)
}

func newReminderFixture(t *testing.T, mode config.ReminderMode) (*testutil.TestServer, *service.ReminderService, *fakeSender) {
	t.Helper()

	ts := testutil.NewTestServer(t)
	sender := &fakeSender{fail: map[string]error{}}
	cfg := testutil.TestConfig()
	cfg.ReminderMode = mode

	notifications := service.NewNotificationService(ts.Repos.Subscription, sender, ts.Hub)
	reminders := service.NewReminderService(ts.Repos.Todo, ts.Repos.Subscription, notifications, cfg)
	return ts, reminders, sender
}

func subscribe(t *testing.T, ts *testutil.TestServer, userID uuid.UUID, endpoint string) {
	t.Helper()
	err := ts.Repos.Subscription.Create(context.Background(), &domain.PushSubscription{
		ID:       uuid.New(),
		UserID:   userID,
		Endpoint: endpoint,
		Keys:     datatypes.NewJSONType(domain.SubscriptionKeys{P256dh: "p256dh", Auth: "auth"}),
	})
	require.NoError(t, err)
}

func createDueTodo(t *testing.T, ts *testutil.TestServer, ownerID uuid.UUID, title string, dueIn time.Duration) *domain.Todo {
	t.Helper()
	due := time.Now().Add(dueIn)
	todo, err := ts.Services.Todo.Create(context.Background(), ownerID, service.CreateTodoInput{
		Title:     title,
		ExpiresAt: &due,
	})
	require.NoError(t, err)
	return todo
}

func TestReminderService_Window(t *testing.T) {
	ts, reminders, sender := newReminderFixture(t, config.ReminderOnce)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	subscribe(t, ts, owner.ID, "https://push.example.com/device-1")

	createDueTodo(t, ts, owner.ID, "due soon", time.Hour)
	createDueTodo(t, ts, owner.ID, "due at edge", 47*time.Hour)
	createDueTodo(t, ts, owner.ID, "too far out", 49*time.Hour)
	createDueTodo(t, ts, owner.ID, "already overdue", -time.Hour)

	completed := createDueTodo(t, ts, owner.ID, "done already", 2*time.Hour)
	_, err := ts.Services.Todo.Toggle(ctx, completed.ID, owner.ID)
	require.NoError(t, err)

	processed, err := reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Len(t, sender.sent(), 2)
}

func TestReminderService_MutedSkipped(t *testing.T) {
	ts, reminders, sender := newReminderFixture(t, config.ReminderOnce)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	subscribe(t, ts, owner.ID, "https://push.example.com/device-1")

	muted := createDueTodo(t, ts, owner.ID, "muted task", time.Hour)
	_, err := ts.Services.Todo.ToggleMute(ctx, muted.ID, owner.ID)
	require.NoError(t, err)

	// A due task whose owner never registered a device is skipped too.
	deviceless := testutil.NewUserBuilder().Build(t, ts.Repos)
	createDueTodo(t, ts, deviceless.ID, "no device", time.Hour)

	// Neither skipped task counts toward the dispatched total.
	processed, err := reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Empty(t, sender.sent())
}

func TestReminderService_OwnerDevicesOnly(t *testing.T) {
	ts, reminders, sender := newReminderFixture(t, config.ReminderOnce)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	collaborator := testutil.NewUserBuilder().Build(t, ts.Repos)
	testutil.MakeFriends(t, ts, owner.ID, collaborator.ID)
	subscribe(t, ts, owner.ID, "https://push.example.com/owner")
	subscribe(t, ts, collaborator.ID, "https://push.example.com/collaborator")

	todo := createDueTodo(t, ts, owner.ID, "shared and due", time.Hour)
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, collaborator.ID, owner.ID))

	processed, err := reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, []string{"https://push.example.com/owner"}, sender.sent())
}

func TestReminderService_OnceMode(t *testing.T) {
	ts, reminders, sender := newReminderFixture(t, config.ReminderOnce)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	subscribe(t, ts, owner.ID, "https://push.example.com/device-1")
	createDueTodo(t, ts, owner.ID, "announce once", time.Hour)

	processed, err := reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Len(t, sender.sent(), 1)

	processed, err = reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.Len(t, sender.sent(), 1)
}

func TestReminderService_RepeatMode(t *testing.T) {
	ts, reminders, sender := newReminderFixture(t, config.ReminderRepeat)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	subscribe(t, ts, owner.ID, "https://push.example.com/device-1")
	createDueTodo(t, ts, owner.ID, "keep announcing", time.Hour)

	_, err := reminders.ProcessDue(ctx)
	require.NoError(t, err)
	_, err = reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Len(t, sender.sent(), 2)
}

func TestReminderService_PrunesGoneSubscriptions(t *testing.T) {
	ts, reminders, sender := newReminderFixture(t, config.ReminderRepeat)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	subscribe(t, ts, owner.ID, "https://push.example.com/stale")
	sender.fail["https://push.example.com/stale"] = push.ErrSubscriptionGone

	createDueTodo(t, ts, owner.ID, "dead device", time.Hour)

	_, err := reminders.ProcessDue(ctx)
	require.NoError(t, err)

	subs, err := ts.Repos.Subscription.GetByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)

	// With the stale endpoint pruned, the next sweep has nothing to send.
	_, err = reminders.ProcessDue(ctx)
	require.NoError(t, err)
	assert.Empty(t, sender.sent())
}
