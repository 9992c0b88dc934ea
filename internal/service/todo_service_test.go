package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodoService_CreateAndGet(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	stranger := testutil.NewUserBuilder().Build(t, ts.Repos)

	_, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{})
	assert.ErrorIs(t, err, domain.ErrTitleRequired)

	todo, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{Title: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, todo.UserID)
	assert.False(t, todo.IsCompleted())

	got, err := ts.Services.Todo.Get(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)

	_, err = ts.Services.Todo.Get(ctx, todo.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = ts.Services.Todo.Get(ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTodoService_Collaborators(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	friend := testutil.NewUserBuilder().Build(t, ts.Repos)
	stranger := testutil.NewUserBuilder().Build(t, ts.Repos)

	todo, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{Title: "Shared task"})
	require.NoError(t, err)

	// Sharing requires an existing friendship.
	err = ts.Services.Todo.AddCollaborator(ctx, todo.ID, friend.ID, owner.ID)
	assert.ErrorIs(t, err, domain.ErrNotFriends)

	testutil.MakeFriends(t, ts, owner.ID, friend.ID)

	// Only the owner may share.
	err = ts.Services.Todo.AddCollaborator(ctx, todo.ID, friend.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, friend.ID, owner.ID))
	// Sharing twice is a no-op.
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, friend.ID, owner.ID))

	allowed, err := ts.Services.Todo.HasAccess(ctx, todo.ID, friend.ID)
	require.NoError(t, err)
	assert.True(t, allowed)

	collaborators, err := ts.Services.Todo.ListCollaborators(ctx, todo.ID, friend.ID)
	require.NoError(t, err)
	require.Len(t, collaborators, 1)
	assert.Equal(t, friend.ID, collaborators[0].ID)

	_, err = ts.Services.Todo.ListCollaborators(ctx, todo.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, ts.Services.Todo.RemoveCollaborator(ctx, todo.ID, friend.ID, owner.ID))
	// Removing twice is a no-op.
	require.NoError(t, ts.Services.Todo.RemoveCollaborator(ctx, todo.ID, friend.ID, owner.ID))

	allowed, err = ts.Services.Todo.HasAccess(ctx, todo.ID, friend.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestTodoService_UpdatePatch(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	description := "the details"
	todo, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{
		Title:       "Original",
		Description: &description,
	})
	require.NoError(t, err)

	newTitle := "Renamed"
	updated, err := ts.Services.Todo.Update(ctx, todo.ID, owner.ID, domain.TodoPatch{
		Title: domain.PatchField[string]{Set: true, Value: &newTitle},
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	// Fields absent from the patch stay untouched.
	require.NotNil(t, updated.Description)
	assert.Equal(t, "the details", *updated.Description)

	// An explicit null clears the field.
	updated, err = ts.Services.Todo.Update(ctx, todo.ID, owner.ID, domain.TodoPatch{
		Description: domain.PatchField[string]{Set: true, Value: nil},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Description)

	// Completing through a patch stamps the acting user.
	now := time.Now()
	updated, err = ts.Services.Todo.Update(ctx, todo.ID, owner.ID, domain.TodoPatch{
		CompletedAt: domain.PatchField[time.Time]{Set: true, Value: &now},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedBy)
	assert.Equal(t, owner.ID, *updated.CompletedBy)

	_, err = ts.Services.Todo.Update(ctx, uuid.New(), owner.ID, domain.TodoPatch{
		Title: domain.PatchField[string]{Set: true, Value: &newTitle},
	})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestTodoService_Toggle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	collaborator := testutil.NewUserBuilder().Build(t, ts.Repos)
	testutil.MakeFriends(t, ts, owner.ID, collaborator.ID)

	todo, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{Title: "Toggle me"})
	require.NoError(t, err)
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, collaborator.ID, owner.ID))

	// The collaborator completes: they are stamped, not the owner.
	toggled, err := ts.Services.Todo.Toggle(ctx, todo.ID, collaborator.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsCompleted())
	require.NotNil(t, toggled.CompletedBy)
	assert.Equal(t, collaborator.ID, *toggled.CompletedBy)

	// Un-completing clears both fields.
	toggled, err = ts.Services.Todo.Toggle(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsCompleted())
	assert.Nil(t, toggled.CompletedAt)
	assert.Nil(t, toggled.CompletedBy)
}

func TestTodoService_ToggleMute_OwnerOnly(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	collaborator := testutil.NewUserBuilder().Build(t, ts.Repos)
	testutil.MakeFriends(t, ts, owner.ID, collaborator.ID)

	todo, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{Title: "Quiet down"})
	require.NoError(t, err)
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, collaborator.ID, owner.ID))

	muted, err := ts.Services.Todo.ToggleMute(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, muted.IsMuted)

	// Collaborators cannot mute, and are not told the task exists.
	_, err = ts.Services.Todo.ToggleMute(ctx, todo.ID, collaborator.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	unmuted, err := ts.Services.Todo.ToggleMute(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, unmuted.IsMuted)
}

func TestTodoService_Delete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	collaborator := testutil.NewUserBuilder().Build(t, ts.Repos)
	stranger := testutil.NewUserBuilder().Build(t, ts.Repos)
	testutil.MakeFriends(t, ts, owner.ID, collaborator.ID)

	todo, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{Title: "Doomed"})
	require.NoError(t, err)
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, collaborator.ID, owner.ID))

	_, err = ts.Services.Todo.Delete(ctx, todo.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// A collaborator deleting only leaves the task.
	left, err := ts.Services.Todo.Delete(ctx, todo.ID, collaborator.ID)
	require.NoError(t, err)
	assert.True(t, left)

	allowed, err := ts.Services.Todo.HasAccess(ctx, todo.ID, collaborator.ID)
	require.NoError(t, err)
	assert.False(t, allowed)

	_, err = ts.Services.Todo.Get(ctx, todo.ID, owner.ID)
	require.NoError(t, err)

	// The owner deleting removes the task and its memberships.
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, todo.ID, collaborator.ID, owner.ID))
	left, err = ts.Services.Todo.Delete(ctx, todo.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, left)

	_, err = ts.Services.Todo.Get(ctx, todo.ID, owner.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	allowed, err = ts.Services.Todo.HasAccess(ctx, todo.ID, collaborator.ID)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestTodoService_List(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner := testutil.NewUserBuilder().Build(t, ts.Repos)
	friend := testutil.NewUserBuilder().Build(t, ts.Repos)
	testutil.MakeFriends(t, ts, owner.ID, friend.ID)

	first, err := ts.Services.Todo.Create(ctx, owner.ID, service.CreateTodoInput{Title: "First"})
	require.NoError(t, err)
	shared, err := ts.Services.Todo.Create(ctx, friend.ID, service.CreateTodoInput{Title: "Shared"})
	require.NoError(t, err)
	require.NoError(t, ts.Services.Todo.AddCollaborator(ctx, shared.ID, owner.ID, friend.ID))

	todos, err := ts.Services.Todo.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, todos, 2)

	ids := []uuid.UUID{todos[0].ID, todos[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, shared.ID)

	// The friend only sees their own task once despite owning and listing it.
	todos, err = ts.Services.Todo.List(ctx, friend.ID)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, shared.ID, todos[0].ID)
}
