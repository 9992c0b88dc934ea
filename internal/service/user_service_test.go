package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user := testutil.NewUserBuilder().WithUsername("original").Build(t, ts.Repos)
	testutil.NewUserBuilder().WithUsername("taken").Build(t, ts.Repos)

	first := "Ada"
	updated, err := ts.Services.User.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		FirstName: &first,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Ada", *updated.FirstName)
	// Unspecified fields stay as they were.
	require.NotNil(t, updated.Username)
	assert.Equal(t, "original", *updated.Username)

	taken := "taken"
	_, err = ts.Services.User.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		Username: &taken,
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	// Re-submitting your own username is not a conflict.
	own := "original"
	_, err = ts.Services.User.UpdateProfile(ctx, user.ID, service.UpdateProfileInput{
		Username: &own,
	})
	require.NoError(t, err)

	_, err = ts.Services.User.UpdateProfile(ctx, uuid.New(), service.UpdateProfileInput{FirstName: &first})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_SearchUsers(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	me := testutil.NewUserBuilder().WithUsername("searcher").Build(t, ts.Repos)
	alice := testutil.NewUserBuilder().
		WithEmail("alice@example.com").
		WithUsername("wonderland").
		WithFirstName("Alice").
		Build(t, ts.Repos)
	bob := testutil.NewUserBuilder().
		WithEmail("bob@example.com").
		WithUsername("builder").
		Build(t, ts.Repos)

	tests := []struct {
		name    string
		keyword string
		wantIDs []uuid.UUID
	}{
		{name: "empty keyword matches nobody", keyword: "", wantIDs: nil},
		{name: "blank keyword matches nobody", keyword: "   ", wantIDs: nil},
		{name: "username substring", keyword: "wonder", wantIDs: []uuid.UUID{alice.ID}},
		{name: "email substring", keyword: "bob@", wantIDs: []uuid.UUID{bob.ID}},
		{name: "first name case insensitive", keyword: "aLiCe", wantIDs: []uuid.UUID{alice.ID}},
		{name: "shared substring matches both", keyword: "example.com", wantIDs: []uuid.UUID{alice.ID, bob.ID}},
		{name: "no match", keyword: "zzz", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := ts.Services.User.SearchUsers(ctx, me.ID, tt.keyword)
			require.NoError(t, err)

			gotIDs := make([]uuid.UUID, 0, len(results))
			for _, u := range results {
				gotIDs = append(gotIDs, u.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, gotIDs)
		})
	}

	// The acting user never appears in their own results.
	results, err := ts.Services.User.SearchUsers(ctx, me.ID, "searcher")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUserService_PublicProfileOmitsEmail(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user := testutil.NewUserBuilder().
		WithEmail("private@example.com").
		WithUsername("visible").
		Build(t, ts.Repos)

	profile, err := ts.Services.User.GetPublicProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	require.NotNil(t, profile.Username)
	assert.Equal(t, "visible", *profile.Username)

	_, err = ts.Services.User.GetPublicProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
