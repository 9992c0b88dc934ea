package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
	"github.com/nizar-zouaoui/my-todos-personal/internal/testutil"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Health(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.BaseURL() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/todos/"), "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/todos/"), "garbage-token", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_TodoLifecycle(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().Authenticate(t, ts)

	// Missing title is a client error.
	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/todos/"), token, map[string]string{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/todos/"), token, map[string]string{
		"title": "Write tests",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID    uuid.UUID `json:"id"`
		Title string    `json:"title"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, "Write tests", created.Title)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/todos/"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// Patch the title, clear the description via explicit null.
	resp = testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/todos/"+created.ID.String()), token, map[string]interface{}{
		"title":       "Write better tests",
		"description": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var patched struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	testutil.DecodeJSON(t, resp, &patched)
	assert.Equal(t, "Write better tests", patched.Title)
	assert.Nil(t, patched.Description)

	// An empty patch is rejected.
	resp = testutil.DoJSON(t, http.MethodPatch, ts.APIURL("/todos/"+created.ID.String()), token, map[string]interface{}{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/todos/"+created.ID.String()+"/toggle"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var toggled struct {
		CompletedAt *time.Time `json:"completedAt"`
	}
	testutil.DecodeJSON(t, resp, &toggled)
	assert.NotNil(t, toggled.CompletedAt)

	resp = testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/todos/"+created.ID.String()), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var deleted struct {
		Left bool `json:"left"`
	}
	testutil.DecodeJSON(t, resp, &deleted)
	assert.False(t, deleted.Left)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/todos/"+created.ID.String()), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_ErrorMapping(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().Authenticate(t, ts)
	_, otherToken := testutil.NewUserBuilder().Authenticate(t, ts)

	// Unknown task is 404.
	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/todos/"+uuid.NewString()), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A task that exists but is not shared with the caller is 403.
	todo, err := ts.Services.Todo.Create(context.Background(), user.ID, service.CreateTodoInput{Title: "Private"})
	require.NoError(t, err)
	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/todos/"+todo.ID.String()), otherToken, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A friend request to yourself is a conflict.
	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/friends/requests/"), token, map[string]string{
		"receiverId": user.ID.String(),
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_FriendFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	alice, aliceToken := testutil.NewUserBuilder().WithFirstName("Alice").Authenticate(t, ts)
	bob, bobToken := testutil.NewUserBuilder().WithFirstName("Bob").Authenticate(t, ts)

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/friends/requests/"), aliceToken, map[string]string{
		"receiverId": bob.ID.String(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var request struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &request)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/friends/requests/"+request.ID.String()+"/accept"), bobToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/friends/"), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var friends []struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, bob.ID, friends[0].ID)

	resp = testutil.DoJSON(t, http.MethodDelete, ts.APIURL("/friends/"+alice.ID.String()), bobToken, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/friends/"), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &friends)
	assert.Empty(t, friends)
}

func TestRouter_ProfileAndSearch(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().Authenticate(t, ts)
	target, _ := testutil.NewUserBuilder().WithEmail("findme@example.com").Authenticate(t, ts)

	resp := testutil.DoJSON(t, http.MethodPut, ts.APIURL("/profile/"), token, map[string]string{
		"firstName": "Grace",
		"username":  "hopper",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		FirstName *string `json:"firstName"`
		Username  *string `json:"username"`
	}
	testutil.DecodeJSON(t, resp, &profile)
	require.NotNil(t, profile.FirstName)
	assert.Equal(t, "Grace", *profile.FirstName)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/search?q=findme"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results []struct {
		ID uuid.UUID `json:"id"`
	}
	testutil.DecodeJSON(t, resp, &results)
	require.Len(t, results, 1)
	assert.Equal(t, target.ID, results[0].ID)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/users/"+target.ID.String()+"/public"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var public map[string]interface{}
	testutil.DecodeJSON(t, resp, &public)
	// The public view never carries the email address.
	_, hasEmail := public["email"]
	assert.False(t, hasEmail)
}

func TestRouter_PushEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().Authenticate(t, ts)

	resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/push/status"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		Subscribed bool `json:"subscribed"`
	}
	testutil.DecodeJSON(t, resp, &status)
	assert.False(t, status.Subscribed)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/push/subscribe"), token, map[string]interface{}{
		"endpoint": "https://push.example.com/device",
		"keys":     map[string]string{"p256dh": "p", "auth": "a"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/push/status"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &status)
	assert.True(t, status.Subscribed)

	// Missing keys are rejected.
	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/push/subscribe"), token, map[string]interface{}{
		"endpoint": "https://push.example.com/device",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/push/unsubscribe"), token, map[string]string{
		"endpoint": "https://push.example.com/device",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var unsub struct {
		Deleted int `json:"deleted"`
	}
	testutil.DecodeJSON(t, resp, &unsub)
	assert.Equal(t, 1, unsub.Deleted)
}

func TestRouter_AuthEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	email := "http-login@example.com"

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/send-code"), "", map[string]string{
		"email": email,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/code-status?email="+email), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status struct {
		ExpiresAt *time.Time `json:"expiresAt"`
	}
	testutil.DecodeJSON(t, resp, &status)
	require.NotNil(t, status.ExpiresAt)

	code, err := ts.Repos.AuthCode.GetLatestByEmail(context.Background(), email)
	require.NoError(t, err)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/verify"), "", map[string]string{
		"email": email,
		"code":  code.Code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	testutil.DecodeJSON(t, resp, &tokens)
	require.NotEmpty(t, tokens.AccessToken)

	resp = testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/me"), tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Email string `json:"email"`
	}
	testutil.DecodeJSON(t, resp, &me)
	assert.Equal(t, email, me.Email)

	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/refresh"), "", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Wrong code is a client error.
	resp = testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/verify"), "", map[string]string{
		"email": email,
		"code":  "000000",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_WebSocketDeliversEvents(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().Authenticate(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(ts.WebSocketURL(token), nil)
	require.NoError(t, err)
	defer conn.Close()

	// The hub registers synchronously during the upgrade handler, but give
	// the handshake a moment to settle before publishing.
	require.Eventually(t, func() bool {
		return ts.Hub.Connected(user.ID) == 1
	}, time.Second, 10*time.Millisecond)

	_, err = ts.Services.Todo.Create(context.Background(), user.ID, service.CreateTodoInput{Title: "Live"})
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event ws.Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, ws.EventTodoCreated, event.Type)
}

func TestRouter_WebSocketRejectsBadToken(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(ts.WebSocketURL("bad-token"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
