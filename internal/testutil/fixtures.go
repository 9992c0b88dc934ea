package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email     string
	firstName string
	username  string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		username: fmt.Sprintf("testuser_%s", suffix),
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithFirstName(name string) *UserBuilder {
	b.firstName = name
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// Build creates the user directly in the store
func (b *UserBuilder) Build(t *testing.T, repos *repository.Repositories) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:        uuid.New(),
		Email:     b.email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if b.firstName != "" {
		user.FirstName = &b.firstName
	}
	if b.username != "" {
		user.Username = &b.username
	}

	if err := repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// Authenticate runs the email-code login flow against the services and
// returns the user plus an access token. The code is read back from the
// store rather than from mail.
func (b *UserBuilder) Authenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()
	ctx := context.Background()

	if err := ts.Services.Auth.SendCode(ctx, b.email); err != nil {
		t.Fatalf("failed to send code: %v", err)
	}
	code, err := ts.Repos.AuthCode.GetLatestByEmail(ctx, b.email)
	if err != nil {
		t.Fatalf("failed to read auth code: %v", err)
	}
	result, err := ts.Services.Auth.Verify(ctx, b.email, code.Code)
	if err != nil {
		t.Fatalf("failed to verify code: %v", err)
	}
	return result.User, result.AccessToken
}

// MakeFriends establishes a friendship by running the full request flow.
func MakeFriends(t *testing.T, ts *TestServer, a, b uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	request, err := ts.Services.Friend.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("failed to send friend request: %v", err)
	}
	if err := ts.Services.Friend.AcceptRequest(ctx, b, request.ID); err != nil {
		t.Fatalf("failed to accept friend request: %v", err)
	}
}

// DoJSON issues an authenticated JSON request against the test server.
func DoJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// DecodeJSON decodes and closes a response body.
func DecodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
