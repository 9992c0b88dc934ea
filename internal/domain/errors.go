package domain

import "errors"

// Not-found errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrRequestNotFound = errors.New("friend request not found")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFriends   = errors.New("users are not friends")
)

// Conflict errors
var (
	ErrSelfRequest    = errors.New("cannot send a request to yourself")
	ErrAlreadyFriends = errors.New("users are already friends")
	ErrRequestExists  = errors.New("friend request already exists")
	ErrUsernameTaken  = errors.New("username is already taken")
)

// Validation errors
var (
	ErrInvalidCode         = errors.New("invalid or expired code")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidSubscription = errors.New("invalid subscription payload")
	ErrTitleRequired       = errors.New("title is required")
	ErrEmailRequired       = errors.New("email is required")
)
