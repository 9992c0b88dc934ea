// Package memory is an in-process implementation of the repository
// interfaces, used as a development fallback when no DATABASE_URL is
// configured and as the backing store for service tests. It is selected
// by dependency injection in main, never by ambient global state.
//
// Not-found lookups return gorm.ErrRecordNotFound so callers handle both
// backends with a single errors.Is check.
package memory

import (
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
)

func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(),
		Todo:          NewTodoRepository(),
		Friendship:    NewFriendshipRepository(),
		FriendRequest: NewFriendRequestRepository(),
		Collaborator:  NewCollaboratorRepository(),
		Subscription:  NewSubscriptionRepository(),
		AuthCode:      NewAuthCodeRepository(),
		RefreshToken:  NewRefreshTokenRepository(),
	}
}
