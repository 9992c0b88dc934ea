package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	GetAll(ctx context.Context) ([]*domain.User, error)
}

type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Todo, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GetDue returns tasks with a due time inside [from, until] that are
	// not completed, optionally excluding already-notified tasks.
	GetDue(ctx context.Context, from, until time.Time, excludeNotified bool) ([]*domain.Todo, error)
}

type FriendshipRepository interface {
	Create(ctx context.Context, friendship *domain.Friendship) error
	GetByPair(ctx context.Context, user1, user2 uuid.UUID) (*domain.Friendship, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Friendship, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FriendRequestRepository interface {
	Create(ctx context.Context, request *domain.FriendRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.FriendRequest, error)
	GetByPair(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.FriendRequest, error)
	GetByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*domain.FriendRequest, error)
	GetBySender(ctx context.Context, senderID uuid.UUID) ([]*domain.FriendRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CollaboratorRepository interface {
	Create(ctx context.Context, collaborator *domain.TaskCollaborator) error
	GetByPair(ctx context.Context, taskID, userID uuid.UUID) (*domain.TaskCollaborator, error)
	GetByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskCollaborator, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskCollaborator, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByTask(ctx context.Context, taskID uuid.UUID) error
}

type PushSubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.PushSubscription) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)
	GetByUserAndEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (*domain.PushSubscription, error)
	Update(ctx context.Context, sub *domain.PushSubscription) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserAndEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (int, error)
}

type AuthCodeRepository interface {
	Create(ctx context.Context, code *domain.AuthCode) error
	GetByEmailAndCode(ctx context.Context, email, code string) (*domain.AuthCode, error)
	GetLatestByEmail(ctx context.Context, email string) (*domain.AuthCode, error)
	// Delete reports how many rows were removed so callers can tell
	// whether they actually consumed the code or lost a race to a
	// concurrent delete of the same row.
	Delete(ctx context.Context, id uuid.UUID) (int, error)
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.RefreshToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type Repositories struct {
	User          UserRepository
	Todo          TodoRepository
	Friendship    FriendshipRepository
	FriendRequest FriendRequestRepository
	Collaborator  CollaboratorRepository
	Subscription  PushSubscriptionRepository
	AuthCode      AuthCodeRepository
	RefreshToken  RefreshTokenRepository
}
