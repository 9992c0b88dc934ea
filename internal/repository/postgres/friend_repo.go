package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) *friendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, friendship *domain.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *friendshipRepository) GetByPair(ctx context.Context, user1, user2 uuid.UUID) (*domain.Friendship, error) {
	var friendship domain.Friendship
	err := r.db.WithContext(ctx).
		First(&friendship, "user1 = ? AND user2 = ?", user1, user2).Error
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendshipRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Friendship, error) {
	var friendships []*domain.Friendship
	err := r.db.WithContext(ctx).Where("user1 = ?", userID).Find(&friendships).Error
	return friendships, err
}

func (r *friendshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Friendship{}, "id = ?", id).Error
}

type friendRequestRepository struct {
	db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) *friendRequestRepository {
	return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, request *domain.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FriendRequest, error) {
	var request domain.FriendRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *friendRequestRepository) GetByPair(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.FriendRequest, error) {
	var request domain.FriendRequest
	err := r.db.WithContext(ctx).
		First(&request, "sender_id = ? AND receiver_id = ?", senderID, receiverID).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *friendRequestRepository) GetByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*domain.FriendRequest, error) {
	var requests []*domain.FriendRequest
	err := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID).Find(&requests).Error
	return requests, err
}

func (r *friendRequestRepository) GetBySender(ctx context.Context, senderID uuid.UUID) ([]*domain.FriendRequest, error) {
	var requests []*domain.FriendRequest
	err := r.db.WithContext(ctx).Where("sender_id = ?", senderID).Find(&requests).Error
	return requests, err
}

func (r *friendRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FriendRequest{}, "id = ?", id).Error
}
