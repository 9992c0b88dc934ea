package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *subscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.PushSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *subscriptionRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	var subs []*domain.PushSubscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) GetByUserAndEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (*domain.PushSubscription, error) {
	var sub domain.PushSubscription
	err := r.db.WithContext(ctx).
		First(&sub, "user_id = ? AND endpoint = ?", userID, endpoint).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.PushSubscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PushSubscription{}, "id = ?", id).Error
}

func (r *subscriptionRepository) DeleteByUserAndEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (int, error) {
	res := r.db.WithContext(ctx).
		Delete(&domain.PushSubscription{}, "user_id = ? AND endpoint = ?", userID, endpoint)
	return int(res.RowsAffected), res.Error
}
