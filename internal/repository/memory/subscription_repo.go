package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]domain.PushSubscription
}

func NewSubscriptionRepository() *subscriptionRepository {
	return &subscriptionRepository{subs: make(map[uuid.UUID]domain.PushSubscription)}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	r.subs[sub.ID] = *sub
	return nil
}

func (r *subscriptionRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var subs []*domain.PushSubscription
	for _, sub := range r.subs {
		if sub.UserID == userID {
			s := sub
			subs = append(subs, &s)
		}
	}
	return subs, nil
}

func (r *subscriptionRepository) GetByUserAndEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (*domain.PushSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, sub := range r.subs {
		if sub.UserID == userID && sub.Endpoint == endpoint {
			s := sub
			return &s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.subs[sub.ID] = *sub
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
	return nil
}

func (r *subscriptionRepository) DeleteByUserAndEndpoint(ctx context.Context, userID uuid.UUID, endpoint string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, sub := range r.subs {
		if sub.UserID == userID && sub.Endpoint == endpoint {
			delete(r.subs, id)
			removed++
		}
	}
	return removed, nil
}
