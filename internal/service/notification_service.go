package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/push"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService owns every outbound notification: web-push to a
// user's registered devices plus a live event to their open sockets.
// Push is background delivery; no failure here is ever surfaced to the
// user that triggered it.
type NotificationService struct {
	subRepo repository.PushSubscriptionRepository
	sender  push.Sender // nil disables web-push
	hub     *ws.Hub
}

func NewNotificationService(subRepo repository.PushSubscriptionRepository, sender push.Sender, hub *ws.Hub) *NotificationService {
	return &NotificationService{
		subRepo: subRepo,
		sender:  sender,
		hub:     hub,
	}
}

// Notify delivers a notification to every device and socket of one user.
// Returns the number of push deliveries that succeeded.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, title, body, url string) (int, error) {
	payload := domain.NotificationPayload{Title: title, Body: body, URL: url}
	s.hub.Publish(userID, ws.NewEvent(ws.EventNotification, payload))

	if s.sender == nil {
		return 0, nil
	}
	subs, err := s.subRepo.GetByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.Dispatch(ctx, subs, payload), nil
}

// Dispatch sends one payload to each subscription concurrently. A gone
// endpoint is pruned permanently; any other failure is logged and the
// rest of the batch continues. No retries within a run.
func (s *NotificationService) Dispatch(ctx context.Context, subs []*domain.PushSubscription, payload domain.NotificationPayload) int {
	if s.sender == nil || len(subs) == 0 {
		return 0
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR [notification.Dispatch] failed to marshal payload: %v", err)
		return 0
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		delivered int
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *domain.PushSubscription) {
			defer wg.Done()
			err := s.sender.Send(ctx, sub, data)
			switch {
			case err == nil:
				mu.Lock()
				delivered++
				mu.Unlock()
			case errors.Is(err, push.ErrSubscriptionGone):
				if err := s.subRepo.Delete(ctx, sub.ID); err != nil {
					log.Printf("ERROR [notification.Dispatch] failed to prune subscription %s: %v", sub.ID, err)
				}
			default:
				log.Printf("ERROR [notification.Dispatch] push send failed for %s: %v", sub.Endpoint, err)
			}
		}(sub)
	}
	wg.Wait()
	return delivered
}

// Subscribe registers or refreshes a device endpoint for the user.
func (s *NotificationService) Subscribe(ctx context.Context, userID uuid.UUID, endpoint string, keys domain.SubscriptionKeys) (*domain.PushSubscription, error) {
	if endpoint == "" || !keys.Valid() {
		return nil, domain.ErrInvalidSubscription
	}

	existing, err := s.subRepo.GetByUserAndEndpoint(ctx, userID, endpoint)
	if err == nil {
		existing.Keys = datatypes.NewJSONType(keys)
		if err := s.subRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub := &domain.PushSubscription{
		ID:       uuid.New(),
		UserID:   userID,
		Endpoint: endpoint,
		Keys:     datatypes.NewJSONType(keys),
	}
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe removes every subscription matching the endpoint and
// reports how many were deleted.
func (s *NotificationService) Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) (int, error) {
	return s.subRepo.DeleteByUserAndEndpoint(ctx, userID, endpoint)
}

// IsSubscribed reports whether the user has any subscription, or one for
// the specific endpoint when given.
func (s *NotificationService) IsSubscribed(ctx context.Context, userID uuid.UUID, endpoint string) (bool, error) {
	if endpoint != "" {
		_, err := s.subRepo.GetByUserAndEndpoint(ctx, userID, endpoint)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	subs, err := s.subRepo.GetByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return len(subs) > 0, nil
}
