package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/repository"
	"github.com/nizar-zouaoui/my-todos-personal/internal/ws"
	"gorm.io/gorm"
)

// FriendService manages the request state machine. Per unordered pair
// (A,B), at most one of {pending A→B, pending B→A, friendship A↔B} holds
// at any time. Friendship is materialized as two directed rows; the two
// inserts are not transactional, so accept re-checks each direction
// before inserting and is safe to re-run.
type FriendService struct {
	userRepo       repository.UserRepository
	friendshipRepo repository.FriendshipRepository
	requestRepo    repository.FriendRequestRepository
	hub            *ws.Hub
}

func NewFriendService(userRepo repository.UserRepository, friendshipRepo repository.FriendshipRepository, requestRepo repository.FriendRequestRepository, hub *ws.Hub) *FriendService {
	return &FriendService{
		userRepo:       userRepo,
		friendshipRepo: friendshipRepo,
		requestRepo:    requestRepo,
		hub:            hub,
	}
}

func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.FriendRequest, error) {
	if senderID == receiverID {
		return nil, domain.ErrSelfRequest
	}
	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	friends, err := s.areFriends(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, domain.ErrAlreadyFriends
	}

	pending, err := s.hasPendingRequest(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrRequestExists
	}

	request := &domain.FriendRequest{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     domain.FriendRequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	if sender, err := s.userRepo.GetByID(ctx, senderID); err == nil {
		s.hub.Publish(receiverID, ws.NewEvent(ws.EventFriendRequest, map[string]interface{}{
			"requestId": request.ID,
			"sender":    sender.Public(),
		}))
	}
	return request, nil
}

// AcceptRequest inserts both friendship directions, re-checking each one
// so a partially applied earlier attempt converges, then deletes the
// request row.
func (s *FriendService) AcceptRequest(ctx context.Context, actingUserID, requestID uuid.UUID) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	if request.ReceiverID != actingUserID {
		return domain.ErrUnauthorized
	}

	if err := s.ensureEdge(ctx, request.SenderID, request.ReceiverID); err != nil {
		return err
	}
	if err := s.ensureEdge(ctx, request.ReceiverID, request.SenderID); err != nil {
		return err
	}

	if err := s.requestRepo.Delete(ctx, request.ID); err != nil {
		return err
	}

	if receiver, err := s.userRepo.GetByID(ctx, request.ReceiverID); err == nil {
		s.hub.Publish(request.SenderID, ws.NewEvent(ws.EventFriendAccepted, map[string]interface{}{
			"friend": receiver.Public(),
		}))
	}
	return nil
}

// DeclineRequest covers both rejection by the receiver and cancellation
// by the sender.
func (s *FriendService) DeclineRequest(ctx context.Context, actingUserID, requestID uuid.UUID) error {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRequestNotFound
		}
		return err
	}
	if request.ReceiverID != actingUserID && request.SenderID != actingUserID {
		return domain.ErrUnauthorized
	}
	return s.requestRepo.Delete(ctx, request.ID)
}

// RemoveFriend deletes both directions; removing a non-friend is a no-op,
// not an error.
func (s *FriendService) RemoveFriend(ctx context.Context, actingUserID, friendUserID uuid.UUID) error {
	if err := s.removeEdge(ctx, actingUserID, friendUserID); err != nil {
		return err
	}
	if err := s.removeEdge(ctx, friendUserID, actingUserID); err != nil {
		return err
	}
	s.hub.Publish(friendUserID, ws.NewEvent(ws.EventFriendRemoved, map[string]interface{}{
		"userId": actingUserID,
	}))
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]*domain.PublicProfile, error) {
	edges, err := s.friendshipRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends := []*domain.PublicProfile{}
	for _, edge := range edges {
		user, err := s.userRepo.GetByID(ctx, edge.User2)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // stale edge
			}
			return nil, err
		}
		friends = append(friends, user.Public())
	}
	return friends, nil
}

func (s *FriendService) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]*domain.PendingRequest, error) {
	requests, err := s.requestRepo.GetByReceiver(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending := []*domain.PendingRequest{}
	for _, request := range requests {
		sender, err := s.userRepo.GetByID(ctx, request.SenderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue // stale request
			}
			return nil, err
		}
		pending = append(pending, &domain.PendingRequest{
			RequestID: request.ID,
			Sender:    sender.Public(),
			Status:    request.Status,
		})
	}
	return pending, nil
}

func (s *FriendService) ListSentRequests(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	requests, err := s.requestRepo.GetBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	receivers := make([]uuid.UUID, 0, len(requests))
	for _, request := range requests {
		receivers = append(receivers, request.ReceiverID)
	}
	return receivers, nil
}

func (s *FriendService) areFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if _, err := s.friendshipRepo.GetByPair(ctx, a, b); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if _, err := s.friendshipRepo.GetByPair(ctx, b, a); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return false, nil
}

func (s *FriendService) hasPendingRequest(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if _, err := s.requestRepo.GetByPair(ctx, a, b); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if _, err := s.requestRepo.GetByPair(ctx, b, a); err == nil {
		return true, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	return false, nil
}

func (s *FriendService) ensureEdge(ctx context.Context, from, to uuid.UUID) error {
	_, err := s.friendshipRepo.GetByPair(ctx, from, to)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.friendshipRepo.Create(ctx, &domain.Friendship{
		ID:    uuid.New(),
		User1: from,
		User2: to,
	})
}

func (s *FriendService) removeEdge(ctx context.Context, from, to uuid.UUID) error {
	edge, err := s.friendshipRepo.GetByPair(ctx, from, to)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return s.friendshipRepo.Delete(ctx, edge.ID)
}
