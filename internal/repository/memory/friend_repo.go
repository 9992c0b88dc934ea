package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"gorm.io/gorm"
)

type friendshipRepository struct {
	mu    sync.RWMutex
	edges map[uuid.UUID]domain.Friendship
}

func NewFriendshipRepository() *friendshipRepository {
	return &friendshipRepository{edges: make(map[uuid.UUID]domain.Friendship)}
}

func (r *friendshipRepository) Create(ctx context.Context, friendship *domain.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if friendship.ID == uuid.Nil {
		friendship.ID = uuid.New()
	}
	r.edges[friendship.ID] = *friendship
	return nil
}

func (r *friendshipRepository) GetByPair(ctx context.Context, user1, user2 uuid.UUID) (*domain.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, edge := range r.edges {
		if edge.User1 == user1 && edge.User2 == user2 {
			e := edge
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *friendshipRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var edges []*domain.Friendship
	for _, edge := range r.edges {
		if edge.User1 == userID {
			e := edge
			edges = append(edges, &e)
		}
	}
	return edges, nil
}

func (r *friendshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.edges, id)
	return nil
}

type friendRequestRepository struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]domain.FriendRequest
}

func NewFriendRequestRepository() *friendRequestRepository {
	return &friendRequestRepository{requests: make(map[uuid.UUID]domain.FriendRequest)}
}

func (r *friendRequestRepository) Create(ctx context.Context, request *domain.FriendRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	r.requests[request.ID] = *request
	return nil
}

func (r *friendRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &request, nil
}

func (r *friendRequestRepository) GetByPair(ctx context.Context, senderID, receiverID uuid.UUID) (*domain.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, request := range r.requests {
		if request.SenderID == senderID && request.ReceiverID == receiverID {
			req := request
			return &req, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *friendRequestRepository) GetByReceiver(ctx context.Context, receiverID uuid.UUID) ([]*domain.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var requests []*domain.FriendRequest
	for _, request := range r.requests {
		if request.ReceiverID == receiverID {
			req := request
			requests = append(requests, &req)
		}
	}
	return requests, nil
}

func (r *friendRequestRepository) GetBySender(ctx context.Context, senderID uuid.UUID) ([]*domain.FriendRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var requests []*domain.FriendRequest
	for _, request := range r.requests {
		if request.SenderID == senderID {
			req := request
			requests = append(requests, &req)
		}
	}
	return requests, nil
}

func (r *friendRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, id)
	return nil
}
