package domain

import "github.com/google/uuid"

// Friendship is one direction of a symmetric relationship. A mutual
// friendship is materialized as two rows (A→B and B→A) so lookups from
// either side hit an index.
type Friendship struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	User1 uuid.UUID `json:"user1" gorm:"type:uuid;index:idx_friendship_pair,unique;not null"`
	User2 uuid.UUID `json:"user2" gorm:"type:uuid;index:idx_friendship_pair,unique;index;not null"`
}

func (Friendship) TableName() string {
	return "friendships"
}

type FriendRequestStatus string

const (
	FriendRequestPending FriendRequestStatus = "pending"
)

// FriendRequest is a directed pending edge. At most one request may exist
// between any pair of users, in either direction, and never alongside an
// existing friendship.
type FriendRequest struct {
	ID         uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SenderID   uuid.UUID           `json:"senderId" gorm:"type:uuid;index;not null"`
	ReceiverID uuid.UUID           `json:"receiverId" gorm:"type:uuid;index;not null"`
	Status     FriendRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// PendingRequest is an incoming request with its sender resolved.
type PendingRequest struct {
	RequestID uuid.UUID           `json:"requestId"`
	Sender    *PublicProfile      `json:"sender"`
	Status    FriendRequestStatus `json:"status"`
}
