package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubscriptionKeys is the browser-supplied encryption key material for a
// push endpoint.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

func (k SubscriptionKeys) Valid() bool {
	return k.P256dh != "" && k.Auth != ""
}

// PushSubscription is one registered browser/device endpoint for a user,
// keyed by (user, endpoint).
type PushSubscription struct {
	ID        uuid.UUID                            `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID                            `json:"userId" gorm:"type:uuid;index:idx_subscription_pair,unique;not null"`
	Endpoint  string                               `json:"endpoint" gorm:"index:idx_subscription_pair,unique;not null"`
	Keys      datatypes.JSONType[SubscriptionKeys] `json:"keys" gorm:"type:jsonb"`
	CreatedAt time.Time                            `json:"createdAt"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}

// NotificationPayload is the JSON body delivered to the service worker.
type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}
