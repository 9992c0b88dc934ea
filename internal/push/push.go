// Package push wraps the web-push transport. The rest of the system only
// sees Sender and the ErrSubscriptionGone signal used to prune dead
// endpoints.
package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
)

// ErrSubscriptionGone reports that the endpoint permanently rejected the
// delivery (HTTP 404/410) and the subscription must be deleted.
var ErrSubscriptionGone = errors.New("push subscription gone")

type Sender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error
}

// WebPushSender delivers payloads over the Web Push protocol with VAPID
// authentication.
type WebPushSender struct {
	publicKey  string
	privateKey string
	subject    string
}

func NewWebPushSender(publicKey, privateKey, subject string) (*WebPushSender, error) {
	if publicKey == "" || privateKey == "" {
		return nil, errors.New("missing VAPID keys")
	}
	return &WebPushSender{
		publicKey:  publicKey,
		privateKey: privateKey,
		subject:    subject,
	}, nil
}

func (s *WebPushSender) Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error {
	keys := sub.Keys.Data()
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: keys.P256dh,
			Auth:   keys.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             60,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return ErrSubscriptionGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
