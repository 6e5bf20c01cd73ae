package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
	"github.com/prodexy/opsboard-api/internal/config"
	"github.com/prodexy/opsboard-api/internal/models"
)

// WebPushSender delivers payloads over the Web Push protocol, signing each
// request with the server's VAPID key pair. With an empty key pair every
// attempt fails at the transport layer, which effectively disables push
// without any special casing here.
type WebPushSender struct {
	subscriber      string
	vapidPublicKey  string
	vapidPrivateKey string
	ttl             int
}

func NewWebPushSender(cfg config.PushConfig) *WebPushSender {
	return &WebPushSender{
		subscriber:      cfg.Subscriber,
		vapidPublicKey:  cfg.VAPIDPublicKey,
		vapidPrivateKey: cfg.VAPIDPrivateKey,
		ttl:             cfg.TTL,
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub models.PushSubscription, payload Payload) (Outcome, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return TransientFailure, errors.Wrap(err, "marshal push payload")
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return TransientFailure, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		return EndpointGone, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return Delivered, nil
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return TransientFailure, fmt.Errorf("push service returned %d: %s", resp.StatusCode, detail)
	}
}
