package push

import (
	"context"

	"github.com/prodexy/opsboard-api/internal/models"
)

// DefaultURL is where a notification lands when the producer gave no deep link.
const DefaultURL = "/dashboard"

const (
	defaultIcon  = "/icon-192.png"
	defaultBadge = "/icon-192.png"
)

// Payload is the JSON document handed to the push transport and ultimately
// rendered by the device's service worker.
type Payload struct {
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Icon  string      `json:"icon"`
	Badge string      `json:"badge"`
	Data  PayloadData `json:"data"`
}

type PayloadData struct {
	URL string `json:"url"`
}

// NewPayload builds a delivery payload, defaulting the deep link to the
// dashboard root.
func NewPayload(title, body, url string) Payload {
	if url == "" {
		url = DefaultURL
	}
	return Payload{
		Title: title,
		Body:  body,
		Icon:  defaultIcon,
		Badge: defaultBadge,
		Data:  PayloadData{URL: url},
	}
}

// Outcome classifies one delivery attempt.
type Outcome int

const (
	// Delivered means the push service accepted the message.
	Delivered Outcome = iota
	// TransientFailure covers network and service errors worth nothing more
	// than a log line. The subscription stays.
	TransientFailure
	// EndpointGone is the push service saying the endpoint will never accept
	// another delivery. The subscription must be removed.
	EndpointGone
)

func (o Outcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case TransientFailure:
		return "transient_failure"
	case EndpointGone:
		return "endpoint_gone"
	default:
		return "unknown"
	}
}

// Sender performs a single delivery attempt against one subscription.
type Sender interface {
	Send(ctx context.Context, sub models.PushSubscription, payload Payload) (Outcome, error)
}
