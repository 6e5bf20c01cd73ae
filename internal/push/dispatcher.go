package push

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

// Result summarizes one dispatch call. Recipients is the number of registered
// subscriptions at the time of the fetch; zero means the call was a no-op.
type Result struct {
	Recipients int `json:"recipients"`
	Delivered  int `json:"delivered"`
	Removed    int `json:"removed"`
	Failed     int `json:"failed"`
}

// NoRecipients reports whether the user had no registered endpoints.
func (r Result) NoRecipients() bool {
	return r.Recipients == 0
}

// Dispatcher fans one message out to every push endpoint a user has
// registered. Delivery attempts run concurrently and independently; the call
// returns once all of them have resolved. Individual delivery failures never
// propagate to the caller: transient ones are logged and dropped, permanent
// ones cause the stale subscription to be removed. Only a failure to fetch
// the subscription list is an error.
type Dispatcher struct {
	subs   repository.SubscriptionRepository
	sender Sender
	logger zerolog.Logger
}

func NewDispatcher(subs repository.SubscriptionRepository, sender Sender, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		subs:   subs,
		sender: sender,
		logger: logger.With().Str("component", "push_dispatcher").Logger(),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, userID, title, body, url string) (Result, error) {
	subs, err := d.subs.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, errors.Wrap(err, "fetch push subscriptions")
	}
	if len(subs) == 0 {
		return Result{}, nil
	}

	payload := NewPayload(title, body, url)
	outcomes := make([]Outcome, len(subs))

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub models.PushSubscription) {
			defer wg.Done()
			outcomes[i] = d.attempt(ctx, sub, payload)
		}(i, sub)
	}
	wg.Wait()

	result := Result{Recipients: len(subs)}
	for _, outcome := range outcomes {
		switch outcome {
		case Delivered:
			result.Delivered++
		case EndpointGone:
			result.Removed++
		default:
			result.Failed++
		}
	}

	d.logger.Info().
		Str("user_id", userID).
		Int("recipients", result.Recipients).
		Int("delivered", result.Delivered).
		Int("removed", result.Removed).
		Int("failed", result.Failed).
		Msg("dispatch complete")

	return result, nil
}

func (d *Dispatcher) attempt(ctx context.Context, sub models.PushSubscription, payload Payload) Outcome {
	outcome, err := d.sender.Send(ctx, sub, payload)
	switch outcome {
	case EndpointGone:
		// The endpoint is permanently dead; drop the registration so the next
		// dispatch skips it.
		if delErr := d.subs.DeleteByEndpoint(ctx, sub.UserID, sub.Endpoint); delErr != nil {
			d.logger.Error().
				Err(delErr).
				Str("user_id", sub.UserID).
				Msg("failed to remove expired subscription")
		} else {
			d.logger.Info().
				Str("user_id", sub.UserID).
				Msg("removed expired subscription")
		}
	case TransientFailure:
		d.logger.Warn().
			Err(err).
			Str("user_id", sub.UserID).
			Msg("push delivery failed")
	}
	return outcome
}
