// Package push sends Web Push notifications to browser subscriptions and
// classifies delivery failures so callers can decide between retrying and
// pruning a dead subscription.
package push

import (
	"context"
	"errors"

	"github.com/phrazzld/noteflow-api/internal/domain"
)

// Outcome classifies the result of a single delivery attempt.
type Outcome string

const (
	// OutcomeDelivered means the push service accepted the message.
	OutcomeDelivered Outcome = "delivered"

	// OutcomeExpired means the subscription is permanently gone (the push
	// service answered 404 or 410) and should be removed from the registry.
	OutcomeExpired Outcome = "expired"

	// OutcomeTransient means the attempt failed for a reason that may
	// resolve on retry: rate limiting, a push service outage, or a
	// network-level error.
	OutcomeTransient Outcome = "transient"

	// OutcomeRejected means the push service refused the message for a
	// reason retrying will not fix, such as an oversized payload or bad
	// VAPID credentials. The subscription itself is kept.
	OutcomeRejected Outcome = "rejected"
)

// Common errors
var (
	ErrEmptyTitle = errors.New("notification title cannot be empty")
)

// Message is the notification payload shown on the subscriber's device.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Validate checks that the message can be displayed.
func (m Message) Validate() error {
	if m.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Sender delivers a message to a single subscription. The Outcome is
// meaningful even when err is non-nil; err carries detail for logging.
type Sender interface {
	Send(ctx context.Context, sub domain.PushSubscription, msg Message) (Outcome, error)
}
