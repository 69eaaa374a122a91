package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for PushSubscription
var (
	ErrEmptySubscriptionID     = errors.New("subscription ID cannot be empty")
	ErrEmptySubscriptionUserID = errors.New("subscription user ID cannot be empty")
	ErrEmptyEndpoint           = errors.New("subscription endpoint cannot be empty")
	ErrEmptyKeys               = errors.New("subscription key material cannot be empty")
)

// PushSubscription represents one browser/device push registration.
// The endpoint is unique registry-wide: registering an endpoint that already
// exists upserts it, regardless of owner.
type PushSubscription struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	Endpoint     string    `json:"endpoint"`
	P256dhKey    string    `json:"p256dh_key"`
	AuthKey      string    `json:"auth_key"`
	DeviceLabel  string    `json:"device_label,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// NewPushSubscription creates a new PushSubscription for the given user.
// Returns an error if validation fails.
func NewPushSubscription(userID uuid.UUID, endpoint, p256dh, auth, deviceLabel string) (*PushSubscription, error) {
	sub := &PushSubscription{
		ID:           uuid.New(),
		UserID:       userID,
		Endpoint:     endpoint,
		P256dhKey:    p256dh,
		AuthKey:      auth,
		DeviceLabel:  deviceLabel,
		RegisteredAt: time.Now().UTC(),
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}

	return sub, nil
}

// Validate checks if the PushSubscription has valid data.
func (s *PushSubscription) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySubscriptionID
	}

	if s.UserID == uuid.Nil {
		return ErrEmptySubscriptionUserID
	}

	if s.Endpoint == "" {
		return ErrEmptyEndpoint
	}

	if s.P256dhKey == "" || s.AuthKey == "" {
		return ErrEmptyKeys
	}

	return nil
}
