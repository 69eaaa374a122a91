package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/store"
)

// SubscriptionRequest is the payload a client sends when registering a
// device for push notifications. The shape follows the browser
// PushSubscription JSON: an endpoint plus the two encryption keys.
type SubscriptionRequest struct {
	Endpoint    string `json:"endpoint"     validate:"required,url"`
	P256dhKey   string `json:"p256dh_key"   validate:"required"`
	AuthKey     string `json:"auth_key"     validate:"required"`
	DeviceLabel string `json:"device_label" validate:"omitempty,max=100"`
}

// SubscriptionService manages the push subscription registry.
type SubscriptionService interface {
	// Register upserts a subscription keyed by endpoint. Re-registering an
	// existing endpoint, even from a different account, updates the stored
	// row rather than creating a duplicate.
	Register(ctx context.Context, userID uuid.UUID, req SubscriptionRequest) (*domain.PushSubscription, error)

	// List returns all of the user's registered devices.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)

	// Unsubscribe removes a subscription by endpoint. Removing an unknown
	// endpoint is a no-op.
	Unsubscribe(ctx context.Context, endpoint string) error
}

// subscriptionServiceImpl implements the SubscriptionService interface
type subscriptionServiceImpl struct {
	subs     store.SubscriptionStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(
	subs store.SubscriptionStore,
	logger *slog.Logger,
) (SubscriptionService, error) {
	if subs == nil {
		return nil, errors.New("subscription store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &subscriptionServiceImpl{
		subs:     subs,
		validate: validator.New(),
		logger:   logger.With("component", "subscription_service"),
	}, nil
}

func (s *subscriptionServiceImpl) Register(
	ctx context.Context,
	userID uuid.UUID,
	req SubscriptionRequest,
) (*domain.PushSubscription, error) {
	if err := s.validate.Struct(req); err != nil {
		// Malformed key material never reaches the registry.
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	sub, err := domain.NewPushSubscription(
		userID,
		req.Endpoint,
		req.P256dhKey,
		req.AuthKey,
		req.DeviceLabel,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	stored, err := s.subs.Upsert(ctx, sub)
	if err != nil {
		s.logger.Error("failed to register subscription",
			"error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to register subscription: %w", err)
	}

	s.logger.Info("push subscription registered",
		"subscription_id", stored.ID,
		"user_id", userID,
		"device_label", stored.DeviceLabel)
	return stored, nil
}

func (s *subscriptionServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PushSubscription, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list subscriptions", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *subscriptionServiceImpl) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", domain.ErrValidation)
	}

	if err := s.subs.DeleteByEndpoint(ctx, endpoint); err != nil {
		s.logger.Error("failed to unsubscribe", "error", err)
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.logger.Info("push subscription removed")
	return nil
}
