package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/domain"
)

// SubscriptionStore defines the interface for push subscription persistence.
// Endpoints are unique registry-wide; all mutating operations are idempotent
// so that concurrent register/remove on the same endpoint is last-write-wins.
type SubscriptionStore interface {
	// Upsert saves a subscription keyed by endpoint. If the endpoint already
	// exists, even under a different owner, the row is updated to the new
	// owner, keys and label, and the stored ID is retained.
	// Returns the persisted subscription.
	Upsert(ctx context.Context, sub *domain.PushSubscription) (*domain.PushSubscription, error)

	// ListByUser retrieves all subscriptions belonging to a user.
	// An empty result is not an error.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.PushSubscription, error)

	// DeleteByEndpoint removes a subscription by endpoint.
	// Deleting an absent endpoint is a no-op, not an error.
	DeleteByEndpoint(ctx context.Context, endpoint string) error

	// ListUserIDsWithSubscriptions returns the distinct IDs of users that
	// have at least one registered subscription.
	ListUserIDsWithSubscriptions(ctx context.Context) ([]uuid.UUID, error)
}
