package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/platform/logger"
	"github.com/phrazzld/noteflow-api/internal/store"
)

// PostgresSubscriptionStore implements the store.SubscriptionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubscriptionStore creates a new PostgreSQL implementation of the
// SubscriptionStore interface. If logger is nil, a default logger will be used.
func NewPostgresSubscriptionStore(db store.DBTX, logger *slog.Logger) *PostgresSubscriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "subscription_store")),
	}
}

// Ensure PostgresSubscriptionStore implements store.SubscriptionStore interface
var _ store.SubscriptionStore = (*PostgresSubscriptionStore)(nil)

// Upsert implements store.SubscriptionStore.Upsert
// The endpoint is the conflict key: re-registering an endpoint updates the
// owner, keys and label in place and keeps the original row ID, so a device
// that changed hands simply moves to its new account.
func (s *PostgresSubscriptionStore) Upsert(
	ctx context.Context,
	sub *domain.PushSubscription,
) (*domain.PushSubscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sub.Validate(); err != nil {
		log.Warn("subscription validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("subscription_id", sub.ID.String()))
		return nil, err
	}

	query := `
		INSERT INTO push_subscriptions (id, user_id, endpoint, p256dh_key, auth_key, device_label, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    p256dh_key = EXCLUDED.p256dh_key,
		    auth_key = EXCLUDED.auth_key,
		    device_label = EXCLUDED.device_label,
		    registered_at = EXCLUDED.registered_at
		RETURNING id, user_id, endpoint, p256dh_key, auth_key, device_label, registered_at
	`

	var saved domain.PushSubscription
	err := s.db.QueryRowContext(
		ctx,
		query,
		sub.ID,
		sub.UserID,
		sub.Endpoint,
		sub.P256dhKey,
		sub.AuthKey,
		sub.DeviceLabel,
		sub.RegisteredAt,
	).Scan(
		&saved.ID,
		&saved.UserID,
		&saved.Endpoint,
		&saved.P256dhKey,
		&saved.AuthKey,
		&saved.DeviceLabel,
		&saved.RegisteredAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during subscription upsert",
				slog.String("error", err.Error()),
				slog.String("user_id", sub.UserID.String()))
			return nil, store.ErrInvalidEntity
		}
		log.Error("failed to upsert subscription",
			slog.String("error", err.Error()),
			slog.String("user_id", sub.UserID.String()))
		return nil, err
	}

	log.Info("subscription upserted",
		slog.String("subscription_id", saved.ID.String()),
		slog.String("user_id", saved.UserID.String()))
	return &saved, nil
}

// ListByUser implements store.SubscriptionStore.ListByUser
func (s *PostgresSubscriptionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.PushSubscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, endpoint, p256dh_key, auth_key, device_label, registered_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY registered_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query subscriptions by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	subs := []*domain.PushSubscription{}
	for rows.Next() {
		var sub domain.PushSubscription
		err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&sub.Endpoint,
			&sub.P256dhKey,
			&sub.AuthKey,
			&sub.DeviceLabel,
			&sub.RegisteredAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subs, nil
}

// DeleteByEndpoint implements store.SubscriptionStore.DeleteByEndpoint
// Deleting an endpoint that is already gone is a no-op; the fanout pruner
// and an explicit unsubscribe may race on the same row.
func (s *PostgresSubscriptionStore) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM push_subscriptions WHERE endpoint = $1`,
		endpoint,
	)
	if err != nil {
		log.Error("failed to delete subscription",
			slog.String("error", err.Error()))
		return err
	}

	if rowsAffected, err := result.RowsAffected(); err == nil && rowsAffected > 0 {
		log.Info("subscription deleted")
	}
	return nil
}

// ListUserIDsWithSubscriptions implements store.SubscriptionStore.ListUserIDsWithSubscriptions
func (s *PostgresSubscriptionStore) ListUserIDsWithSubscriptions(
	ctx context.Context,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT user_id FROM push_subscriptions`,
	)
	if err != nil {
		log.Error("failed to query users with subscriptions",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	userIDs := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return userIDs, nil
}
