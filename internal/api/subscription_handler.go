package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/noteflow-api/internal/api/shared"
	"github.com/phrazzld/noteflow-api/internal/fanout"
	"github.com/phrazzld/noteflow-api/internal/service"
)

// TestNotifier sends a test push notification to all of a user's devices.
// Satisfied by *fanout.Scheduler.
type TestNotifier interface {
	SendTest(ctx context.Context, userID uuid.UUID) (int, error)
}

// SubscriptionHandler handles push subscription API requests.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	notifier            TestNotifier
	validator           *validator.Validate
}

// NewSubscriptionHandler creates a new SubscriptionHandler with the given
// dependencies.
func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	notifier TestNotifier,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		notifier:            notifier,
		validator:           validator.New(),
	}
}

// Subscribe handles POST /api/notifications/subscribe requests. Registering an endpoint
// that already exists updates it in place, so a device that changed hands or
// refreshed its keys heals itself on the next registration.
func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req service.SubscriptionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	sub, err := h.subscriptionService.Register(r.Context(), userID, req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, subscriptionToResponse(sub))
}

// Unsubscribe handles POST /api/notifications/unsubscribe requests. Removing
// an endpoint that is already gone still succeeds.
func (h *SubscriptionHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	var req UnsubscribeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.subscriptionService.Unsubscribe(r.Context(), req.Endpoint); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/notifications/subscriptions requests.
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	subs, err := h.subscriptionService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, subscriptionsToResponse(subs))
}

// SendTest handles POST /api/notifications/test requests, pushing a test
// notification to every device the user has registered.
func (h *SubscriptionHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	sent, err := h.notifier.SendTest(r.Context(), userID)
	if err != nil {
		if errors.Is(err, fanout.ErrNoSubscriptions) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No push subscriptions registered")
			return
		}
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SendTestResponse{Sent: sent})
}
