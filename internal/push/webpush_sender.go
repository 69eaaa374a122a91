package push

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/phrazzld/noteflow-api/internal/config"
	"github.com/phrazzld/noteflow-api/internal/domain"
)

// WebPushSender delivers messages over the Web Push protocol with VAPID
// authentication.
type WebPushSender struct {
	cfg    config.PushConfig
	client *http.Client
	logger *slog.Logger
}

// NewWebPushSender creates a sender using the given VAPID configuration.
func NewWebPushSender(cfg config.PushConfig, logger *slog.Logger) (*WebPushSender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("VAPID key pair is required")
	}
	if cfg.VAPIDSubject == "" {
		return nil, fmt.Errorf("VAPID subject is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &WebPushSender{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger.With("component", "webpush_sender"),
	}, nil
}

// Send encrypts and posts the message to the subscription's push service
// endpoint, then classifies the response.
func (s *WebPushSender) Send(
	ctx context.Context,
	sub domain.PushSubscription,
	msg Message,
) (Outcome, error) {
	if err := msg.Validate(); err != nil {
		return OutcomeRejected, err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return OutcomeRejected, fmt.Errorf("failed to encode message: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.VAPIDSubject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTLSeconds,
	})
	if err != nil {
		// Network-level failure: DNS, connect, TLS, or context timeout.
		return OutcomeTransient, fmt.Errorf("push request failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	outcome := ClassifyStatus(resp.StatusCode)
	if outcome == OutcomeDelivered {
		return outcome, nil
	}
	return outcome, fmt.Errorf("push service responded with status %d", resp.StatusCode)
}

// ClassifyStatus maps a push service HTTP status to a delivery outcome.
// 404 and 410 mean the browser dropped the subscription; 429 and 5xx are
// worth retrying; any other non-2xx is a permanent rejection.
func ClassifyStatus(status int) Outcome {
	switch {
	case status >= 200 && status < 300:
		return OutcomeDelivered
	case status == http.StatusNotFound || status == http.StatusGone:
		return OutcomeExpired
	case status == http.StatusTooManyRequests || status >= 500:
		return OutcomeTransient
	default:
		return OutcomeRejected
	}
}

var _ Sender = (*WebPushSender)(nil)
