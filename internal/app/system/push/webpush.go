package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

var errSenderPanic = errors.New("push sender panicked")

// Config holds the VAPID credentials and delivery tuning.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subject is the contact for the push service, an email or https URL.
	Subject     string
	TTL         int
	Timeout     time.Duration
	Concurrency int
}

// Configured reports whether both VAPID keys are present.
func (c Config) Configured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// New returns a Web Push dispatcher, or Disabled when credentials are
// missing.
func New(cfg Config, logger *zap.Logger) Dispatcher {
	if !cfg.Configured() {
		logger.Info("push: VAPID keys not configured; push notifications disabled")
		return Disabled{}
	}
	sender := &WebPushSender{
		publicKey:  cfg.VAPIDPublicKey,
		privateKey: cfg.VAPIDPrivateKey,
		subscriber: strings.TrimPrefix(cfg.Subject, "mailto:"),
		ttl:        cfg.TTL,
		client:     &http.Client{},
	}
	return NewFanout(sender, cfg.Concurrency, cfg.Timeout, logger)
}

// WebPushSender sends encrypted payloads with VAPID authentication.
type WebPushSender struct {
	publicKey  string
	privateKey string
	subscriber string
	ttl        int
	client     *http.Client
}

// Send delivers payload to sub. Any non-2xx response is an error.
func (s *WebPushSender) Send(ctx context.Context, payload []byte, sub models.PushSubscription) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			Auth:   sub.Keys.Auth,
			P256dh: sub.Keys.P256dh,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      s.subscriber,
		TTL:             s.ttl,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
	})
	if err != nil {
		return 0, fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("push service responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
