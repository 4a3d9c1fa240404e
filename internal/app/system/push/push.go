// Package push delivers notifications to browser push subscriptions.
//
// Delivery is a fan-out: every subscription is attempted independently and
// the caller gets one Result per subscription. Nothing is retried and no
// subscription is removed here; what to do with failures is the caller's
// decision.
package push

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/carehub/internal/app/system/metrics"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dispatcher delivers one notification to a set of subscriptions.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification, subs []models.PushSubscription) []Result
	Enabled() bool
}

// Sender performs a single delivery and reports the push service status.
type Sender interface {
	Send(ctx context.Context, payload []byte, sub models.PushSubscription) (status int, err error)
}

// Result is the outcome for one subscription.
type Result struct {
	Endpoint   string
	StatusCode int
	Err        error
	// Gone is set when the push service reports the subscription no longer
	// exists (404 or 410).
	Gone bool
}

// OK reports whether the delivery succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Envelope is the JSON payload the service worker receives.
type Envelope struct {
	Title string              `json:"title"`
	Body  string              `json:"body"`
	Data  models.Notification `json:"data"`
}

// Title returns the push title for a notification type.
func Title(notificationType string) string {
	switch notificationType {
	case models.NotificationSOS:
		return "SOS Alert"
	case models.NotificationMed:
		return "Medication"
	case models.NotificationJournal:
		return "New Journal Entry"
	case models.NotificationAppointment:
		return "Appointment"
	default:
		return "Notification"
	}
}

// BuildPayload encodes the envelope for n.
func BuildPayload(n models.Notification) ([]byte, error) {
	return json.Marshal(Envelope{Title: Title(n.Type), Body: n.Message, Data: n})
}

// Fanout delivers through a Sender with bounded concurrency.
type Fanout struct {
	sender  Sender
	limit   int
	timeout time.Duration
	log     *zap.Logger
}

// NewFanout returns a Fanout. limit <= 0 means unbounded; timeout <= 0 means
// each delivery only inherits the caller's deadline.
func NewFanout(sender Sender, limit int, timeout time.Duration, logger *zap.Logger) *Fanout {
	return &Fanout{sender: sender, limit: limit, timeout: timeout, log: logger}
}

// Enabled is always true for a Fanout.
func (f *Fanout) Enabled() bool { return true }

// Dispatch attempts every subscription and waits for all of them. Results are
// in subscription order. A failure never stops the other deliveries.
func (f *Fanout) Dispatch(ctx context.Context, n models.Notification, subs []models.PushSubscription) []Result {
	if len(subs) == 0 {
		return nil
	}

	results := make([]Result, len(subs))
	payload, err := BuildPayload(n)
	if err != nil {
		f.log.Error("push: encode payload failed", zap.String("notification_id", n.ID), zap.Error(err))
		for i, sub := range subs {
			results[i] = Result{Endpoint: sub.Endpoint, Err: err}
		}
		return results
	}

	var g errgroup.Group
	if f.limit > 0 {
		g.SetLimit(f.limit)
	}
	for i, sub := range subs {
		g.Go(func() error {
			results[i] = f.deliver(ctx, payload, sub)
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range results {
		switch {
		case res.OK():
			metrics.PushDeliveries.WithLabelValues("ok").Inc()
		case res.Gone:
			metrics.PushDeliveries.WithLabelValues("gone").Inc()
		default:
			metrics.PushDeliveries.WithLabelValues("failed").Inc()
		}
	}
	return results
}

func (f *Fanout) deliver(ctx context.Context, payload []byte, sub models.PushSubscription) (res Result) {
	res.Endpoint = sub.Endpoint
	defer func() {
		if p := recover(); p != nil {
			f.log.Error("push: sender panicked", zap.String("endpoint", sub.Endpoint), zap.Any("panic", p))
			res.Err = errSenderPanic
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	status, err := f.sender.Send(ctx, payload, sub)
	res.StatusCode = status
	res.Err = err
	res.Gone = status == http.StatusNotFound || status == http.StatusGone
	return res
}

// Disabled is the dispatcher used when push credentials are not configured.
// It delivers nothing and never fails.
type Disabled struct{}

// Dispatch returns no results.
func (Disabled) Dispatch(context.Context, models.Notification, []models.PushSubscription) []Result {
	return nil
}

// Enabled is always false.
func (Disabled) Enabled() bool { return false }
