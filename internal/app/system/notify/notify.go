// Package notify is the notification path shared by handlers and the
// reminder scanner: persist the notification, publish it to realtime
// clients, then push it to subscribed browsers in the background.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/push"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Notifier emits notifications.
type Notifier struct {
	store     docstore.Store
	pub       realtime.Publisher
	push      push.Dispatcher
	pruneGone bool
	log       *zap.Logger

	wg sync.WaitGroup
}

// New creates a Notifier. With pruneGone set, subscriptions the push service
// reports as gone are removed from the document after each fan-out.
func New(store docstore.Store, pub realtime.Publisher, dispatcher push.Dispatcher, pruneGone bool, logger *zap.Logger) *Notifier {
	return &Notifier{
		store:     store,
		pub:       pub,
		push:      dispatcher,
		pruneGone: pruneGone,
		log:       logger,
	}
}

// Notify stores n, publishes the notification event, and starts the push
// fan-out without waiting for it. Missing ID and Time are filled in. The
// stored notification is returned.
func (n *Notifier) Notify(ctx context.Context, note models.Notification, recipients ...string) (models.Notification, error) {
	if note.ID == "" {
		note.ID = models.NewID()
	}
	if note.Time == 0 {
		note.Time = models.NowMillis()
	}

	var subs []models.PushSubscription
	err := n.store.Update(ctx, func(doc *models.Document) error {
		doc.Notifications = append(doc.Notifications, note)
		subs = append(subs, doc.WebpushSubscriptions...)
		return nil
	})
	if err != nil {
		return models.Notification{}, fmt.Errorf("store notification: %w", err)
	}

	n.pub.Publish(realtime.Message{
		Event:      realtime.EventNotification,
		Data:       realtime.NotificationEvent{Notification: note},
		Recipients: recipients,
	})

	n.dispatchAsync(note, subs)
	return note, nil
}

// Wait blocks until every background fan-out has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatchAsync(note models.Notification, subs []models.PushSubscription) {
	if len(subs) == 0 || !n.push.Enabled() {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		// Each delivery carries its own timeout inside the dispatcher, so the
		// fan-out as a whole is unbounded and every subscription is attempted.
		results := n.push.Dispatch(context.Background(), note, subs)
		n.handleResults(note, results)
	}()
}

func (n *Notifier) handleResults(note models.Notification, results []push.Result) {
	var failed int
	gone := make(map[string]struct{})
	for _, res := range results {
		if res.OK() {
			continue
		}
		failed++
		if res.Gone {
			gone[res.Endpoint] = struct{}{}
		}
		n.log.Warn("push delivery failed",
			zap.String("notification_id", note.ID),
			zap.String("endpoint", res.Endpoint),
			zap.Int("status", res.StatusCode),
			zap.Bool("gone", res.Gone),
			zap.Error(res.Err))
	}
	if len(results) > 0 {
		n.log.Debug("push fan-out finished",
			zap.String("notification_id", note.ID),
			zap.Int("attempted", len(results)),
			zap.Int("failed", failed))
	}

	if !n.pruneGone || len(gone) == 0 {
		return
	}
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Store(), n.log, "prune gone subscriptions")
	defer cancel()
	err := n.store.Update(ctx, func(doc *models.Document) error {
		kept := doc.WebpushSubscriptions[:0]
		for _, sub := range doc.WebpushSubscriptions {
			if _, ok := gone[sub.Endpoint]; !ok {
				kept = append(kept, sub)
			}
		}
		if len(kept) == len(doc.WebpushSubscriptions) {
			return docstore.ErrNoChange
		}
		doc.WebpushSubscriptions = kept
		return nil
	})
	if err != nil {
		n.log.Error("prune gone subscriptions failed", zap.Error(err))
		return
	}
	n.log.Info("pruned gone push subscriptions", zap.Int("count", len(gone)))
}
