package notify_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/push"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/dalemusser/carehub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func seedSubs(t *testing.T, store interface {
	Update(context.Context, func(*models.Document) error) error
}, endpoints ...string) {
	t.Helper()
	err := store.Update(context.Background(), func(doc *models.Document) error {
		for _, e := range endpoints {
			doc.WebpushSubscriptions = append(doc.WebpushSubscriptions, models.PushSubscription{Endpoint: e})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestNotify_PersistsPublishesAndPushes(t *testing.T) {
	store := testutil.NewFileStore(t)
	seedSubs(t, store, "https://push.example/a", "https://push.example/b")
	pub := &testutil.RecordingPublisher{}
	sender := &testutil.FakeSender{Status: map[string]int{"https://push.example/a": 500}}
	n := notify.New(store, pub, push.NewFanout(sender, 0, time.Second, zap.NewNop()), false, zap.NewNop())

	note, err := n.Notify(context.Background(), models.Notification{Type: models.NotificationSOS, Message: "SOS from Pat", From: "p1"}, "c1")
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	n.Wait()

	if note.ID == "" || note.Time == 0 || note.Read {
		t.Errorf("returned notification = %+v, want id, time and read=false", note)
	}

	doc := testutil.Snapshot(t, store)
	if len(doc.Notifications) != 1 || doc.Notifications[0].ID != note.ID {
		t.Fatalf("stored notifications = %+v", doc.Notifications)
	}

	msgs := pub.Messages()
	if len(msgs) != 1 || msgs[0].Event != realtime.EventNotification {
		t.Fatalf("published = %v", pub.Events())
	}
	if len(msgs[0].Recipients) != 1 || msgs[0].Recipients[0] != "c1" {
		t.Errorf("recipients = %v, want [c1]", msgs[0].Recipients)
	}

	calls := sender.Calls()
	sort.Strings(calls)
	if len(calls) != 2 {
		t.Errorf("push calls = %v, want both subscriptions despite one failing", calls)
	}
	// Failures are not pruned without pruneGone.
	if got := len(testutil.Snapshot(t, store).WebpushSubscriptions); got != 2 {
		t.Errorf("subscriptions = %d, want 2", got)
	}
}

func TestNotify_KeepsGivenIDAndTime(t *testing.T) {
	store := testutil.NewFileStore(t)
	n := notify.New(store, &testutil.RecordingPublisher{}, push.Disabled{}, false, zap.NewNop())

	note, err := n.Notify(context.Background(), models.Notification{ID: "fixed", Time: 123, Type: models.NotificationMed})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if note.ID != "fixed" || note.Time != 123 {
		t.Errorf("notification = %+v", note)
	}
}

func TestNotify_PrunesGoneSubscriptions(t *testing.T) {
	store := testutil.NewFileStore(t)
	seedSubs(t, store, "https://push.example/keep", "https://push.example/gone", "https://push.example/fail")
	sender := &testutil.FakeSender{Status: map[string]int{
		"https://push.example/gone": 410,
		"https://push.example/fail": 500,
	}}
	n := notify.New(store, &testutil.RecordingPublisher{}, push.NewFanout(sender, 0, time.Second, zap.NewNop()), true, zap.NewNop())

	if _, err := n.Notify(context.Background(), models.Notification{Type: models.NotificationJournal}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	n.Wait()

	var got []string
	for _, s := range testutil.Snapshot(t, store).WebpushSubscriptions {
		got = append(got, s.Endpoint)
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "https://push.example/fail" || got[1] != "https://push.example/keep" {
		t.Errorf("subscriptions after prune = %v, want fail and keep", got)
	}
}

func TestNotify_DisabledPushSkipsFanout(t *testing.T) {
	store := testutil.NewFileStore(t)
	seedSubs(t, store, "https://push.example/a")
	n := notify.New(store, &testutil.RecordingPublisher{}, push.Disabled{}, true, zap.NewNop())

	if _, err := n.Notify(context.Background(), models.Notification{Type: models.NotificationSOS}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	n.Wait()

	if got := len(testutil.Snapshot(t, store).WebpushSubscriptions); got != 1 {
		t.Errorf("subscriptions = %d, want 1", got)
	}
}

func TestNotify_StoreFailure(t *testing.T) {
	store := testutil.NewFileStore(t)
	pub := &testutil.RecordingPublisher{}
	n := notify.New(store, pub, push.Disabled{}, false, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := n.Notify(ctx, models.Notification{Type: models.NotificationSOS}); err == nil {
		t.Fatal("Notify with canceled context = nil error")
	}
	if len(pub.Messages()) != 0 {
		t.Errorf("published %v after store failure", pub.Events())
	}
}

// deadlineDispatcher records whether the fan-out context carried a deadline.
type deadlineDispatcher struct {
	hadDeadline chan bool
}

func (d deadlineDispatcher) Enabled() bool { return true }

func (d deadlineDispatcher) Dispatch(ctx context.Context, _ models.Notification, _ []models.PushSubscription) []push.Result {
	_, ok := ctx.Deadline()
	d.hadDeadline <- ok
	return nil
}

func TestNotify_FanoutHasNoOverallDeadline(t *testing.T) {
	store := testutil.NewFileStore(t)
	seedSubs(t, store, "https://push.example/a")
	d := deadlineDispatcher{hadDeadline: make(chan bool, 1)}
	n := notify.New(store, &testutil.RecordingPublisher{}, d, false, zap.NewNop())

	if _, err := n.Notify(context.Background(), models.Notification{Type: models.NotificationSOS}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	n.Wait()

	if <-d.hadDeadline {
		t.Error("fan-out context has a deadline; slow deliveries could starve queued subscriptions")
	}
}

func TestNotify_SlowEndpointsAllDelivered(t *testing.T) {
	store := testutil.NewFileStore(t)
	var endpoints []string
	for i := 0; i < 5; i++ {
		endpoints = append(endpoints, fmt.Sprintf("https://push.example/%d", i))
	}
	seedSubs(t, store, endpoints...)

	core, logs := observer.New(zap.WarnLevel)
	sender := &testutil.FakeSender{Delay: 40 * time.Millisecond}
	n := notify.New(store, &testutil.RecordingPublisher{}, push.NewFanout(sender, 1, 500*time.Millisecond, zap.NewNop()), false, zap.New(core))

	if _, err := n.Notify(context.Background(), models.Notification{Type: models.NotificationSOS}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	n.Wait()

	if got := len(sender.Calls()); got != 5 {
		t.Errorf("push calls = %d, want 5", got)
	}
	if failed := logs.FilterMessage("push delivery failed").Len(); failed != 0 {
		t.Errorf("failed deliveries = %d, want 0", failed)
	}
}
