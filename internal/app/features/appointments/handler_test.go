package appointments_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/carehub/internal/app/features/appointments"
	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/push"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/dalemusser/carehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*appointments.Handler, docstore.Store, *testutil.RecordingPublisher) {
	t.Helper()
	logger := zap.NewNop()
	store := testutil.NewFileStore(t)
	pub := &testutil.RecordingPublisher{}
	notifier := notify.New(store, pub, push.Disabled{}, false, logger)
	return appointments.NewHandler(store, pub, notifier, logger), store, pub
}

func TestHandleCreate_EpochMillis(t *testing.T) {
	h, store, pub := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/appointments", map[string]any{
		"title": "Dentist", "time": 1735725600000, "forUser": "p1", "notes": "bring card",
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	doc := testutil.Snapshot(t, store)
	if len(doc.Appointments) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(doc.Appointments))
	}
	appt := doc.Appointments[0]
	if appt.Time != 1735725600000 || appt.Title != "Dentist" || appt.Notes != "bring card" {
		t.Errorf("unexpected appointment %+v", appt)
	}

	if len(doc.Notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(doc.Notifications))
	}
	n := doc.Notifications[0]
	if n.Type != models.NotificationAppointment || n.Appointment == nil || n.Appointment.ID != appt.ID {
		t.Errorf("unexpected notification %+v", n)
	}

	if pub.Count(realtime.EventAppointmentCreated) != 1 || pub.Count(realtime.EventNotification) != 1 {
		t.Errorf("unexpected events %v", pub.Events())
	}
}

func TestHandleCreate_RFC3339Time(t *testing.T) {
	h, store, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/appointments", map[string]any{
		"title": "Checkup", "time": "2025-01-01T10:00:00Z", "forUser": "p1",
	}))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	if got := testutil.Snapshot(t, store).Appointments[0].Time; got != 1735725600000 {
		t.Errorf("expected 1735725600000, got %d", got)
	}
}

func TestHandleCreate_MissingTime(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/appointments", map[string]any{"title": "X", "forUser": "p1"}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertContains(t, rec, "time")
}

func TestHandleCreate_BadTime(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleCreate(rec, testutil.JSONRequest(t, "POST", "/appointments", map[string]any{"title": "X", "time": "tomorrow", "forUser": "p1"}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleDelete(t *testing.T) {
	h, store, _ := newTestHandler(t)
	testutil.Seed(t, store, func(doc *models.Document) {
		doc.Appointments = append(doc.Appointments, models.Appointment{ID: "a1"}, models.Appointment{ID: "a2"})
	})

	req := testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/appointments/a1", nil), "id", "a1")
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	got := testutil.Snapshot(t, store).Appointments
	if len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("unexpected appointments %+v", got)
	}

	// Unknown id is not an error.
	req = testutil.WithChiURLParam(httptest.NewRequest("DELETE", "/appointments/nope", nil), "id", "nope")
	rec = httptest.NewRecorder()
	h.HandleDelete(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)
}
