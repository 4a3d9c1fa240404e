package socket_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/carehub/internal/app/features/locations"
	"github.com/dalemusser/carehub/internal/app/features/socket"
	"github.com/dalemusser/carehub/internal/app/features/sos"
	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/push"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/testutil"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*websocket.Conn, docstore.Store) {
	t.Helper()
	logger := zap.NewNop()
	store := testutil.NewFileStore(t)
	hub := realtime.NewHub(realtime.PolicyBroadcast, logger)
	notifier := notify.New(store, hub, push.Disabled{}, false, logger)
	h := socket.NewHandler(hub,
		locations.NewHandler(store, hub, logger),
		sos.NewHandler(hub, notifier, logger),
		logger)

	srv := httptest.NewServer(socket.Routes(h))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, store
}

func send(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteJSON(realtime.Envelope{Event: event, Data: raw}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func read(t *testing.T, conn *websocket.Conn) realtime.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env realtime.Envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestUpdateLocation_PersistsAndBroadcasts(t *testing.T) {
	conn, store := newTestServer(t)

	send(t, conn, realtime.EventUpdateLocation, map[string]any{"userId": "p1", "lat": 10.5, "lng": 20.25, "timestamp": 777})

	env := read(t, conn)
	if env.Event != realtime.EventLocationUpdate {
		t.Fatalf("expected locationUpdate, got %q", env.Event)
	}
	var got realtime.LocationUpdate
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UserID != "p1" || got.Lat != 10.5 || got.Time != 777 {
		t.Errorf("unexpected payload %+v", got)
	}

	hist := testutil.Snapshot(t, store).LocationHistory
	if len(hist) != 1 || hist[0].UserID != "p1" {
		t.Errorf("unexpected history %+v", hist)
	}
}

func TestSOS_OverSocket(t *testing.T) {
	conn, store := newTestServer(t)

	send(t, conn, realtime.EventSOS, map[string]any{"from": "p1", "name": "Pat", "time": 99})

	if env := read(t, conn); env.Event != realtime.EventSOS {
		t.Fatalf("expected sos, got %q", env.Event)
	}
	if env := read(t, conn); env.Event != realtime.EventNotification {
		t.Fatalf("expected notification, got %q", env.Event)
	}

	notes := testutil.Snapshot(t, store).Notifications
	if len(notes) != 1 || notes[0].From != "p1" || notes[0].Time != 99 {
		t.Errorf("unexpected notifications %+v", notes)
	}
}

func TestJournal_RelayedNotStored(t *testing.T) {
	conn, store := newTestServer(t)

	send(t, conn, realtime.EventJournal, map[string]any{"entry": map[string]string{"text": "hi"}, "author": "Cara"})

	env := read(t, conn)
	if env.Event != realtime.EventJournal {
		t.Fatalf("expected journal, got %q", env.Event)
	}
	if !strings.Contains(string(env.Data), `"author":"Cara"`) {
		t.Errorf("expected payload relayed unchanged, got %s", env.Data)
	}
	if n := len(testutil.Snapshot(t, store).Journals); n != 0 {
		t.Errorf("relay must not store journals, got %d", n)
	}
}

func TestMalformedUpdateLocation_Ignored(t *testing.T) {
	conn, store := newTestServer(t)

	send(t, conn, realtime.EventUpdateLocation, map[string]any{"lat": 1})
	// A relayed event after the bad one proves the connection is still served.
	send(t, conn, realtime.EventMedicationUpdate, map[string]any{"action": "taken"})

	env := read(t, conn)
	if env.Event != realtime.EventMedicationUpdate {
		t.Fatalf("expected medicationUpdate, got %q", env.Event)
	}
	if n := len(testutil.Snapshot(t, store).LocationHistory); n != 0 {
		t.Errorf("expected no locations, got %d", n)
	}
}
