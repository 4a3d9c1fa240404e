package subscribe_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/carehub/internal/app/features/subscribe"
	"github.com/dalemusser/carehub/internal/testutil"
	"go.uber.org/zap"
)

func subscription(endpoint, auth string) map[string]any {
	return map[string]any{
		"endpoint":       endpoint,
		"expirationTime": nil,
		"keys":           map[string]string{"p256dh": "BPub", "auth": auth},
	}
}

func TestHandleSubscribe_AddsThenReplaces(t *testing.T) {
	store := testutil.NewFileStore(t)
	h := subscribe.NewHandler(store, "", zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, testutil.JSONRequest(t, "POST", "/subscribe", subscription("https://push.example/1", "a1")))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = httptest.NewRecorder()
	h.HandleSubscribe(rec, testutil.JSONRequest(t, "POST", "/subscribe", subscription("https://push.example/2", "a2")))
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = httptest.NewRecorder()
	h.HandleSubscribe(rec, testutil.JSONRequest(t, "POST", "/subscribe", subscription("https://push.example/1", "a1-new")))
	testutil.AssertStatus(t, rec, http.StatusOK)

	subs := testutil.Snapshot(t, store).WebpushSubscriptions
	if len(subs) != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", len(subs))
	}
	if subs[0].Endpoint != "https://push.example/1" || subs[0].Keys.Auth != "a1-new" {
		t.Errorf("expected first subscription replaced in place, got %+v", subs[0])
	}
}

func TestHandleSubscribe_MissingEndpoint(t *testing.T) {
	store := testutil.NewFileStore(t)
	h := subscribe.NewHandler(store, "", zap.NewNop())

	rec := httptest.NewRecorder()
	h.HandleSubscribe(rec, testutil.JSONRequest(t, "POST", "/subscribe", map[string]any{"keys": map[string]string{}}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeKey(t *testing.T) {
	h := subscribe.NewHandler(testutil.NewFileStore(t), "BKey", zap.NewNop())

	rec := httptest.NewRecorder()
	subscribe.Routes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/key", nil))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp map[string]any
	testutil.DecodeJSON(t, rec, &resp)
	if resp["publicKey"] != "BKey" || resp["enabled"] != true {
		t.Errorf("unexpected response %v", resp)
	}
}
