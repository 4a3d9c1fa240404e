package accounts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/carehub/internal/app/features/accounts"
	accountstore "github.com/dalemusser/carehub/internal/app/store/accounts"
	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/ratelimit"
	"github.com/dalemusser/carehub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*accounts.Handler, docstore.Store) {
	t.Helper()
	logger := zap.NewNop()
	store := testutil.NewFileStore(t)
	sessionMgr, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return accounts.NewHandler(accountstore.New(store), sessionMgr, logger), store
}

func register(t *testing.T, h *accounts.Handler, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, testutil.JSONRequest(t, "POST", "/register", body))
	return rec
}

func TestHandleRegister_Created(t *testing.T) {
	h, store := newTestHandler(t)

	rec := register(t, h, map[string]string{"role": "caretaker", "name": "Cara", "email": "cara@example.com", "password": "pw"})
	testutil.AssertStatus(t, rec, http.StatusCreated)

	var resp map[string]string
	testutil.DecodeJSON(t, rec, &resp)
	if resp["id"] == "" || resp["message"] == "" {
		t.Errorf("expected message and id, got %v", resp)
	}

	doc := testutil.Snapshot(t, store)
	if len(doc.Users) != 1 || len(doc.Caretakers) != 1 {
		t.Errorf("expected 1 user and 1 caretaker, got %d and %d", len(doc.Users), len(doc.Caretakers))
	}
}

func TestHandleRegister_DuplicateEmail_Conflict(t *testing.T) {
	h, store := newTestHandler(t)
	body := map[string]string{"role": "patient", "name": "Pat", "email": "pat@example.com", "password": "pw"}

	testutil.AssertStatus(t, register(t, h, body), http.StatusCreated)
	before := len(testutil.Snapshot(t, store).Users)

	body["email"] = "PAT@example.com"
	rec := register(t, h, body)
	testutil.AssertStatus(t, rec, http.StatusConflict)

	if after := len(testutil.Snapshot(t, store).Users); after != before {
		t.Errorf("user count changed from %d to %d", before, after)
	}
}

func TestHandleRegister_MissingFields(t *testing.T) {
	h, store := newTestHandler(t)

	rec := register(t, h, map[string]string{"name": "NoEmail"})
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertContains(t, rec, "email")

	if n := len(testutil.Snapshot(t, store).Users); n != 0 {
		t.Errorf("expected no users, got %d", n)
	}
}

func TestHandleRegister_MalformedJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.HandleRegister(rec, testutil.JSONRequest(t, "POST", "/register", "{not json"))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleLogin_Success(t *testing.T) {
	h, _ := newTestHandler(t)
	register(t, h, map[string]string{"role": "patient", "name": "Pat", "email": "pat@example.com", "password": "pw"})

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{"email": "pat@example.com", "password": "pw"}))
	testutil.AssertStatus(t, rec, http.StatusOK)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["email"] != "pat@example.com" || resp["name"] != "Pat" {
		t.Errorf("unexpected user %v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Error("password must not be returned")
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected session cookie")
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	h, _ := newTestHandler(t)
	register(t, h, map[string]string{"role": "patient", "name": "Pat", "email": "pat@example.com", "password": "pw"})

	rec := httptest.NewRecorder()
	h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{"email": "pat@example.com", "password": "nope"}))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertContains(t, rec, "invalid credentials")
}

func TestHandleRegister_LongPassword(t *testing.T) {
	h, _ := newTestHandler(t)
	long := strings.Repeat("p", 100)

	rec := register(t, h, map[string]string{"role": "patient", "name": "Pat", "email": "pat@example.com", "password": long})
	testutil.AssertStatus(t, rec, http.StatusCreated)

	login := func(password string) int {
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, testutil.JSONRequest(t, "POST", "/login", map[string]string{"email": "pat@example.com", "password": password}))
		return rec.Code
	}
	if code := login(long); code != http.StatusOK {
		t.Errorf("login with long password = %d, want 200", code)
	}
	if code := login(long[:72]); code != http.StatusBadRequest {
		t.Errorf("login with 72-byte prefix = %d, want 400", code)
	}
}

func TestRoutes_RateLimited(t *testing.T) {
	h, _ := newTestHandler(t)
	h.Limiter = ratelimit.New(1, time.Minute)
	router := accounts.LoginRoutes(h)

	body := map[string]string{"email": "x@example.com", "password": "pw"}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.JSONRequest(t, "POST", "/", body))
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.JSONRequest(t, "POST", "/", body))
	testutil.AssertStatus(t, rec, http.StatusTooManyRequests)
}
