package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/carehub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "s", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestSignIn_ThenLoadSessionUser(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	err := sm.SignIn(rec, req, auth.SessionUser{ID: "u1", Name: "Ann", Email: "ann@example.com", Role: "caretaker"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var got *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req2 := httptest.NewRequest("GET", "/meds", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req2)

	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.ID != "u1" || got.Role != "caretaker" || got.Email != "ann@example.com" {
		t.Errorf("unexpected session user %+v", got)
	}
}

func TestLoadSessionUser_BadCookie_PassesThrough(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := auth.CurrentUser(r); ok {
			t.Error("expected no user for garbage cookie")
		}
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test-session", Value: "not-a-valid-cookie"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("expected next handler to run")
	}
}

func TestUserIDOr(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := auth.UserIDOr(req, "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}

	req = auth.WithTestUser(req, &auth.SessionUser{ID: "u9"})
	if got := auth.UserIDOr(req, "fallback"); got != "u9" {
		t.Errorf("expected u9, got %q", got)
	}
}
