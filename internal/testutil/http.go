package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// TestUser represents a signed-in user for handler tests.
type TestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// CaretakerUser returns a TestUser with the caretaker role.
func CaretakerUser() TestUser {
	return TestUser{ID: "caretaker-1", Name: "Test Caretaker", Email: "caretaker@test.com", Role: "caretaker"}
}

// PatientUser returns a TestUser with the patient role.
func PatientUser() TestUser {
	return TestUser{ID: "patient-1", Name: "Test Patient", Email: "patient@test.com", Role: "patient"}
}

// WithUser adds user to the request context as the session user.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// JSONRequest builds a request whose body is body encoded as JSON.
// A string body is sent as-is.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes the recorded response body into v.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// AssertStatus fails the test if the recorded status is not expected.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Errorf("expected status %d, got %d (body %q)", expected, rec.Code, rec.Body.String())
	}
}

// AssertContains fails the test if the body does not contain expected.
func AssertContains(t *testing.T, rec *httptest.ResponseRecorder, expected string) {
	t.Helper()
	if !strings.Contains(rec.Body.String(), expected) {
		t.Errorf("expected body to contain %q, got %q", expected, rec.Body.String())
	}
}
