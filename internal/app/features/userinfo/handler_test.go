package userinfo_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/carehub/internal/app/features/userinfo"
	accountstore "github.com/dalemusser/carehub/internal/app/store/accounts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/dalemusser/carehub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type meResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
}

func serveMe(t *testing.T, h *userinfo.Handler, req *http.Request) meResponse {
	t.Helper()
	r := chi.NewRouter()
	userinfo.MountRoutes(r, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var resp meResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response JSON: %v", err)
	}
	return resp
}

func TestServeUserInfo_Unauthenticated(t *testing.T) {
	resp := serveMe(t, userinfo.NewHandler(nil, zap.NewNop()), httptest.NewRequest("GET", "/me", nil))

	if resp != (meResponse{}) {
		t.Errorf("anonymous response = %+v, want all empty", resp)
	}
}

func TestServeUserInfo_FromSession(t *testing.T) {
	user := testutil.CaretakerUser()
	req := testutil.WithUser(httptest.NewRequest("GET", "/me", nil), user)

	resp := serveMe(t, userinfo.NewHandler(nil, zap.NewNop()), req)

	want := meResponse{IsAuthenticated: true, ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
}

func TestServeUserInfo_UsesStoredAccount(t *testing.T) {
	store := testutil.NewFileStore(t)
	testutil.Seed(t, store, func(doc *models.Document) {
		doc.Users = append(doc.Users, models.User{ID: "caretaker-1", Name: "Renamed", Email: "new@test.com", Role: "caretaker"})
	})
	h := userinfo.NewHandler(accountstore.New(store), zap.NewNop())

	req := testutil.WithUser(httptest.NewRequest("GET", "/me", nil), testutil.CaretakerUser())
	resp := serveMe(t, h, req)

	if !resp.IsAuthenticated || resp.Name != "Renamed" || resp.Email != "new@test.com" {
		t.Errorf("response = %+v, want stored account details", resp)
	}
}

func TestServeUserInfo_DeletedAccount(t *testing.T) {
	h := userinfo.NewHandler(accountstore.New(testutil.NewFileStore(t)), zap.NewNop())

	req := testutil.WithUser(httptest.NewRequest("GET", "/me", nil), testutil.PatientUser())
	resp := serveMe(t, h, req)

	if resp.IsAuthenticated {
		t.Errorf("response = %+v, want isAuthenticated=false for an unknown account", resp)
	}
}
