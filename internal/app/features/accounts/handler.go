// internal/app/features/accounts/handler.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	accountstore "github.com/dalemusser/carehub/internal/app/store/accounts"
	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/ratelimit"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves registration and login.
type Handler struct {
	Accounts   *accountstore.Store
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.Limiter // per-IP limit on register/login; nil disables
	Log        *zap.Logger
}

// NewHandler creates a new accounts handler.
func NewHandler(accounts *accountstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts:   accounts,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

type registerRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is a User without its password.
type userResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

func toResponse(u models.User) userResponse {
	return userResponse{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// HandleRegister handles POST /register.
//
//	201 {"message":"registered","id":"…"}
//	409 {"message":"a user with this email already exists"}
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if !jsonutil.RequireFields(w, "role", req.Role, "name", req.Name, "email", req.Email, "password", req.Password) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	u, err := h.Accounts.Create(ctx, models.User{
		Role:     req.Role,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if errors.Is(err, accountstore.ErrDuplicateEmail) {
		jsonutil.Message(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("register failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.Log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", u.Role))
	jsonutil.Write(w, http.StatusCreated, map[string]string{"message": "registered", "id": u.ID})
}

// HandleLogin handles POST /login. On success it returns the user and sets
// the session cookie.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if !jsonutil.RequireFields(w, "email", req.Email, "password", req.Password) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	u, err := h.Accounts.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, accountstore.ErrInvalidCredentials) {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Error("login failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	if h.SessionMgr != nil {
		if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}); err != nil {
			// The JSON response still identifies the user.
			h.Log.Warn("failed to save login session", zap.String("user_id", u.ID), zap.Error(err))
		}
	}

	h.Log.Info("user logged in", zap.String("user_id", u.ID))
	jsonutil.Write(w, http.StatusOK, toResponse(u))
}
