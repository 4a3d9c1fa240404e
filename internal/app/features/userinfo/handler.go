// internal/app/features/userinfo/handler.go
package userinfo

import (
	"context"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// UserLookup fetches the stored account for a session user.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (models.User, bool, error)
}

// Handler serves the identity behind the session cookie.
//
// With Users set, the stored account is consulted so renamed or deleted
// accounts are reflected immediately; the cookie alone is used otherwise.
type Handler struct {
	Users UserLookup
	Log   *zap.Logger
}

// NewHandler creates a new userinfo handler. users may be nil.
func NewHandler(users UserLookup, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type meResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
}

// ServeUserInfo handles GET /me.
//
// Response format:
//
//	{ "isAuthenticated": bool, "id": "...", "name": "...", "email": "...", "role": "..." }
//
// Anonymous callers get isAuthenticated=false with empty fields, not a 401.
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Write(w, http.StatusOK, meResponse{})
		return
	}

	resp := meResponse{
		IsAuthenticated: true,
		ID:              su.ID,
		Name:            su.Name,
		Email:           su.Email,
		Role:            su.Role,
	}

	if h.Users != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
		defer cancel()

		u, found, err := h.Users.GetByID(ctx, su.ID)
		switch {
		case err != nil:
			// Fall back to the cookie contents.
			h.Log.Warn("userinfo: account lookup failed", zap.String("user_id", su.ID), zap.Error(err))
		case !found:
			jsonutil.Write(w, http.StatusOK, meResponse{})
			return
		default:
			resp.Name = u.Name
			resp.Email = u.Email
			resp.Role = u.Role
		}
	}

	jsonutil.Write(w, http.StatusOK, resp)
}
