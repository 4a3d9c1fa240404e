// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler reads notifications and marks them read. Notifications are
// created by notify.Notifier, never here.
type Handler struct {
	Store docstore.Store
	Log   *zap.Logger
}

func NewHandler(store docstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Log: logger}
}

// ServeList handles GET /notifications.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load notifications failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load notifications")
		return
	}
	jsonutil.Write(w, http.StatusOK, doc.Notifications)
}

// ServeOne handles GET /notifications/{id}.
func (h *Handler) ServeOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load notifications failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load notification")
		return
	}
	i := doc.FindNotification(id)
	if i < 0 {
		jsonutil.Message(w, http.StatusNotFound, "notification not found")
		return
	}
	jsonutil.Write(w, http.StatusOK, doc.Notifications[i])
}

// HandleMarkRead handles DELETE /notifications/{id}. The notification is
// kept; only Read changes. Unknown ids succeed.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !jsonutil.RequireFields(w, "id", id) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	err := h.Store.Update(ctx, func(doc *models.Document) error {
		i := doc.FindNotification(id)
		if i < 0 || doc.Notifications[i].Read {
			return docstore.ErrNoChange
		}
		doc.Notifications[i].Read = true
		return nil
	})
	if err != nil {
		h.Log.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to update notification")
		return
	}
	jsonutil.Message(w, http.StatusOK, "marked read")
}
