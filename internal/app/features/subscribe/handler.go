// internal/app/features/subscribe/handler.go
package subscribe

import (
	"context"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler stores browser push subscriptions.
type Handler struct {
	Store     docstore.Store
	PublicKey string // VAPID public key handed to browsers; empty when push is off
	Log       *zap.Logger
}

func NewHandler(store docstore.Store, publicKey string, logger *zap.Logger) *Handler {
	return &Handler{Store: store, PublicKey: publicKey, Log: logger}
}

// HandleSubscribe handles POST /subscribe. A subscription whose endpoint is
// already stored replaces the stored one.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var sub models.PushSubscription
	if err := jsonutil.Decode(r, &sub); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if !jsonutil.RequireFields(w, "endpoint", sub.Endpoint) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	replaced := false
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		for i := range doc.WebpushSubscriptions {
			if doc.WebpushSubscriptions[i].Endpoint == sub.Endpoint {
				doc.WebpushSubscriptions[i] = sub
				replaced = true
				return nil
			}
		}
		doc.WebpushSubscriptions = append(doc.WebpushSubscriptions, sub)
		return nil
	})
	if err != nil {
		h.Log.Error("save push subscription failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}

	if replaced {
		jsonutil.Message(w, http.StatusOK, "subscription updated")
		return
	}
	h.Log.Info("push subscription added", zap.String("endpoint", sub.Endpoint))
	jsonutil.Message(w, http.StatusCreated, "subscribed")
}

// ServeKey handles GET /subscribe/key.
//
//	{ "publicKey": "…", "enabled": true }
func (h *Handler) ServeKey(w http.ResponseWriter, r *http.Request) {
	jsonutil.Write(w, http.StatusOK, map[string]any{
		"publicKey": h.PublicKey,
		"enabled":   h.PublicKey != "",
	})
}
