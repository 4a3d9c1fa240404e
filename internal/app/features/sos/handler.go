// internal/app/features/sos/handler.go
package sos

import (
	"context"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler raises SOS alerts from HTTP and from the socket.
type Handler struct {
	Pub      realtime.Publisher
	Notifier *notify.Notifier
	Log      *zap.Logger
}

func NewHandler(pub realtime.Publisher, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{Pub: pub, Notifier: notifier, Log: logger}
}

// Request is the SOS body, shared by POST /sos and the socket sos event.
type Request struct {
	From string             `json:"from"`
	Name string             `json:"name"`
	Time models.EpochMillis `json:"time"`
}

// Raise publishes the sos event to everyone and emits an sos notification.
// A zero Time means now.
func (h *Handler) Raise(ctx context.Context, req Request) (models.Notification, error) {
	at := int64(req.Time)
	if at == 0 {
		at = models.NowMillis()
	}

	h.Pub.Publish(realtime.Message{
		Event: realtime.EventSOS,
		Data:  realtime.SOS{From: req.From, Name: req.Name, Time: at},
	})

	n, err := h.Notifier.Notify(ctx, models.Notification{
		Type:    models.NotificationSOS,
		Message: "SOS from " + displayName(req),
		Time:    at,
		From:    req.From,
	})
	if err != nil {
		return models.Notification{}, err
	}
	h.Log.Warn("sos raised", zap.String("from", req.From), zap.String("notification_id", n.ID))
	return n, nil
}

func displayName(req Request) string {
	if req.Name != "" {
		return req.Name
	}
	return req.From
}

// HandleSOS handles POST /sos. from and name default to the signed-in user.
func (h *Handler) HandleSOS(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if u, ok := auth.CurrentUser(r); ok {
		if req.From == "" {
			req.From = u.ID
		}
		if req.Name == "" {
			req.Name = u.Name
		}
	}
	if !jsonutil.RequireFields(w, "from", req.From) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	n, err := h.Raise(ctx, req)
	if err != nil {
		h.Log.Error("sos failed", zap.String("from", req.From), zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to record SOS")
		return
	}
	jsonutil.Write(w, http.StatusCreated, map[string]any{"message": "SOS sent", "notification": n})
}
