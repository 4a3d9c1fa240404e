// internal/app/features/socket/handler.go
package socket

import (
	"context"
	"encoding/json"

	"github.com/dalemusser/carehub/internal/app/features/locations"
	"github.com/dalemusser/carehub/internal/app/features/sos"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler maps inbound socket events onto the same paths the HTTP
// handlers use.
type Handler struct {
	Hub       *realtime.Hub
	Locations *locations.Handler
	SOS       *sos.Handler
	Log       *zap.Logger
}

// NewHandler creates the handler and registers its events with hub.
func NewHandler(hub *realtime.Hub, loc *locations.Handler, alerts *sos.Handler, logger *zap.Logger) *Handler {
	h := &Handler{Hub: hub, Locations: loc, SOS: alerts, Log: logger}
	hub.Handle(realtime.EventUpdateLocation, h.onUpdateLocation)
	hub.Handle(realtime.EventSOS, h.onSOS)
	hub.Handle(realtime.EventJournal, h.relay(realtime.EventJournal))
	hub.Handle(realtime.EventMedicationUpdate, h.relay(realtime.EventMedicationUpdate))
	return h
}

func (h *Handler) onUpdateLocation(ctx context.Context, c *realtime.Client, data json.RawMessage) {
	var u locations.Update
	if err := json.Unmarshal(data, &u); err != nil || u.UserID == "" {
		h.Log.Debug("socket: bad updateLocation", zap.String("client_id", c.ID()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Store())
	defer cancel()

	if _, err := h.Locations.Record(ctx, u); err != nil {
		h.Log.Error("socket: record location failed", zap.String("user_id", u.UserID), zap.Error(err))
	}
}

func (h *Handler) onSOS(ctx context.Context, c *realtime.Client, data json.RawMessage) {
	var req sos.Request
	if err := json.Unmarshal(data, &req); err != nil || req.From == "" {
		h.Log.Debug("socket: bad sos", zap.String("client_id", c.ID()))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Store())
	defer cancel()

	if _, err := h.SOS.Raise(ctx, req); err != nil {
		h.Log.Error("socket: sos failed", zap.String("from", req.From), zap.Error(err))
	}
}

// relay republishes the payload unchanged to every client. Nothing is
// stored; the HTTP endpoints are the persistent path for these events.
func (h *Handler) relay(event string) realtime.InboundHandler {
	return func(_ context.Context, _ *realtime.Client, data json.RawMessage) {
		if len(data) == 0 {
			data = json.RawMessage("null")
		}
		h.Hub.Publish(realtime.Message{Event: event, Data: data})
	}
}
