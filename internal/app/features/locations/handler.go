// internal/app/features/locations/handler.go
package locations

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler records and serves location history.
type Handler struct {
	Store docstore.Store
	Pub   realtime.Publisher
	Log   *zap.Logger
}

func NewHandler(store docstore.Store, pub realtime.Publisher, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Pub: pub, Log: logger}
}

// Update is a location report. Timestamp is what socket clients send;
// Time is accepted as an alias.
type Update struct {
	UserID    string             `json:"userId"`
	Lat       float64            `json:"lat"`
	Lng       float64            `json:"lng"`
	Timestamp models.EpochMillis `json:"timestamp"`
	Time      models.EpochMillis `json:"time"`
}

// Record appends the point to the history and publishes locationUpdate.
func (h *Handler) Record(ctx context.Context, u Update) (models.LocationPoint, error) {
	at := int64(u.Timestamp)
	if at == 0 {
		at = int64(u.Time)
	}
	if at == 0 {
		at = models.NowMillis()
	}
	p := models.LocationPoint{
		ID:     models.NewID(),
		UserID: u.UserID,
		Lat:    u.Lat,
		Lng:    u.Lng,
		Time:   at,
	}
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		doc.LocationHistory = append(doc.LocationHistory, p)
		return nil
	})
	if err != nil {
		return models.LocationPoint{}, fmt.Errorf("record location: %w", err)
	}

	h.Pub.Publish(realtime.Message{
		Event:      realtime.EventLocationUpdate,
		Data:       realtime.LocationUpdate{UserID: p.UserID, Lat: p.Lat, Lng: p.Lng, Time: p.Time},
		Recipients: []string{p.UserID},
	})
	return p, nil
}

// ServeList handles GET /locations[?userId=].
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load locations failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load locations")
		return
	}

	userID := r.URL.Query().Get("userId")
	out := make([]models.LocationPoint, 0, len(doc.LocationHistory))
	for _, p := range doc.LocationHistory {
		if userID == "" || p.UserID == userID {
			out = append(out, p)
		}
	}
	jsonutil.Write(w, http.StatusOK, out)
}

// HandleUpdate handles POST /locations for clients without a socket.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var u Update
	if err := jsonutil.Decode(r, &u); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if !jsonutil.RequireFields(w, "userId", u.UserID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	p, err := h.Record(ctx, u)
	if err != nil {
		h.Log.Error("save location failed", zap.String("user_id", u.UserID), zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to save location")
		return
	}
	jsonutil.Write(w, http.StatusCreated, p)
}
