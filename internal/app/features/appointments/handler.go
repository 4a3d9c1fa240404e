// internal/app/features/appointments/handler.go
package appointments

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves appointments. Reminders for them come from the
// workers.Reminders scanner.
type Handler struct {
	Store    docstore.Store
	Pub      realtime.Publisher
	Notifier *notify.Notifier
	Log      *zap.Logger
}

func NewHandler(store docstore.Store, pub realtime.Publisher, notifier *notify.Notifier, logger *zap.Logger) *Handler {
	return &Handler{
		Store:    store,
		Pub:      pub,
		Notifier: notifier,
		Log:      logger,
	}
}

type createRequest struct {
	Title   string             `json:"title"`
	Time    models.EpochMillis `json:"time"`
	ForUser string             `json:"forUser"`
	Notes   string             `json:"notes"`
}

// ServeList handles GET /appointments.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load appointments failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load appointments")
		return
	}
	jsonutil.Write(w, http.StatusOK, doc.Appointments)
}

// HandleCreate handles POST /appointments.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	var when string
	if req.Time != 0 {
		when = strconv.FormatInt(int64(req.Time), 10)
	}
	if !jsonutil.RequireFields(w, "title", req.Title, "time", when, "forUser", req.ForUser) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	appt := models.Appointment{
		ID:        models.NewID(),
		Title:     req.Title,
		Time:      int64(req.Time),
		ForUser:   req.ForUser,
		Notes:     req.Notes,
		CreatedAt: models.NowMillis(),
	}
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		doc.Appointments = append(doc.Appointments, appt)
		return nil
	})
	if err != nil {
		h.Log.Error("save appointment failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to save appointment")
		return
	}

	h.Pub.Publish(realtime.Message{
		Event:      realtime.EventAppointmentCreated,
		Data:       realtime.AppointmentEvent{Appointment: appt},
		Recipients: []string{appt.ForUser},
	})
	_, err = h.Notifier.Notify(ctx, models.Notification{
		Type:        models.NotificationAppointment,
		Message:     "New appointment: " + appt.Title,
		Appointment: &appt,
	}, appt.ForUser)
	if err != nil {
		h.Log.Error("appointment notification failed", zap.String("appointment_id", appt.ID), zap.Error(err))
	}

	jsonutil.Write(w, http.StatusCreated, appt)
}

// HandleDelete handles DELETE /appointments/{id}. Deleting an unknown id
// succeeds.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !jsonutil.RequireFields(w, "id", id) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	err := h.Store.Update(ctx, func(doc *models.Document) error {
		kept := doc.Appointments[:0]
		for _, a := range doc.Appointments {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		if len(kept) == len(doc.Appointments) {
			return docstore.ErrNoChange
		}
		doc.Appointments = kept
		return nil
	})
	if err != nil {
		h.Log.Error("delete appointment failed", zap.String("appointment_id", id), zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}
	jsonutil.Message(w, http.StatusOK, "deleted")
}
