// internal/app/features/meds/handler.go
package meds

import (
	"context"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the medication schedule and taken-dose history.
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
	Name    string `json:"name"`
	Dose    string `json:"dose"`
	Time    string `json:"time"`
	ForUser string `json:"forUser"`
}

type markRequest struct {
	MedID string `json:"medId"`
	By    string `json:"by"`
}

// ServeList handles GET /meds.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load meds failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load medications")
		return
	}
	jsonutil.Write(w, http.StatusOK, doc.Meds)
}

// HandleCreate handles POST /meds.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if !jsonutil.RequireFields(w, "name", req.Name, "dose", req.Dose, "time", req.Time, "forUser", req.ForUser) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	med := models.Medication{
		ID:        models.NewID(),
		Name:      req.Name,
		Dose:      req.Dose,
		Time:      req.Time,
		ForUser:   req.ForUser,
		CreatedAt: models.NowMillis(),
	}
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		doc.Meds = append(doc.Meds, med)
		return nil
	})
	if err != nil {
		h.Log.Error("save medication failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to save medication")
		return
	}

	h.Pub.Publish(realtime.Message{
		Event:      realtime.EventMedicationUpdate,
		Data:       realtime.MedicationUpdate{Action: realtime.MedAdded, Med: &med},
		Recipients: []string{med.ForUser},
	})
	_, err = h.Notifier.Notify(ctx, models.Notification{
		Type:    models.NotificationMed,
		Message: "New medication: " + med.Name + " (" + med.Dose + ")",
		Payload: models.NewPayload(med),
	}, med.ForUser)
	if err != nil {
		h.Log.Error("medication notification failed", zap.String("med_id", med.ID), zap.Error(err))
	}

	jsonutil.Write(w, http.StatusCreated, med)
}

// HandleDelete handles DELETE /meds/{id}. Deleting an unknown id succeeds.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !jsonutil.RequireFields(w, "id", id) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	var forUser string
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		kept := doc.Meds[:0]
		for _, m := range doc.Meds {
			if m.ID == id {
				forUser = m.ForUser
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) == len(doc.Meds) {
			return docstore.ErrNoChange
		}
		doc.Meds = kept
		return nil
	})
	if err != nil {
		h.Log.Error("delete medication failed", zap.String("med_id", id), zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to delete medication")
		return
	}

	msg := realtime.Message{
		Event: realtime.EventMedicationUpdate,
		Data:  realtime.MedicationUpdate{Action: realtime.MedRemoved, ID: id},
	}
	if forUser != "" {
		msg.Recipients = []string{forUser}
	}
	h.Pub.Publish(msg)

	jsonutil.Message(w, http.StatusOK, "deleted")
}

// HandleMark handles POST /meds/mark. by defaults to the signed-in user.
func (h *Handler) HandleMark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.By == "" {
		req.By = auth.UserIDOr(r, "")
	}
	if !jsonutil.RequireFields(w, "medId", req.MedID, "by", req.By) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	rec := models.MedicationTakenRecord{
		ID:    models.NewID(),
		MedID: req.MedID,
		By:    req.By,
		Time:  models.NowMillis(),
	}
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		doc.MedHistory = append(doc.MedHistory, rec)
		return nil
	})
	if err != nil {
		h.Log.Error("save taken record failed", zap.String("med_id", req.MedID), zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to mark medication")
		return
	}

	h.Pub.Publish(realtime.Message{
		Event:      realtime.EventMedicationUpdate,
		Data:       realtime.MedicationUpdate{Action: realtime.MedTaken, Record: &rec},
		Recipients: []string{rec.By},
	})

	jsonutil.Write(w, http.StatusCreated, rec)
}

// ServeHistory handles GET /meds/history[?medId=].
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load medication history failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	medID := r.URL.Query().Get("medId")
	out := make([]models.MedicationTakenRecord, 0, len(doc.MedHistory))
	for _, rec := range doc.MedHistory {
		if medID == "" || rec.MedID == medID {
			out = append(out, rec)
		}
	}
	jsonutil.Write(w, http.StatusOK, out)
}
