// internal/app/features/journals/handler.go
package journals

import (
	"context"
	"net/http"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/auth"
	"github.com/dalemusser/carehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/notify"
	"github.com/dalemusser/carehub/internal/app/system/realtime"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the shared care journal.
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
	Text   string `json:"text"`
	Author string `json:"author"`
}

// ServeList handles GET /journals.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load journals failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load journals")
		return
	}
	jsonutil.Write(w, http.StatusOK, doc.Journals)
}

// HandleCreate handles POST /journals. author defaults to the signed-in
// user's name.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := jsonutil.Decode(r, &req); err != nil {
		jsonutil.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Author == "" {
		if u, ok := auth.CurrentUser(r); ok {
			req.Author = u.Name
		}
	}
	req.Text = htmlsanitize.Clean(req.Text)
	if !jsonutil.RequireFields(w, "text", req.Text, "author", req.Author) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	entry := models.JournalEntry{
		ID:     models.NewID(),
		Author: req.Author,
		Text:   req.Text,
		Time:   models.NowMillis(),
	}
	err := h.Store.Update(ctx, func(doc *models.Document) error {
		doc.Journals = append(doc.Journals, entry)
		return nil
	})
	if err != nil {
		h.Log.Error("save journal entry failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to save journal entry")
		return
	}

	h.Pub.Publish(realtime.Message{
		Event: realtime.EventJournal,
		Data:  realtime.Journal{Entry: entry, Author: entry.Author},
	})
	_, err = h.Notifier.Notify(ctx, models.Notification{
		Type:    models.NotificationJournal,
		Message: "New journal entry from " + entry.Author,
		Payload: models.NewPayload(entry),
	})
	if err != nil {
		h.Log.Error("journal notification failed", zap.String("entry_id", entry.ID), zap.Error(err))
	}

	jsonutil.Write(w, http.StatusCreated, entry)
}
