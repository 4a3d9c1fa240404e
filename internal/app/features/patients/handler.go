// internal/app/features/patients/handler.go
package patients

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/carehub/internal/app/store/docstore"
	"github.com/dalemusser/carehub/internal/app/system/jsonutil"
	"github.com/dalemusser/carehub/internal/app/system/limits"
	"github.com/dalemusser/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/carehub/internal/app/system/uploads"
	"github.com/dalemusser/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// MaxPhotoBytes bounds the multipart upload.
const MaxPhotoBytes = limits.MaxPhotoUpload

// Handler serves the people a user cares for.
type Handler struct {
	Store   docstore.Store
	Uploads uploads.Store
	Log     *zap.Logger
}

func NewHandler(store docstore.Store, up uploads.Store, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Uploads: up, Log: logger}
}

// patientResponse adds the fetchable photo URL.
type patientResponse struct {
	models.Patient
	PhotoURL string `json:"photoUrl,omitempty"`
}

func (h *Handler) toResponse(p models.Patient) patientResponse {
	resp := patientResponse{Patient: p}
	if p.PhotoRef != "" {
		resp.PhotoURL = h.Uploads.URL(p.PhotoRef)
	}
	return resp
}

// HandleUpload handles POST /uploadPerson (multipart: photo, name,
// relation, phone, ownerId). The photo is optional.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoBytes+limits.MaxMultipartOverhead)
	if err := r.ParseMultipartForm(MaxPhotoBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonutil.Message(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		jsonutil.Message(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	p := models.Patient{
		ID:        models.NewID(),
		OwnerID:   strings.TrimSpace(r.FormValue("ownerId")),
		Name:      strings.TrimSpace(r.FormValue("name")),
		Relation:  strings.TrimSpace(r.FormValue("relation")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		CreatedAt: models.NowMillis(),
	}
	if !jsonutil.RequireFields(w, "name", p.Name, "ownerId", p.OwnerID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		jsonutil.Message(w, http.StatusBadRequest, "invalid photo")
		return
	default:
		defer file.Close()
		ct := header.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			jsonutil.Message(w, http.StatusBadRequest, "photo must be an image")
			return
		}
		info, err := uploads.SavePhoto(ctx, h.Uploads, header.Filename, file, header.Size, ct)
		if err != nil {
			h.Log.Error("photo upload failed", zap.String("filename", header.Filename), zap.Error(err))
			jsonutil.Message(w, http.StatusInternalServerError, "failed to store photo")
			return
		}
		p.PhotoRef = info.Path
	}

	err = h.Store.Update(ctx, func(doc *models.Document) error {
		doc.Patients = append(doc.Patients, p)
		return nil
	})
	if err != nil {
		h.Log.Error("save patient failed", zap.Error(err))
		if p.PhotoRef != "" {
			h.discardPhoto(p.PhotoRef)
		}
		jsonutil.Message(w, http.StatusInternalServerError, "failed to save person")
		return
	}

	h.Log.Info("person added", zap.String("patient_id", p.ID), zap.String("owner_id", p.OwnerID))
	jsonutil.Write(w, http.StatusCreated, map[string]any{"message": "person added", "patient": h.toResponse(p)})
}

// discardPhoto removes a stored photo whose patient was never saved. The
// request context may already be done, so it gets its own.
func (h *Handler) discardPhoto(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Store())
	defer cancel()
	if err := h.Uploads.Delete(ctx, ref); err != nil {
		h.Log.Warn("orphaned photo not removed", zap.String("photo", ref), zap.Error(err))
	}
}

// ServeList handles GET /patients[?ownerId=].
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Store())
	defer cancel()

	doc, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.Error("load patients failed", zap.Error(err))
		jsonutil.Message(w, http.StatusInternalServerError, "failed to load people")
		return
	}

	owner := r.URL.Query().Get("ownerId")
	out := make([]patientResponse, 0, len(doc.Patients))
	for _, p := range doc.Patients {
		if owner == "" || p.OwnerID == owner {
			out = append(out, h.toResponse(p))
		}
	}
	jsonutil.Write(w, http.StatusOK, out)
}
