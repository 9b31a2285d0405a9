package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hamdiboyraz/restaurant-review/internal/service"
	apperrors "github.com/hamdiboyraz/restaurant-review/pkg/errors"
	"github.com/hamdiboyraz/restaurant-review/pkg/httputil"
)

// PhotoHandler handles HTTP requests for photo upload and retrieval.
type PhotoHandler struct {
	service *service.PhotoService
	logger  *slog.Logger
}

// NewPhotoHandler creates a new photo HTTP handler.
func NewPhotoHandler(svc *service.PhotoService, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{
		service: svc,
		logger:  logger,
	}
}

// UploadPhoto handles POST /api/v1/photos
//
// Expects a multipart form with a single "file" part. The response carries
// the generated photo id, which reviews reference in their photo_ids.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxPhotoSize+(1<<20))

	if err := r.ParseMultipartForm(service.MaxPhotoSize); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid multipart form: "+err.Error()), h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("multipart form must carry a \"file\" part"), h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	user, err := author(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	contentType := header.Header.Get("Content-Type")
	meta, err := h.service.Upload(r.Context(), user.ID, contentType, header.Size, file)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: meta})
}

// GetPhoto handles GET /api/v1/photos/{id} and streams the photo bytes.
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, meta, err := h.service.Open(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.SizeBytes, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to stream photo",
			slog.String("photo_id", id),
			slog.String("error", err.Error()),
		)
	}
}
