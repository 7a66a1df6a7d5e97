package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/siddkalani/CRM-sub000/internal/auth"
	"github.com/siddkalani/CRM-sub000/internal/handler/dto"
	"github.com/siddkalani/CRM-sub000/internal/service"
)

// UploadHandler handles standalone file uploads.
type UploadHandler struct {
	svc    *service.UploadService
	logger *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(svc *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		svc:    svc,
		logger: logger,
	}
}

// Upload handles POST /uploads. The request is multipart form data with a
// single "file" part; the response carries the stored file's retrievable URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.svc.MaxSize()); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "a file part named 'file' is required")
		return
	}
	defer part.Close()

	file, err := h.svc.Upload(r.Context(), service.UploadInput{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        part,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("file_uploaded",
		"file_id", file.ID,
		"name", file.Name,
		"size", file.SizeBytes,
		"user_id", auth.UserIDFromContext(r.Context()),
	)

	writeJSON(w, http.StatusCreated, dto.ToUploadResponse(file))
}

// handleServiceError maps upload service errors to HTTP responses.
func (h *UploadHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrFileTypeNotAllowed):
		writeError(w, http.StatusBadRequest, "FILE_TYPE_NOT_ALLOWED", err.Error())
	case errors.Is(err, service.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "EMPTY_FILE", err.Error())
	default:
		h.logger.Error("upload_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "failed to store the uploaded file")
	}
}
