package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/siddkalani/CRM-sub000/internal/handler/dto"
	"github.com/siddkalani/CRM-sub000/internal/service"
)

// ContactHandler handles HTTP requests for contact operations.
type ContactHandler struct {
	svc          *service.ContactService
	uploads      *service.UploadService
	maxNoteFiles int
	logger       *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(svc *service.ContactService, uploads *service.UploadService, maxNoteFiles int, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		svc:          svc,
		uploads:      uploads,
		maxNoteFiles: maxNoteFiles,
		logger:       logger,
	}
}

// List handles GET /contacts/user/{userID}.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "user ID is required")
		return
	}

	contacts, err := h.svc.ListContacts(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContactListResponse(contacts))
}

// Create handles POST /contacts/user/{userID}.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "user ID is required")
		return
	}

	var req dto.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	contact, err := h.svc.CreateContact(r.Context(), service.CreateContactInput{
		OwnerID:   userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("contact_created", "contact_id", contact.ID, "owner_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToContactResponse(contact))
}

// Get handles GET /contacts/one/{contactID}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	contact, err := h.svc.GetContact(r.Context(), contactID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Update handles PUT /contacts/one/{contactID}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	var req dto.UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	contact, err := h.svc.UpdateContact(r.Context(), contactID, service.ContactPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("contact_updated", "contact_id", contact.ID)

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// Delete handles DELETE /contacts/{contactID}.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	if err := h.svc.DeleteContact(r.Context(), contactID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("contact_deleted", "contact_id", contactID)

	w.WriteHeader(http.StatusNoContent)
}

// AddNote handles POST /contacts/one/{contactID}/notes. The request is
// multipart form data: a "text" field plus zero or more "files" parts. Every
// file is relayed to the object store before the notes are written, so a
// rejected file fails the whole request without leaving partial notes.
func (h *ContactHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")

	if err := r.ParseMultipartForm(h.uploads.MaxSize()); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}

	text := r.FormValue("text")

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
	}
	if len(headers) > h.maxNoteFiles {
		writeError(w, http.StatusBadRequest, "TOO_MANY_FILES", "too many files attached to a single note")
		return
	}

	attachments := make([]service.NoteAttachment, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_FORM", "unreadable file part")
			return
		}

		uploaded, err := h.uploads.Upload(r.Context(), service.UploadInput{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        part,
		})
		part.Close()
		if err != nil {
			h.handleUploadError(w, err)
			return
		}

		attachments = append(attachments, service.NoteAttachment{
			FileID:      uploaded.ID,
			URL:         uploaded.URL,
			Name:        uploaded.Name,
			ContentType: uploaded.ContentType,
		})
	}

	contact, err := h.svc.AddNote(r.Context(), contactID, text, attachments)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("contact_note_added", "contact_id", contactID, "files", len(attachments))

	writeJSON(w, http.StatusCreated, dto.ToContactResponse(contact))
}

// UpdateNote handles PUT /contacts/one/{contactID}/notes/{noteID}.
func (h *ContactHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	noteID := chi.URLParam(r, "noteID")

	var req dto.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	contact, err := h.svc.UpdateNote(r.Context(), contactID, noteID, req.Text)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("contact_note_updated", "contact_id", contactID, "note_id", noteID)

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// DeleteNote handles DELETE /contacts/one/{contactID}/notes/{noteID}.
func (h *ContactHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	contactID := chi.URLParam(r, "contactID")
	noteID := chi.URLParam(r, "noteID")

	contact, err := h.svc.DeleteNote(r.Context(), contactID, noteID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("contact_note_deleted", "contact_id", contactID, "note_id", noteID)

	writeJSON(w, http.StatusOK, dto.ToContactResponse(contact))
}

// handleServiceError maps contact service errors to HTTP responses.
func (h *ContactHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		writeError(w, http.StatusNotFound, "CONTACT_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "NOTE_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrMissingContactName):
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", err.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", err.Error())
	case errors.Is(err, service.ErrEmptyNote):
		writeError(w, http.StatusBadRequest, "EMPTY_NOTE", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}

// handleUploadError maps upload errors raised while attaching note files.
func (h *ContactHandler) handleUploadError(w http.ResponseWriter, err error) {
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
