package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/siddkalani/CRM-sub000/internal/handler/dto"
	"github.com/siddkalani/CRM-sub000/internal/service"
)

// LeadHandler handles HTTP requests for lead operations.
type LeadHandler struct {
	svc    *service.LeadService
	logger *slog.Logger
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(svc *service.LeadService, logger *slog.Logger) *LeadHandler {
	return &LeadHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /leads/user/{userID}.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "user ID is required")
		return
	}

	leads, err := h.svc.ListLeads(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLeadListResponse(leads))
}

// Create handles POST /leads/user/{userID}.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "user ID is required")
		return
	}

	var req dto.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	lead, err := h.svc.CreateLead(r.Context(), service.CreateLeadInput{
		OwnerID:   userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Note:      req.Notes,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("lead_created", "lead_id", lead.ID, "owner_id", userID)

	writeJSON(w, http.StatusCreated, dto.ToLeadResponse(lead))
}

// Get handles GET /leads/one/{leadID}.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.svc.GetLead(r.Context(), leadID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToLeadResponse(lead))
}

// Update handles PUT /leads/one/{leadID}.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req dto.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	lead, err := h.svc.UpdateLead(r.Context(), leadID, service.LeadPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("lead_updated", "lead_id", lead.ID)

	writeJSON(w, http.StatusOK, dto.ToLeadResponse(lead))
}

// Delete handles DELETE /leads/{leadID}.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	if err := h.svc.DeleteLead(r.Context(), leadID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("lead_deleted", "lead_id", leadID)

	w.WriteHeader(http.StatusNoContent)
}

// AddNote handles POST /leads/one/{leadID}/notes.
func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req dto.AddLeadNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	lead, err := h.svc.AddNote(r.Context(), leadID, req.Text, nil)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("lead_note_added", "lead_id", leadID)

	writeJSON(w, http.StatusCreated, dto.ToLeadResponse(lead))
}

// UpdateNote handles PUT /leads/one/{leadID}/notes/{noteID}.
func (h *LeadHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	noteID := chi.URLParam(r, "noteID")

	var req dto.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	lead, err := h.svc.UpdateNote(r.Context(), leadID, noteID, req.Text)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("lead_note_updated", "lead_id", leadID, "note_id", noteID)

	writeJSON(w, http.StatusOK, dto.ToLeadResponse(lead))
}

// DeleteNote handles DELETE /leads/one/{leadID}/notes/{noteID}.
func (h *LeadHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	noteID := chi.URLParam(r, "noteID")

	lead, err := h.svc.DeleteNote(r.Context(), leadID, noteID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("lead_note_deleted", "lead_id", leadID, "note_id", noteID)

	writeJSON(w, http.StatusOK, dto.ToLeadResponse(lead))
}

// handleServiceError maps lead service errors to HTTP responses.
func (h *LeadHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLeadNotFound):
		writeError(w, http.StatusNotFound, "LEAD_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "NOTE_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrMissingLeadFields):
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", err.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", err.Error())
	case errors.Is(err, service.ErrLeadEmailTaken):
		writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, service.ErrEmptyNote):
		writeError(w, http.StatusBadRequest, "EMPTY_NOTE", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
