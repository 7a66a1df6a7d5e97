package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/siddkalani/CRM-sub000/internal/auth"
	"github.com/siddkalani/CRM-sub000/internal/handler/dto"
	"github.com/siddkalani/CRM-sub000/internal/service"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		ID:    user.ID,
		Email: user.Email,
	})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	out, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", out.User.ID)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: out.AccessToken,
		UserID:      out.User.ID,
	})
}

// Current handles GET /users/current.
// Returns the decoded token claims attached by the auth middleware.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	writeJSON(w, http.StatusOK, dto.ClaimsResponse{
		ID:       authCtx.UserID,
		Email:    authCtx.Email,
		Username: authCtx.Username,
	})
}

// Update handles PUT /users/update.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), authCtx.UserID, service.UpdateProfileInput{
		Username: req.Username,
		Password: req.Password,
	}, authCtx.TokenID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("profile_updated",
		"user_id", user.ID,
		"password_changed", req.Password != nil,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Logout handles POST /users/logout.
// Revokes the presented session token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustAuthFromContext(r.Context())

	if err := h.svc.Logout(r.Context(), authCtx.TokenID, authCtx.UserID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_out", "user_id", authCtx.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps user service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "MISSING_FIELDS", err.Error())
	case errors.Is(err, service.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "INVALID_EMAIL", err.Error())
	case errors.Is(err, service.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "EMAIL_TAKEN", err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "USERNAME_TAKEN", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred")
	}
}
