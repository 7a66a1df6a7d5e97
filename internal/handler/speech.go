package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/siddkalani/CRM-sub000/internal/auth"
	"github.com/siddkalani/CRM-sub000/internal/handler/dto"
	"github.com/siddkalani/CRM-sub000/internal/metrics"
	"github.com/siddkalani/CRM-sub000/internal/speech"
)

// SpeechHandler relays audio to the external speech recognition service.
type SpeechHandler struct {
	client  *speech.Client
	maxSize int64
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewSpeechHandler creates a new SpeechHandler.
func NewSpeechHandler(client *speech.Client, maxSize int64, recorder metrics.Recorder, logger *slog.Logger) *SpeechHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SpeechHandler{
		client:  client,
		maxSize: maxSize,
		metrics: recorder,
		logger:  logger,
	}
}

// Transcribe handles POST /speech-to-text. The request is multipart form
// data with a single "audio" part; the audio is never persisted, only
// relayed upstream.
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxSize); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		return
	}

	part, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_AUDIO", "an audio part named 'audio' is required")
		return
	}
	defer part.Close()

	text, err := h.client.Transcribe(r.Context(), part, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, speech.ErrNotConfigured) {
			h.metrics.IncTranscription("unconfigured")
			writeError(w, http.StatusServiceUnavailable, "SPEECH_UNAVAILABLE", "speech recognition is not configured")
			return
		}
		h.metrics.IncTranscription("failed")
		h.logger.Error("transcription_failed", "error", err)
		writeError(w, http.StatusBadGateway, "SPEECH_FAILED", "speech recognition failed")
		return
	}

	h.metrics.IncTranscription("success")
	h.logger.Info("transcription_completed",
		"file", header.Filename,
		"chars", len(text),
		"user_id", auth.UserIDFromContext(r.Context()),
	)

	writeJSON(w, http.StatusOK, dto.TranscriptionResponse{Transcription: text})
}
