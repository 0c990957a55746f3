package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Ankush70788/vidqa-core/internal/core/domain"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProcessVideoRequest asks the engine to index a video. Either a full video
// URL or a bare video ID is accepted.
type ProcessVideoRequest struct {
	VideoURL string `json:"video_url,omitempty"`
	VideoID  string `json:"video_id,omitempty"`
}

// AskQuestionRequest asks a question about a processed video. History is
// optional; when present it overrides the session's stored conversation.
type AskQuestionRequest struct {
	VideoID  string                    `json:"video_id"`
	Question string                    `json:"question"`
	History  []domain.ConversationTurn `json:"history,omitempty"`
}

// Health endpoints

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports degraded (503) when a configured provider is down.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready"}
	code := http.StatusOK

	if s.embeddings != nil {
		if err := s.embeddings.HealthCheck(ctx); err != nil {
			status["status"] = "degraded"
			status["embeddings"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}
	if s.generation != nil {
		if err := s.generation.HealthCheck(ctx); err != nil {
			status["status"] = "degraded"
			status["generation"] = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, status)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Video Q&A backend is running. Use /api/v1/videos/process and /api/v1/videos/ask.",
	})
}

// Video endpoints

func (s *Server) handleProcessVideo(w http.ResponseWriter, r *http.Request) {
	var req ProcessVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	videoID := req.VideoID
	if videoID == "" {
		var err error
		videoID, err = ExtractVideoID(req.VideoURL)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid YouTube URL")
			return
		}
	}

	result, err := s.assistant.ProcessVideo(r.Context(), videoID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req AskQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.VideoID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "video_id and question are required")
		return
	}

	answer, err := s.assistant.AskQuestion(r.Context(), req.VideoID, req.Question, req.History)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "video id is required")
		return
	}

	if err := s.assistant.ResetSession(r.Context(), videoID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeDomainError maps domain errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidVideoURL):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "video not processed or session expired; process the video again")
	case errors.Is(err, domain.ErrTranscriptNotFound):
		writeError(w, http.StatusNotFound, "no transcript available for this video")
	case errors.Is(err, domain.ErrEmptyTranscript), errors.Is(err, domain.ErrEmptyIndex):
		writeError(w, http.StatusUnprocessableEntity, "transcript is empty")
	case errors.Is(err, domain.ErrTranscriptUnavailable):
		writeError(w, http.StatusBadGateway, "could not fetch transcript")
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		writeError(w, http.StatusBadGateway, "embedding provider unavailable")
	case errors.Is(err, domain.ErrGenerationUnavailable):
		writeError(w, http.StatusBadGateway, "generation provider unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
