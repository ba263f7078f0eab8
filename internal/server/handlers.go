package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"

	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// audioFileHeader names the saved clip when an audio store is configured
const audioFileHeader = "X-Audio-File"

// SynthesisRequest is the body of POST /api/tts
type SynthesisRequest struct {
	Message  string `json:"message"`
	Language string `json:"language,omitempty"`
	Platform string `json:"platform,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Debugf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps manager errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, tts.ErrUnknownPlatform):
		return http.StatusNotFound
	case errors.Is(err, tts.ErrEmptyMessage), errors.Is(err, tts.ErrUnsupportedLanguage):
		return http.StatusBadRequest
	case errors.Is(err, tts.ErrSynthesisFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) synthesize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}

	audio, err := s.manager.GetAudio(r.Context(), req.Platform, req.Message, req.Language)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if s.store != nil {
		name := uuid.New().String() + "." + string(audio.Format)
		if _, err := s.store.SaveAudio(name, audio.Data); err != nil {
			logger.Error("Failed to save synthesized audio", err)
		} else {
			w.Header().Set(audioFileHeader, name)
		}
	}

	w.Header().Set("Content-Type", audio.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio.Data); err != nil {
		logger.Debugf("Failed to write audio response: %v", err)
	}
}

func (s *Server) platforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"default":   s.manager.Default(),
		"platforms": s.manager.Platforms(),
	})
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	p, err := s.manager.Provider(r.URL.Query().Get("platform"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	resp := map[string]any{
		"platform":         p.Name(),
		"default_language": p.DefaultLanguage(),
		"languages":        p.SupportedLanguages(),
	}
	if v, ok := p.(voicer); ok {
		resp["voice"] = v.Voice()
	}
	writeJSON(w, http.StatusOK, resp)
}

// voicer is implemented by providers that expose their voice parameters
type voicer interface {
	Voice() tts.VoiceSettings
}

func (s *Server) listAudio(w http.ResponseWriter, r *http.Request) {
	files, err := s.store.ListAudio()
	if err != nil {
		logger.Error("Failed to list saved audio", err)
		writeError(w, http.StatusInternalServerError, "failed to list audio")
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

func (s *Server) deleteAudio(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	err := s.store.DeleteAudio(name)
	switch {
	case err == nil:
		logger.Debugf("Deleted saved audio %s", name)
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, fileops.ErrInvalidFilename):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		writeError(w, http.StatusNotFound, "audio file not found")
	default:
		logger.Error("Failed to delete saved audio", err)
		writeError(w, http.StatusInternalServerError, "failed to delete audio")
	}
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stats.GetStats())
}
