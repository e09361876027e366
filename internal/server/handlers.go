package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"idea-path/internal/common/auth"
	"idea-path/internal/common/errors"
	"idea-path/internal/models"
	"idea-path/internal/storage"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var raw models.RawInput
	if err := decodeBody(w, r, &raw); err != nil {
		s.writeError(w, errors.NewValidationFailedError("request body is not valid JSON"))
		return
	}
	if strings.TrimSpace(raw.Skills) == "" && strings.TrimSpace(raw.Interests) == "" {
		s.writeError(w, errors.NewValidationFailedError("at least one of skills or interests is required"))
		return
	}

	resp, err := s.pipeline.Generate(r.Context(), raw)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// A bearer token on /generate is optional; when present and valid, the
	// result is recorded in the caller's history.
	if token := auth.BearerToken(r.Header.Get("Authorization")); token != "" && s.verifier.Enabled() {
		if claims, err := s.verifier.VerifyToken(r.Context(), token); err == nil {
			entry := storage.HistoryEntry{ResultID: resp.ResultID, GeneratedAt: time.Now().UTC()}
			if err := s.stores.AppendHistory(r.Context(), claims.UID, entry); err != nil {
				s.log.Warn("history append failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var rec models.FeedbackRecord
	if err := decodeBody(w, r, &rec); err != nil {
		s.writeError(w, errors.NewValidationFailedError("request body is not valid JSON"))
		return
	}
	if rec.SessionID == "" || !models.ValidRating(rec.Rating) {
		s.writeError(w, errors.NewValidationFailedError("sessionId and a rating of up or down are required"))
		return
	}

	if err := s.stores.AppendFeedback(r.Context(), rec); err != nil {
		s.writeError(w, errors.NewStoreUnavailableError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	primary, fallback := s.pipeline.Availability()

	counts, err := s.stores.GetCounts(r.Context())
	if err != nil {
		s.log.Warn("store counts unavailable", map[string]interface{}{"error": err.Error()})
	}

	status := "ok"
	if !primary && !fallback {
		status = "degraded"
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
		"ai": map[string]bool{
			"primaryAvailable":   primary,
			"secondaryAvailable": fallback,
		},
		"storage": counts,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.stores.GetSession(r.Context(), id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.writeError(w, errors.NewNotFoundError("session", id))
			return
		}
		s.writeError(w, errors.NewStoreUnavailableError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	resp, err := s.stores.GetResult(r.Context(), id)
	if err != nil {
		if err == storage.ErrNotFound {
			s.writeError(w, errors.NewNotFoundError("result", id))
			return
		}
		s.writeError(w, errors.NewStoreUnavailableError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]string{
		"uid":   claims.UID,
		"email": claims.Email,
		"name":  claims.Name,
	})
}

func (s *Server) handleUserHistory(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	entries, err := s.stores.GetHistory(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, errors.NewStoreUnavailableError(err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("response encoding failed", map[string]interface{}{"error": err.Error()})
	}
}

// writeError maps internal errors to generic client bodies. Internals never
// leak into responses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", map[string]interface{}{"error": err.Error()})
	}
	s.writeJSON(w, status, errorBody{Error: errors.ClientMessage(err)})
}
