package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/me-nabi/pdf-assistant/document"
	"github.com/me-nabi/pdf-assistant/internal/service/ingest"
	"github.com/me-nabi/pdf-assistant/internal/service/session"
)

type ingestRequest struct {
	Sources []document.Source `json:"sources"`
}

type ingestResponse struct {
	CollectionId  string   `json:"collection_id"`
	ChunksIndexed int      `json:"chunks_indexed"`
	FailedSources []string `json:"failed_sources,omitempty"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.assistant.StartIngestion(r.Context(), req.Sources)
	if err != nil {
		if errors.Is(err, session.ErrIngestionInProgress) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		CollectionId:  result.CollectionId,
		ChunksIndexed: result.ChunksIndexed,
		FailedSources: failedSourceIds(result.SourceFailures),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	answer, err := s.assistant.Ask(r.Context(), req.Question)
	if err != nil && errors.Is(err, session.ErrNotReady) {
		writeError(w, http.StatusConflict, err)
		return
	}

	// Turn failures are already recorded in the transcript; the answer is
	// the visible error string in that case.
	writeJSON(w, http.StatusOK, askResponse{Answer: answer})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	messages, err := s.assistant.Transcript(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleClearTranscript(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.ClearTranscript(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": s.assistant.SessionId(),
		"status":     s.assistant.Status(r.Context()),
	})
}

func failedSourceIds(failures []ingest.Failure) []string {
	ids := make([]string, 0, len(failures))
	for _, f := range failures {
		ids = append(ids, f.SourceId)
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
