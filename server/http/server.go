package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	assistant "github.com/me-nabi/pdf-assistant"
)

// Server exposes one assistant over HTTP. The process serves a single
// conversation session; multi-tenancy is out of scope.
type Server struct {
	options   Options
	assistant *assistant.Assistant
	server    *http.Server
}

func (s *Server) Run() error {
	slog.Info("http server listening", "address", s.options.Address)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func NewServer(a *assistant.Assistant, opts ...Option) *Server {
	options := NewOptions(opts...)

	s := &Server{
		options:   options,
		assistant: a,
	}

	router := mux.NewRouter()
	router.HandleFunc("/v1/ingest", s.handleIngest).Methods(http.MethodPost)
	router.HandleFunc("/v1/ask", s.handleAsk).Methods(http.MethodPost)
	router.HandleFunc("/v1/transcript", s.handleTranscript).Methods(http.MethodGet)
	router.HandleFunc("/v1/transcript", s.handleClearTranscript).Methods(http.MethodDelete)
	router.HandleFunc("/v1/status", s.handleStatus).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}
