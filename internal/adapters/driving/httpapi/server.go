// Package httpapi exposes the ingestion and chat pipelines over HTTP.
// POST /upload ingests a document (multipart file or raw text body),
// POST /chat answers a query against the indexed corpus, and
// GET /healthz is a liveness probe. DELETE /documents/{id} removes a
// document from every index.
//
// Errors are returned as {"error":{"kind","message"}} with the kind
// drawn from the pipeline error taxonomy.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Server serves the HTTP API.
type Server struct {
	ingest  driving.IngestService
	chat    driving.ChatService
	dataDir string

	httpServer *http.Server
}

// NewServer creates a Server listening on addr. Uploaded files are
// persisted under dataDir before ingestion; an empty dataDir disables
// persistence.
func NewServer(addr string, ingest driving.IngestService, chat driving.ChatService, dataDir string) *Server {
	s := &Server{
		ingest:  ingest,
		chat:    chat,
		dataDir: dataDir,
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
	}

	return s
}

// Handler returns the route table. Exposed so tests can drive the API
// through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("DELETE /documents/{id}", s.handleDeleteDocument)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
