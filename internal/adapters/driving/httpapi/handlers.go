package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// maxUploadBytes bounds a single upload request body.
const maxUploadBytes = 32 << 20 // 32 MiB

type uploadResponse struct {
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	ChunksIngested int    `json:"chunks_ingested"`
}

type chatRequest struct {
	Query   string       `json:"query"`
	TopK    int          `json:"top_k,omitempty"`
	Weights *chatWeights `json:"weights,omitempty"`
}

type chatWeights struct {
	Sparse float64 `json:"sparse"`
	Dense  float64 `json:"dense"`
}

type chatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type deleteResponse struct {
	DocumentID string `json:"document_id"`
}

// handleUpload ingests a document. Multipart requests take the content
// from the "file" part (with an optional "title" field); any other
// request body is treated as raw text, titled by the ?title query
// parameter.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	title, content, err := readUpload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.dataDir != "" {
		if err := s.persistUpload(title, content); err != nil {
			// The copy under dataDir is a convenience for reindexing;
			// ingestion proceeds without it.
			logger.Warn("Failed to persist upload %q: %v", title, err)
		}
	}

	result, err := s.ingest.Ingest(r.Context(), title, content)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Ingested %q as %s (%d chunks)", title, result.Document.ID, result.ChunksIngested)

	writeJSON(w, http.StatusOK, uploadResponse{
		DocumentID:     result.Document.ID,
		Title:          result.Document.Title,
		ChunksIngested: result.ChunksIngested,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	opts := domain.AskOptions{TopK: req.TopK}
	if req.Weights != nil {
		opts.Weights = domain.FusionWeights{Sparse: req.Weights.Sparse, Dense: req.Weights.Dense}
	}

	answer, err := s.chat.Ask(r.Context(), req.Query, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer.Text, Sources: sources})
}

// handleDeleteDocument removes a document from every index and the store.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.ingest.DeleteDocument(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("Deleted document %s", id)
	writeJSON(w, http.StatusOK, deleteResponse{DocumentID: id})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload extracts the document title and content from the request.
func readUpload(r *http.Request) (title, content string, err error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", "", fmt.Errorf("%w: malformed multipart body", domain.ErrInvalidInput)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", fmt.Errorf("%w: missing file part", domain.ErrInvalidInput)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", "", fmt.Errorf("reading upload: %w", err)
		}

		title = r.FormValue("title")
		if title == "" {
			title = header.Filename
		}
		return title, string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", fmt.Errorf("reading upload: %w", err)
	}

	title = r.URL.Query().Get("title")
	if title == "" {
		return "", "", fmt.Errorf("%w: raw uploads require a ?title parameter", domain.ErrInvalidInput)
	}
	return title, string(data), nil
}

// persistUpload writes a copy of the raw upload under dataDir/uploads
// so the corpus can be reindexed from disk. Uploads live in their own
// subdirectory, outside the watcher's view of dataDir itself.
func (s *Server) persistUpload(title, content string) error {
	dir := filepath.Join(s.dataDir, "uploads")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating uploads dir: %w", err)
	}

	name := sanitizeFilename(title)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// sanitizeFilename keeps uploads from escaping the data directory.
func sanitizeFilename(title string) string {
	name := filepath.Base(strings.TrimSpace(title))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "untitled"
	}
	return strings.ReplaceAll(name, string(filepath.Separator), "_")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
