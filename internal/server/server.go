// Package server serves a directory of generated voice samples over HTTP.
//
// A web UI lists the samples with GET /samples and plays them from
// GET /samples/{file}. /healthz and /readyz follow the usual container
// probe contract and /swagger/ serves the API docs.
//
// @title       samplegen sample server
// @version     1.0
// @description Read-only access to pre-generated voice samples.
// @BasePath    /
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadzzz/samplegen/internal/sample"
	_ "github.com/nadzzz/samplegen/internal/server/docs"
)

// Server exposes a sample.Store read-only.
type Server struct {
	port   int
	store  *sample.Store
	ready  atomic.Bool
	server *http.Server
}

// New creates a new sample server on the given port.
func New(port int, store *sample.Store) *Server {
	return &Server{port: port, store: store}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// SampleList is the body of GET /samples.
type SampleList struct {
	Samples []sample.Entry `json:"samples"`
}

type statusBody struct {
	Status string `json:"status"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleHealth)
	mux.HandleFunc("GET /samples", s.handleList)
	mux.HandleFunc("GET /samples/{file}", s.handleSample)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// ListenAndServe starts the HTTP server. It blocks until the context is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("sample server listening", "port", s.port, "dir", s.store.Dir())

	go func() {
		<-ctx.Done()
		slog.Info("sample server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("sample server: %w", err)
	}
	return nil
}

// handleHealth reports liveness.
//
// @Summary  Health probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  statusBody
// @Failure  503  {object}  statusBody
// @Router   /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, statusBody{Status: "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, statusBody{Status: "ok"})
}

// handleList lists the samples on disk.
//
// @Summary  List generated samples
// @Tags     samples
// @Produce  json
// @Success  200  {object}  SampleList
// @Failure  500  {string}  string  "Sample directory unreadable"
// @Router   /samples [get]
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		slog.Error("listing samples failed", "error", err)
		http.Error(w, "listing samples: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []sample.Entry{}
	}
	writeJSON(w, http.StatusOK, SampleList{Samples: entries})
}

// handleSample streams one sample file.
//
// @Summary  Download a sample
// @Tags     samples
// @Produce  audio/mpeg
// @Param    file  path  string  true  "Sample file name, e.g. af_bella.mp3"
// @Success  200  {file}    binary
// @Failure  400  {string}  string  "Invalid file name"
// @Failure  404  {string}  string  "Sample not found"
// @Router   /samples/{file} [get]
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	f, info, err := s.store.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, sample.ErrInvalidName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, os.ErrNotExist):
			http.NotFound(w, r)
		default:
			slog.Error("opening sample failed", "file", name, "error", err)
			http.Error(w, "opening sample", http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentType(name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// contentType maps the audio formats Kokoro can return.
func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".opus", ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".aac":
		return "audio/aac"
	case ".pcm":
		return "audio/L16"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
