// CLAUDE:SUMMARY HTTP JSON API — upload-and-parse plus output management endpoints on a chi router.
// Package web exposes the document pipeline over HTTP.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/engine"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/validate"
)

// Server serves the JSON API.
type Server struct {
	engine *engine.Engine
	logger *slog.Logger

	// maxUpload caps multipart uploads; defaults to the validation
	// pipeline's file size limit.
	maxUpload int64
}

// New builds the API server around an engine.
func New(e *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:    e,
		logger:    logger,
		maxUpload: validate.MaxFileSize,
	}
}

// Router builds the chi router with all endpoints registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers endpoints on an existing chi router.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Post("/api/parse", s.handleParse)
	r.Get("/api/formats", s.handleFormats)

	r.Get("/api/outputs", s.handleListOutputs)
	r.Get("/api/outputs/{filename}", s.handleDownloadOutput)
	r.Delete("/api/outputs/{filename}", s.handleDeleteOutput)
	r.Post("/api/outputs/clear", s.handleClearOutputs)

	r.Get("/api/history", s.handleHistory)
}
