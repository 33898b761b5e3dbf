// CLAUDE:SUMMARY API handlers — multipart parse, output listing/download/delete/clear, formats, run history.
package web

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/render"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response failed", "error", err)
	}
}

// writeError maps pipeline error kinds onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case parse.IsKind(err, parse.KindNotFound):
		status = http.StatusNotFound
	case parse.IsKind(err, parse.KindUnsupportedExtension),
		parse.IsKind(err, parse.KindContentTypeMismatch),
		parse.IsKind(err, parse.KindEmptyFile),
		parse.IsKind(err, parse.KindUnsupportedOutput),
		parse.IsKind(err, parse.KindNoParser):
		status = http.StatusBadRequest
	case parse.IsKind(err, parse.KindSizeExceeded):
		status = http.StatusRequestEntityTooLarge
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleParse accepts a multipart upload under "file", parses it and
// returns the document JSON. Optional form fields: analyze_images
// (bool, default false over HTTP), save (output format name) and
// filename (custom output name, used with save).
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		http.Error(w, "upload too large or malformed", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// The parsers work from paths, so stage the upload in a temp dir
	// keeping its original name for extension detection.
	tmpDir, err := os.MkdirTemp("", "upload-")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	dst.Close()

	enrich, _ := strconv.ParseBool(r.FormValue("analyze_images"))
	doc, err := s.engine.Parse(r.Context(), path, enrich)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := map[string]any{"document": doc}
	if formatName := r.FormValue("save"); formatName != "" {
		format, err := render.ParseFormat(formatName)
		if err != nil {
			s.writeError(w, err)
			return
		}
		saved, err := s.engine.Save(doc, format, r.FormValue("filename"))
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp["saved_to"] = saved
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.ParserInfo())
}

func (s *Server) handleListOutputs(w http.ResponseWriter, _ *http.Request) {
	outputs, err := s.engine.Store().List()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(outputs),
		"outputs": outputs,
	})
}

func (s *Server) handleDownloadOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	path, ok := s.engine.Store().Get(name)
	if !ok {
		http.Error(w, "output not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleDeleteOutput(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	deleted, err := s.engine.Store().Delete(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "output not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted": name})
}

func (s *Server) handleClearOutputs(w http.ResponseWriter, _ *http.Request) {
	count, err := s.engine.Store().Clear()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"deleted_count": count})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.engine.History() == nil {
		http.Error(w, "run history not enabled", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.engine.History().Recent(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"count": len(runs), "runs": runs})
}
