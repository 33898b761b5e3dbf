// CLAUDE:SUMMARY Pipeline façade — validate, dispatch to the right parser, enrich images, persist, log runs.
// Package engine ties validation, parsing, vision enrichment, output
// persistence and the run log together behind one façade used by the
// CLI, the web API and the MCP server.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/history"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/render"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/validate"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/vision"
)

// Engine is the document pipeline façade.
type Engine struct {
	cfg     *Config
	store   *render.Store
	vision  *vision.Client
	history *history.Store
	log     *slog.Logger
}

// New builds an Engine from cfg. The run log opens only when
// cfg.HistoryDB is set.
func New(cfg *Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg.defaults()

	store, err := render.NewStore(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:    cfg,
		store:  store,
		vision: vision.New(cfg.Vision, log),
		log:    log,
	}
	if cfg.HistoryDB != "" {
		h, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		e.history = h
	}
	return e, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if e.history != nil {
		return e.history.Close()
	}
	return nil
}

// Store exposes the output store.
func (e *Engine) Store() *render.Store { return e.store }

// Vision exposes the vision client.
func (e *Engine) Vision() *vision.Client { return e.vision }

// History exposes the run log, nil when disabled.
func (e *Engine) History() *history.Store { return e.history }

// NewParser validates path and returns the parser for its format
// family.
func NewParser(path string) (parse.Parser, error) {
	family, err := validate.File(path)
	if err != nil {
		return nil, err
	}
	switch family {
	case parse.TypePDF:
		return parse.NewPDF(path)
	case parse.TypeWord:
		return parse.NewWord(path)
	case parse.TypeExcel:
		return parse.NewExcel(path)
	case parse.TypePowerPoint:
		return parse.NewPowerPoint(path)
	}
	return nil, parse.Errorf(parse.KindNoParser, "no parser available for %s files", family)
}

// Parse runs the full pipeline on path. With enrich set, extracted
// images that carry data are described through the vision API; vision
// failures degrade to soft errors on the document.
func (e *Engine) Parse(ctx context.Context, path string, enrich bool) (*parse.Document, error) {
	start := time.Now()
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}

	doc := p.Parse(ctx)
	if enrich {
		e.enrichImages(ctx, doc)
	}

	duration := time.Since(start)
	e.log.Info("parsed document",
		"file", doc.Filename,
		"type", string(doc.FileType),
		"tables", len(doc.Tables),
		"images", len(doc.Images),
		"errors", len(doc.Errors),
		"duration", duration)
	e.recordRun(ctx, doc, duration, "")
	return doc, nil
}

// ParseToJSON parses and renders the document as indented JSON.
func (e *Engine) ParseToJSON(ctx context.Context, path string, enrich bool) ([]byte, error) {
	doc, err := e.Parse(ctx, path, enrich)
	if err != nil {
		return nil, err
	}
	return render.Render(doc, render.FormatJSON)
}

// ExtractText validates path and returns its plain text.
func (e *Engine) ExtractText(path string) (string, error) {
	p, err := NewParser(path)
	if err != nil {
		return "", err
	}
	return p.ExtractText()
}

// ExtractTables validates path and returns its normalized tables.
func (e *Engine) ExtractTables(path string) ([]parse.Table, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	return p.ExtractTables()
}

// ExtractMetadata validates path and returns its metadata.
func (e *Engine) ExtractMetadata(path string) (parse.Metadata, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	return p.ExtractMetadata()
}

// ParserInfo describes the supported input and output surface. All
// format-discovery endpoints serve this same shape.
func (e *Engine) ParserInfo() map[string]any {
	return map[string]any{
		"input_extensions": parse.SupportedExtensions(),
		"output_formats":   render.Formats(),
		"vision_available": e.vision.Available(),
	}
}

// Save renders doc into the output store.
func (e *Engine) Save(doc *parse.Document, format render.Format, name string) (string, error) {
	path, err := e.store.Save(doc, format, name)
	if err != nil {
		return "", err
	}
	e.log.Info("saved output", "path", path, "format", string(format))
	return path, nil
}

// enrichImages runs vision analysis over every image that carries
// payload bytes. Images whose shape name suggests a chart get the
// chart-focused prompt.
func (e *Engine) enrichImages(ctx context.Context, doc *parse.Document) {
	if !e.vision.Available() {
		return
	}
	for i := range doc.Images {
		img := &doc.Images[i]
		if len(img.Data) == 0 {
			continue
		}
		contentType := img.ContentType
		if contentType == "" {
			contentType = "image/png"
		}

		var res vision.Result
		if looksLikeChart(img.Name) {
			res = e.vision.AnalyzeChart(ctx, img.Data, contentType, "")
		} else {
			res = e.vision.AnalyzeImage(ctx, img.Data, contentType, "")
		}

		if res.Success {
			img.Description = res.Description
			img.AIAnalyzed = true
		} else {
			img.Description = "Image analysis failed"
			img.AIError = res.Error
			doc.AddError("vision", fmt.Errorf("image %s: %s", img.Name, res.Error))
		}
	}
}

func looksLikeChart(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "chart") || strings.Contains(name, "graph") ||
		strings.Contains(name, "plot")
}

func (e *Engine) recordRun(ctx context.Context, doc *parse.Document, duration time.Duration, outputPath string) {
	if e.history == nil {
		return
	}
	_, err := e.history.Record(ctx, history.Run{
		Filename:   filepath.Base(doc.Filename),
		FileType:   string(doc.FileType),
		ParsedAt:   doc.ParsedAt,
		Duration:   duration,
		ErrorCount: len(doc.Errors),
		OutputPath: outputPath,
	})
	if err != nil {
		e.log.Warn("run log write failed", "error", err)
	}
}
