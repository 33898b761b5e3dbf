// CLAUDE:SUMMARY MCP tool registration — parse, extract, analyze, format, save, list, formats tools.
package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/render"
)

// RegisterMCP registers the pipeline tools on an MCP server.
func (e *Engine) RegisterMCP(srv *mcp.Server) {
	e.registerParseTool(srv)
	e.registerTextTool(srv)
	e.registerTablesTool(srv)
	e.registerAnalyzeImageTool(srv)
	e.registerFormatTool(srv)
	e.registerSaveTool(srv)
	e.registerListOutputsTool(srv)
	e.registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool wires an endpoint that takes raw JSON arguments and returns a
// JSON-encodable value. Endpoint failures become tool errors, not
// protocol errors.
func addTool(srv *mcp.Server, tool *mcp.Tool, endpoint func(ctx context.Context, args json.RawMessage) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := endpoint(ctx, req.Params.Arguments)
		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			}, nil
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- parse_document ---

type parseReq struct {
	FilePath      string `json:"file_path"`
	AnalyzeImages *bool  `json:"analyze_images,omitempty"`
}

func (e *Engine) registerParseTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "parse_document",
		Description: "Parse a document file and extract structured content including text, tables, metadata, and images. Supports PDF, Word (.docx), Excel (.xlsx), and PowerPoint (.pptx) files.",
		InputSchema: inputSchema(map[string]any{
			"file_path":      map[string]any{"type": "string", "description": "Path to the document file to parse"},
			"analyze_images": map[string]any{"type": "boolean", "description": "Whether to analyze images using AI vision (default: true)"},
		}, []string{"file_path"}),
	}

	addTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r parseReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		enrich := r.AnalyzeImages == nil || *r.AnalyzeImages
		return e.Parse(ctx, r.FilePath, enrich)
	})
}

// --- extract_text ---

type pathReq struct {
	FilePath string `json:"file_path"`
}

func (e *Engine) registerTextTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_text",
		Description: "Extract only the plain text content from a document.",
		InputSchema: inputSchema(map[string]any{
			"file_path": map[string]any{"type": "string", "description": "Path to the document file"},
		}, []string{"file_path"}),
	}

	addTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r pathReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		text, err := e.ExtractText(r.FilePath)
		if err != nil {
			return nil, err
		}
		return map[string]any{"file": filepath.Base(r.FilePath), "text": text}, nil
	})
}

// --- extract_tables ---

func (e *Engine) registerTablesTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "extract_tables",
		Description: "Extract only tables from a document. Returns structured table data with rows and columns.",
		InputSchema: inputSchema(map[string]any{
			"file_path": map[string]any{"type": "string", "description": "Path to the document file"},
		}, []string{"file_path"}),
	}

	addTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r pathReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		tables, err := e.ExtractTables(r.FilePath)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"file":        filepath.Base(r.FilePath),
			"table_count": len(tables),
			"tables":      tables,
		}, nil
	})
}

// --- analyze_image ---

type analyzeImageReq struct {
	ImagePath string `json:"image_path"`
	Prompt    string `json:"prompt,omitempty"`
}

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func (e *Engine) registerAnalyzeImageTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "analyze_image",
		Description: "Analyze an image file using AI vision to get a detailed description.",
		InputSchema: inputSchema(map[string]any{
			"image_path": map[string]any{"type": "string", "description": "Path to the image file"},
			"prompt":     map[string]any{"type": "string", "description": "Custom prompt for the analysis (optional)"},
		}, []string{"image_path"}),
	}

	addTool(srv, tool, func(ctx context.Context, args json.RawMessage) (any, error) {
		var r analyzeImageReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(r.ImagePath)
		if err != nil {
			return nil, err
		}
		contentType := imageContentTypes[strings.ToLower(filepath.Ext(r.ImagePath))]
		if contentType == "" {
			contentType = "image/png"
		}
		return e.Vision().AnalyzeImage(ctx, data, contentType, r.Prompt), nil
	})
}

// --- format_output ---

type formatReq struct {
	Document json.RawMessage `json:"document"`
	Format   string          `json:"format"`
}

func (e *Engine) registerFormatTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "format_output",
		Description: "Convert parsed document data to a specific format (JSON, Markdown, CSV, or plain text).",
		InputSchema: inputSchema(map[string]any{
			"document": map[string]any{"type": "object", "description": "Parsed document data (from parse_document)"},
			"format":   map[string]any{"type": "string", "description": "Output format", "enum": []string{"json", "markdown", "csv", "txt"}},
		}, []string{"document", "format"}),
	}

	addTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r formatReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		doc, err := parse.Decode(r.Document)
		if err != nil {
			return nil, err
		}
		format, err := render.ParseFormat(r.Format)
		if err != nil {
			return nil, err
		}
		out, err := render.Render(doc, format)
		if err != nil {
			return nil, err
		}
		return map[string]any{"format": string(format), "content": string(out)}, nil
	})
}

// --- save_output ---

type saveReq struct {
	Document json.RawMessage `json:"document"`
	Format   string          `json:"format"`
	Filename string          `json:"filename,omitempty"`
}

func (e *Engine) registerSaveTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "save_output",
		Description: "Save parsed document to a file in the specified format.",
		InputSchema: inputSchema(map[string]any{
			"document": map[string]any{"type": "object", "description": "Parsed document data (from parse_document)"},
			"format":   map[string]any{"type": "string", "description": "Output format", "enum": []string{"json", "markdown", "csv", "txt"}},
			"filename": map[string]any{"type": "string", "description": "Custom filename without extension (optional)"},
		}, []string{"document", "format"}),
	}

	addTool(srv, tool, func(_ context.Context, args json.RawMessage) (any, error) {
		var r saveReq
		if err := json.Unmarshal(args, &r); err != nil {
			return nil, err
		}
		doc, err := parse.Decode(r.Document)
		if err != nil {
			return nil, err
		}
		format, err := render.ParseFormat(r.Format)
		if err != nil {
			return nil, err
		}
		path, err := e.Save(doc, format, r.Filename)
		if err != nil {
			return nil, err
		}
		return map[string]any{"saved": true, "path": path}, nil
	})
}

// --- list_outputs ---

func (e *Engine) registerListOutputsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "list_outputs",
		Description: "List all previously saved output files.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	addTool(srv, tool, func(_ context.Context, _ json.RawMessage) (any, error) {
		outputs, err := e.Store().List()
		if err != nil {
			return nil, err
		}
		return map[string]any{"count": len(outputs), "outputs": outputs}, nil
	})
}

// --- get_supported_formats ---

func (e *Engine) registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "get_supported_formats",
		Description: "Get information about supported input and output formats.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	addTool(srv, tool, func(_ context.Context, _ json.RawMessage) (any, error) {
		return e.ParserInfo(), nil
	})
}
