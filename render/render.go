// CLAUDE:SUMMARY Output format registry and JSON/plain-text renderers for parsed documents.
// Package render converts parsed documents into the supported output
// formats and persists them under an output directory.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
)

// Format names an output rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatText     Format = "txt"
)

// Formats lists the supported output formats in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatMarkdown, FormatCSV, FormatText}
}

// extensions maps formats to file extensions.
var extensions = map[Format]string{
	FormatJSON:     ".json",
	FormatMarkdown: ".md",
	FormatCSV:      ".csv",
	FormatText:     ".txt",
}

// ParseFormat normalizes a user-supplied format name. "md" and "text"
// aliases are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", parse.Errorf(parse.KindUnsupportedOutput,
		"unsupported output format: %q (supported: json, markdown, csv, txt)", s)
}

// Render converts doc into the given format.
func Render(doc *parse.Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return renderJSON(doc)
	case FormatMarkdown:
		return []byte(Markdown(doc)), nil
	case FormatCSV:
		return renderCSV(doc)
	case FormatText:
		return []byte(Text(doc)), nil
	}
	return nil, parse.Errorf(parse.KindUnsupportedOutput,
		"unsupported output format: %q", format)
}

func renderJSON(doc *parse.Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(out, '\n'), nil
}

// Text renders doc as plain text: a filename banner followed by the
// textual content of each format family.
func Text(doc *parse.Document) string {
	var lines []string
	lines = append(lines, doc.Filename)
	lines = append(lines, strings.Repeat("=", len(doc.Filename)))
	lines = append(lines, "")

	switch {
	case doc.Content.PDF != nil:
		for _, page := range doc.Content.PDF.Pages {
			lines = append(lines, page.Text, "")
		}
	case doc.Content.Word != nil:
		for _, para := range doc.Content.Word.Paragraphs {
			lines = append(lines, para.Text)
		}
	case doc.Content.Excel != nil:
		for _, sheet := range doc.Content.Excel.Sheets {
			lines = append(lines, fmt.Sprintf("\n[%s]\n", sheet.Name))
			for _, row := range sheet.Data {
				lines = append(lines, strings.Join(row, "\t"))
			}
		}
	case doc.Content.PowerPoint != nil:
		for _, slide := range doc.Content.PowerPoint.Slides {
			title := slide.Title
			if title == "" {
				title = fmt.Sprintf("Slide %d", slide.SlideNumber)
			}
			lines = append(lines, fmt.Sprintf("\n[%s]\n", title))
			for _, text := range slide.Content {
				if text != "" {
					lines = append(lines, text)
				}
			}
		}
	}
	return strings.Join(lines, "\n")
}
