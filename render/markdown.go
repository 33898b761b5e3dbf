// CLAUDE:SUMMARY Markdown renderer — metadata list, per-family content sections, tables, image descriptions.
package render

import (
	"fmt"
	"strings"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
)

// Markdown renders doc as a human-readable Markdown report.
func Markdown(doc *parse.Document) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("# %s\n", doc.Filename))

	if doc.Metadata.Len() > 0 {
		lines = append(lines, "## Metadata\n")
		for _, f := range doc.Metadata {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", f.Key, f.Value))
		}
		lines = append(lines, "")
	}

	switch {
	case doc.Content.PDF != nil:
		lines = append(lines, pdfMarkdown(doc.Content.PDF)...)
	case doc.Content.Word != nil:
		lines = append(lines, wordMarkdown(doc.Content.Word)...)
	case doc.Content.Excel != nil:
		lines = append(lines, excelMarkdown(doc.Content.Excel)...)
	case doc.Content.PowerPoint != nil:
		lines = append(lines, powerPointMarkdown(doc.Content.PowerPoint)...)
	}

	if len(doc.Tables) > 0 {
		lines = append(lines, "\n## Tables\n")
		for i, table := range doc.Tables {
			lines = append(lines, fmt.Sprintf("### Table %d\n", i+1))
			lines = append(lines, tableMarkdown(table)...)
			lines = append(lines, "")
		}
	}

	if len(doc.Images) > 0 {
		lines = append(lines, "\n## Images\n")
		for i, img := range doc.Images {
			desc := img.Description
			if desc == "" {
				desc = "Image"
			}
			lines = append(lines, fmt.Sprintf("- **Image %d**: %s", i+1, desc))
		}
	}

	return strings.Join(lines, "\n")
}

func pdfMarkdown(content *parse.PDFContent) []string {
	lines := []string{fmt.Sprintf("## Content (%d pages)\n", content.TotalPages)}
	for _, page := range content.Pages {
		lines = append(lines, fmt.Sprintf("### Page %d\n", page.PageNumber))
		lines = append(lines, page.Text, "")
	}
	return lines
}

func wordMarkdown(content *parse.WordContent) []string {
	lines := []string{"## Content\n"}
	for _, para := range content.Paragraphs {
		if para.IsHeading {
			level := para.HeadingLevel
			if level < 1 {
				level = 2
			}
			// Document headings shift one level down so the filename
			// stays the only H1.
			lines = append(lines, fmt.Sprintf("%s %s\n", strings.Repeat("#", level+1), para.Text))
		} else {
			lines = append(lines, para.Text, "")
		}
	}
	return lines
}

func excelMarkdown(content *parse.ExcelContent) []string {
	var lines []string
	for _, sheet := range content.Sheets {
		lines = append(lines, fmt.Sprintf("## %s\n", sheet.Name))
		if len(sheet.Data) > 0 {
			headers := sheet.Data[0]
			lines = append(lines, markdownRow(headers))
			lines = append(lines, markdownSeparator(len(headers)))
			for _, row := range sheet.Data[1:] {
				lines = append(lines, markdownRow(row))
			}
		}
		lines = append(lines, "")
	}
	return lines
}

func powerPointMarkdown(content *parse.PowerPointContent) []string {
	var lines []string
	for _, slide := range content.Slides {
		title := slide.Title
		if title == "" {
			title = fmt.Sprintf("Slide %d", slide.SlideNumber)
		}
		lines = append(lines, fmt.Sprintf("## Slide %d: %s\n", slide.SlideNumber, title))

		for _, text := range slide.Content {
			if strings.TrimSpace(text) != "" {
				lines = append(lines, text)
			}
		}
		for _, img := range slide.Images {
			desc := img.Description
			if desc == "" {
				desc = "Image"
			}
			lines = append(lines, fmt.Sprintf("\n*[Image: %s]*\n", desc))
		}
		for _, chart := range slide.Charts {
			title := chart.Title
			if title == "" {
				title = "Chart"
			}
			chartType := chart.ChartType
			if chartType == "" {
				chartType = "Unknown"
			}
			lines = append(lines, fmt.Sprintf("\n*[%s: %s]*\n", chartType, title))
		}
		if slide.Notes != "" {
			lines = append(lines, fmt.Sprintf("\n> **Speaker Notes**: %s\n", slide.Notes))
		}
		lines = append(lines, "---\n")
	}
	return lines
}

func tableMarkdown(table parse.Table) []string {
	headers := table.Headers
	data := table.Data
	if len(headers) == 0 && len(data) > 0 {
		headers = data[0]
		data = data[1:]
	}

	var lines []string
	if len(headers) > 0 {
		lines = append(lines, markdownRow(headers))
		lines = append(lines, markdownSeparator(len(headers)))
	}
	for _, row := range data {
		lines = append(lines, markdownRow(row))
	}
	return lines
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func markdownSeparator(width int) string {
	cells := make([]string, width)
	for i := range cells {
		cells[i] = "---"
	}
	return markdownRow(cells)
}
