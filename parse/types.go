// CLAUDE:SUMMARY Defines FileType, the normalized Document model, and its format-tagged content variants.
package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// FileType identifies a document format family.
type FileType string

const (
	TypePDF        FileType = "pdf"
	TypeWord       FileType = "word"
	TypeExcel      FileType = "excel"
	TypePowerPoint FileType = "powerpoint"
)

// Document is the normalized result of parsing any supported file.
// It is the single contract between the parsers and the renderers:
// parsers produce it, enrichment mutates image descriptions in place,
// renderers consume it.
type Document struct {
	Filename string       `json:"filename"`
	FileType FileType     `json:"file_type"`
	ParsedAt time.Time    `json:"parsed_at"` // set once at creation
	Metadata Metadata     `json:"metadata"`
	Content  Content      `json:"content"`
	Tables   []Table      `json:"tables"`
	Images   []Image      `json:"images"`
	Errors   []ParseError `json:"errors"`
}

// NewDocument creates an empty Document for the given file.
func NewDocument(filename string, ft FileType) *Document {
	return &Document{
		Filename: filename,
		FileType: ft,
		ParsedAt: time.Now().UTC(),
		Metadata: Metadata{},
		Tables:   []Table{},
		Images:   []Image{},
		Errors:   []ParseError{},
	}
}

// AddError records a soft failure. The document stays valid; parsing
// continues with whatever could be extracted.
func (d *Document) AddError(kind string, err error) {
	d.Errors = append(d.Errors, ParseError{Kind: kind, Message: err.Error()})
}

// ParseError is a soft failure captured during extraction.
type ParseError struct {
	Kind    string `json:"kind"` // open, metadata, content, tables, images, vision
	Message string `json:"message"`
}

// Content holds exactly one format-specific shape, selected by the
// document's FileType. The variants are never mixed.
type Content struct {
	PDF        *PDFContent        `json:"-"`
	Word       *WordContent       `json:"-"`
	Excel      *ExcelContent      `json:"-"`
	PowerPoint *PowerPointContent `json:"-"`
}

// MarshalJSON emits the populated variant inline, or {} when empty.
func (c Content) MarshalJSON() ([]byte, error) {
	switch {
	case c.PDF != nil:
		return json.Marshal(c.PDF)
	case c.Word != nil:
		return json.Marshal(c.Word)
	case c.Excel != nil:
		return json.Marshal(c.Excel)
	case c.PowerPoint != nil:
		return json.Marshal(c.PowerPoint)
	}
	return []byte("{}"), nil
}

// UnmarshalJSON rehydrates a Document, dispatching the content variant
// by file_type. Decode is the usual entry point.
func (d *Document) UnmarshalJSON(data []byte) error {
	var aux struct {
		Filename string          `json:"filename"`
		FileType FileType        `json:"file_type"`
		ParsedAt time.Time       `json:"parsed_at"`
		Metadata Metadata        `json:"metadata"`
		Content  json.RawMessage `json:"content"`
		Tables   []Table         `json:"tables"`
		Images   []Image         `json:"images"`
		Errors   []ParseError    `json:"errors"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Filename = aux.Filename
	d.FileType = aux.FileType
	d.ParsedAt = aux.ParsedAt
	d.Metadata = aux.Metadata
	d.Tables = aux.Tables
	d.Images = aux.Images
	d.Errors = aux.Errors
	d.Content = Content{}

	if len(aux.Content) == 0 || bytes.Equal(bytes.TrimSpace(aux.Content), []byte("{}")) {
		return nil
	}
	switch aux.FileType {
	case TypePDF:
		d.Content.PDF = &PDFContent{}
		return json.Unmarshal(aux.Content, d.Content.PDF)
	case TypeWord:
		d.Content.Word = &WordContent{}
		return json.Unmarshal(aux.Content, d.Content.Word)
	case TypeExcel:
		d.Content.Excel = &ExcelContent{}
		return json.Unmarshal(aux.Content, d.Content.Excel)
	case TypePowerPoint:
		d.Content.PowerPoint = &PowerPointContent{}
		return json.Unmarshal(aux.Content, d.Content.PowerPoint)
	}
	return fmt.Errorf("unknown file_type: %q", aux.FileType)
}

// Decode rehydrates a Document that was round-tripped through the
// structured output format.
func Decode(data []byte) (*Document, error) {
	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// PDFContent is the page-based content shape.
type PDFContent struct {
	TotalPages int    `json:"total_pages"`
	Pages      []Page `json:"pages"`
}

// Page is one PDF page in document order.
type Page struct {
	PageNumber int     `json:"page_number"`
	Text       string  `json:"text"`
	Width      float64 `json:"width,omitempty"`  // points
	Height     float64 `json:"height,omitempty"` // points
}

// WordContent is the paragraph-based content shape.
type WordContent struct {
	Paragraphs []Paragraph  `json:"paragraphs"`
	Sections   []DocSection `json:"sections"`
}

// Paragraph is one body paragraph with style classification.
type Paragraph struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	Style        string `json:"style,omitempty"`
	IsHeading    bool   `json:"is_heading,omitempty"`
	HeadingLevel int    `json:"heading_level,omitempty"`
}

// DocSection carries page geometry for one Word section.
// Dimensions and margins are in inches.
type DocSection struct {
	Index        int     `json:"index"`
	PageWidth    float64 `json:"page_width,omitempty"`
	PageHeight   float64 `json:"page_height,omitempty"`
	Orientation  string  `json:"orientation"` // landscape iff width > height
	LeftMargin   float64 `json:"left_margin,omitempty"`
	RightMargin  float64 `json:"right_margin,omitempty"`
	TopMargin    float64 `json:"top_margin,omitempty"`
	BottomMargin float64 `json:"bottom_margin,omitempty"`
}

// ExcelContent is the sheet-based content shape.
type ExcelContent struct {
	SheetCount int      `json:"sheet_count"`
	SheetNames []string `json:"sheet_names"`
	Sheets     []Sheet  `json:"sheets"`
}

// Sheet is one worksheet in workbook order. Data holds only rows with
// at least one non-empty cell; fully blank rows are dropped.
type Sheet struct {
	Name        string     `json:"name"`
	Dimensions  string     `json:"dimensions,omitempty"` // e.g. A1:C10
	Data        [][]string `json:"data"`
	MergedCells []string   `json:"merged_cells,omitempty"`
}

// PowerPointContent is the slide-based content shape.
type PowerPointContent struct {
	SlideCount int     `json:"slide_count"`
	Slides     []Slide `json:"slides"`
}

// Slide is one slide in deck order. A shape can contribute to Content
// and simultaneously appear under Images/Tables/Charts; the categories
// are not mutually exclusive.
type Slide struct {
	SlideNumber int      `json:"slide_number"`
	Layout      string   `json:"layout,omitempty"`
	Title       string   `json:"title,omitempty"`
	Content     []string `json:"content"`
	Shapes      []Shape  `json:"shapes"`
	Notes       string   `json:"notes,omitempty"`
	Images      []Image  `json:"images,omitempty"`
	Tables      []Table  `json:"tables,omitempty"`
	Charts      []Chart  `json:"charts,omitempty"`
}

// Shape is a flat descriptor of one slide shape.
type Shape struct {
	Name    string `json:"name,omitempty"`
	Text    string `json:"text,omitempty"`
	IsImage bool   `json:"is_image,omitempty"`
	IsTable bool   `json:"is_table,omitempty"`
	IsChart bool   `json:"is_chart,omitempty"`
}

// Chart describes an embedded chart.
type Chart struct {
	SlideNumber int    `json:"slide_number,omitempty"`
	Name        string `json:"name,omitempty"`
	ChartType   string `json:"chart_type,omitempty"`
	Title       string `json:"title,omitempty"`
}

// Table is the format-independent tabular view. Invariants:
// Rows == len(Data), and every row (and Headers, when set) has exactly
// Columns entries. Short rows are padded, never silently truncated.
type Table struct {
	Name    string     `json:"name,omitempty"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Headers []string   `json:"headers"`
	Data    [][]string `json:"data"`
}

// Normalize pads Headers and Data rows to Columns entries and fixes up
// the Rows/Columns counters. Called by every parser before a table is
// attached to a document.
func (t *Table) Normalize() {
	width := t.Columns
	if len(t.Headers) > width {
		width = len(t.Headers)
	}
	for _, row := range t.Data {
		if len(row) > width {
			width = len(row)
		}
	}
	t.Columns = width
	if len(t.Headers) > 0 {
		t.Headers = padRow(t.Headers, width)
	}
	for i, row := range t.Data {
		t.Data[i] = padRow(row, width)
	}
	t.Rows = len(t.Data)
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

// Image is one extracted image reference. Data is present only when the
// source format exposes raw bytes (PowerPoint); PDF and Word images are
// metadata-only. Description is filled by enrichment after parsing,
// never by a parser.
type Image struct {
	Page        int     `json:"page,omitempty"`         // PDF page number
	SlideNumber int     `json:"slide_number,omitempty"` // PowerPoint slide number
	Index       int     `json:"index,omitempty"`        // Word inline shape index
	Name        string  `json:"name,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	ColorSpace  string  `json:"color_space,omitempty"`
	ContentType string  `json:"content_type,omitempty"`
	Data        []byte  `json:"data,omitempty"` // base64 in JSON
	Description string  `json:"description,omitempty"`
	AIAnalyzed  bool    `json:"ai_analyzed,omitempty"`
	AIError     string  `json:"ai_error,omitempty"`
}
