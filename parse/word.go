// CLAUDE:SUMMARY Word parser variant — body paragraphs with heading levels, section geometry, tables, inline image refs.
package parse

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	twipsPerInch = 1440.0   // pgSz / pgMar units
	emuPerInch   = 914400.0 // drawing extent units
)

// WordParser extracts paragraphs, section geometry, tables, and inline
// image references from .docx files. The .doc extension is accepted but
// the OLE container is rejected with a soft error at parse time.
type WordParser struct {
	path string

	loaded     bool
	paragraphs []Paragraph
	sections   []DocSection
	tables     []Table
	images     []Image
	core       Metadata
}

// NewWord opens a Word parser for path.
func NewWord(path string) (*WordParser, error) {
	if err := checkFile(path, TypeWord); err != nil {
		return nil, err
	}
	return &WordParser{path: path}, nil
}

// FileType implements Parser.
func (p *WordParser) FileType() FileType { return TypeWord }

// open reads and walks word/document.xml on first use.
func (p *WordParser) open() error {
	if p.loaded {
		return nil
	}
	zr, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(p.path), err)
	}
	defer zr.Close()

	p.core, _ = readCoreProperties(&zr.Reader)

	styles := readWordStyles(&zr.Reader)

	data, err := readZipFile(&zr.Reader, "word/document.xml")
	if err != nil {
		return err
	}
	if err := p.walkDocument(data, styles); err != nil {
		return err
	}
	p.loaded = true
	return nil
}

// Parse implements Parser.
func (p *WordParser) Parse(ctx context.Context) *Document {
	doc := NewDocument(filepath.Base(p.path), TypeWord)
	if err := p.open(); err != nil {
		doc.AddError("open", err)
		return doc
	}
	if ctx.Err() != nil {
		doc.AddError("content", ctx.Err())
		return doc
	}

	meta, err := p.ExtractMetadata()
	if err != nil {
		doc.AddError("metadata", err)
	} else {
		doc.Metadata = meta
	}

	doc.Content.Word = &WordContent{
		Paragraphs: p.paragraphs,
		Sections:   p.sections,
	}
	doc.Tables = p.tables
	doc.Images = p.images
	return doc
}

// ExtractText implements Parser. Paragraphs are joined with blank lines.
func (p *WordParser) ExtractText() (string, error) {
	if err := p.open(); err != nil {
		return "", err
	}
	parts := make([]string, 0, len(p.paragraphs))
	for _, para := range p.paragraphs {
		parts = append(parts, para.Text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// ExtractMetadata implements Parser.
func (p *WordParser) ExtractMetadata() (Metadata, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	meta := Metadata{}
	meta = append(meta, p.core...)
	meta.Set("paragraph_count", strconv.Itoa(len(p.paragraphs)))
	meta.Set("table_count", strconv.Itoa(len(p.tables)))
	meta.Set("section_count", strconv.Itoa(len(p.sections)))
	return meta, nil
}

// ExtractTables implements Parser.
func (p *WordParser) ExtractTables() ([]Table, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	return p.tables, nil
}

// ExtractImages implements Parser. Word images are metadata-only
// references (index and display dimensions), matching the inline-shape
// view of the document.
func (p *WordParser) ExtractImages() ([]Image, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	return p.images, nil
}

// wordHeadingLevel classifies a style name against the `Heading <N>`
// pattern. A non-numeric suffix defaults to level 1.
func wordHeadingLevel(style string) (bool, int) {
	if !strings.HasPrefix(style, "Heading") {
		return false, 0
	}
	rest := strings.TrimSpace(strings.TrimPrefix(style, "Heading"))
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 {
		return true, 1
	}
	return true, level
}

// readWordStyles maps styleId → friendly style name from
// word/styles.xml ("Heading1" → "Heading 1"). Missing part is fine.
func readWordStyles(zr *zip.Reader) map[string]string {
	styles := map[string]string{}
	data, err := readZipFile(zr, "word/styles.xml")
	if err != nil {
		return styles
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var styleID string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "style":
			styleID = ""
			for _, a := range se.Attr {
				if a.Name.Local == "styleId" {
					styleID = a.Value
				}
			}
		case "name":
			if styleID != "" {
				for _, a := range se.Attr {
					if a.Name.Local == "val" {
						styles[styleID] = a.Value
					}
				}
			}
		}
	}
	return styles
}

// walkDocument token-walks word/document.xml, collecting body
// paragraphs (table paragraphs excluded), tables, section geometry, and
// inline images in document order.
func (p *WordParser) walkDocument(data []byte, styles map[string]string) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		paraIndex  int
		inPara     bool
		inText     bool
		paraText   strings.Builder
		paraStyle  string
		tableDepth int

		table   *Table
		row     []string
		inCell  bool
		cellBuf strings.Builder

		inSect  bool
		section DocSection

		inInline bool
		image    Image
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					table = &Table{}
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cellBuf.Reset()
				}
			case "p":
				if tableDepth == 0 {
					inPara = true
					paraText.Reset()
					paraStyle = ""
				}
			case "pStyle":
				if inPara {
					for _, a := range t.Attr {
						if a.Name.Local == "val" {
							paraStyle = a.Value
						}
					}
				}
			case "sectPr":
				inSect = true
				section = DocSection{Index: len(p.sections)}
			case "pgSz":
				if inSect {
					for _, a := range t.Attr {
						switch a.Name.Local {
						case "w":
							section.PageWidth = twipsToInches(a.Value)
						case "h":
							section.PageHeight = twipsToInches(a.Value)
						}
					}
				}
			case "pgMar":
				if inSect {
					for _, a := range t.Attr {
						switch a.Name.Local {
						case "left":
							section.LeftMargin = twipsToInches(a.Value)
						case "right":
							section.RightMargin = twipsToInches(a.Value)
						case "top":
							section.TopMargin = twipsToInches(a.Value)
						case "bottom":
							section.BottomMargin = twipsToInches(a.Value)
						}
					}
				}
			case "inline":
				inInline = true
				image = Image{Index: len(p.images)}
			case "extent":
				if inInline {
					for _, a := range t.Attr {
						switch a.Name.Local {
						case "cx":
							image.Width = emuToInches(a.Value)
						case "cy":
							image.Height = emuToInches(a.Value)
						}
					}
				}
			case "docPr":
				if inInline {
					for _, a := range t.Attr {
						if a.Name.Local == "name" {
							image.Name = a.Value
						}
					}
				}
			case "t":
				inText = true
			}

		case xml.CharData:
			if !inText {
				continue
			}
			if inCell {
				cellBuf.Write(t)
			} else if inPara {
				paraText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tbl":
				if tableDepth == 1 && table != nil {
					table.Normalize()
					p.tables = append(p.tables, *table)
					table = nil
				}
				tableDepth--
			case "tr":
				if tableDepth == 1 && table != nil {
					table.Data = append(table.Data, row)
					row = nil
				}
			case "tc":
				if tableDepth == 1 && inCell {
					row = append(row, strings.TrimSpace(cellBuf.String()))
					inCell = false
				}
			case "p":
				if tableDepth == 0 && inPara {
					inPara = false
					text := strings.TrimSpace(paraText.String())
					index := paraIndex
					paraIndex++
					if text == "" {
						continue
					}
					style := paraStyle
					if name, ok := styles[paraStyle]; ok {
						style = name
					}
					para := Paragraph{Index: index, Text: text, Style: style}
					if isHeading, level := wordHeadingLevel(style); isHeading {
						para.IsHeading = true
						para.HeadingLevel = level
					}
					p.paragraphs = append(p.paragraphs, para)
				}
			case "sectPr":
				if inSect {
					inSect = false
					if section.PageWidth > section.PageHeight {
						section.Orientation = "landscape"
					} else {
						section.Orientation = "portrait"
					}
					p.sections = append(p.sections, section)
				}
			case "inline":
				if inInline {
					inInline = false
					p.images = append(p.images, image)
				}
			}
		}
	}

	if p.paragraphs == nil {
		p.paragraphs = []Paragraph{}
	}
	if p.sections == nil {
		p.sections = []DocSection{}
	}
	if p.tables == nil {
		p.tables = []Table{}
	}
	if p.images == nil {
		p.images = []Image{}
	}
	return nil
}

func twipsToInches(v string) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n / twipsPerInch
}

func emuToInches(v string) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return n / emuPerInch
}
