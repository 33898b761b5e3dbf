// CLAUDE:SUMMARY PowerPoint parser variant — slide/shape fan-out with image bytes, tables, charts, and speaker notes.
package parse

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PowerPointParser extracts slides from .pptx decks. Every shape is
// inspected once and classified into at most one of image/table/chart
// plus optional free text; a shape can contribute text and still be
// flagged image/table/chart. Image payloads carry raw bytes and MIME so
// the vision adapter has something real to analyze.
type PowerPointParser struct {
	path string

	loaded      bool
	slides      []Slide
	tables      []Table
	images      []Image
	core        Metadata
	slideWidth  float64
	slideHeight float64
}

// NewPowerPoint opens a PowerPoint parser for path.
func NewPowerPoint(path string) (*PowerPointParser, error) {
	if err := checkFile(path, TypePowerPoint); err != nil {
		return nil, err
	}
	return &PowerPointParser{path: path}, nil
}

// FileType implements Parser.
func (p *PowerPointParser) FileType() FileType { return TypePowerPoint }

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func (p *PowerPointParser) open() error {
	if p.loaded {
		return nil
	}
	zr, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(p.path), err)
	}
	defer zr.Close()

	p.core, _ = readCoreProperties(&zr.Reader)
	p.readSlideSize(&zr.Reader)

	// Slides in deck order.
	type slideRef struct {
		nr   int
		name string
	}
	var refs []slideRef
	for _, f := range zr.File {
		m := slideNameRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		nr, _ := strconv.Atoi(m[1])
		refs = append(refs, slideRef{nr: nr, name: f.Name})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].nr < refs[j].nr })

	for i, ref := range refs {
		slide, err := p.extractSlide(&zr.Reader, i+1, ref.name)
		if err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
		p.slides = append(p.slides, slide)
	}
	p.loaded = true
	return nil
}

// Parse implements Parser.
func (p *PowerPointParser) Parse(ctx context.Context) *Document {
	doc := NewDocument(filepath.Base(p.path), TypePowerPoint)
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

	doc.Content.PowerPoint = &PowerPointContent{
		SlideCount: len(p.slides),
		Slides:     p.slides,
	}
	doc.Tables = p.tables
	doc.Images = p.images
	return doc
}

// ExtractText implements Parser.
func (p *PowerPointParser) ExtractText() (string, error) {
	if err := p.open(); err != nil {
		return "", err
	}
	var parts []string
	for _, slide := range p.slides {
		parts = append(parts, fmt.Sprintf("=== Slide %d ===", slide.SlideNumber))
		parts = append(parts, slide.Content...)
		if slide.Notes != "" {
			parts = append(parts, fmt.Sprintf("[Speaker Notes: %s]", slide.Notes))
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n"), nil
}

// ExtractMetadata implements Parser.
func (p *PowerPointParser) ExtractMetadata() (Metadata, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	meta := Metadata{}
	meta = append(meta, p.core...)
	meta.Set("slide_count", strconv.Itoa(len(p.slides)))
	if p.slideWidth > 0 {
		meta.Set("slide_width", fmt.Sprintf("%.2f", p.slideWidth))
		meta.Set("slide_height", fmt.Sprintf("%.2f", p.slideHeight))
	}
	return meta, nil
}

// ExtractTables implements Parser.
func (p *PowerPointParser) ExtractTables() ([]Table, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	return p.tables, nil
}

// ExtractImages implements Parser.
func (p *PowerPointParser) ExtractImages() ([]Image, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	return p.images, nil
}

func (p *PowerPointParser) readSlideSize(zr *zip.Reader) {
	data, err := readZipFile(zr, "ppt/presentation.xml")
	if err != nil {
		return
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldSz" {
			continue
		}
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "cx":
				p.slideWidth = emuToInches(a.Value)
			case "cy":
				p.slideHeight = emuToInches(a.Value)
			}
		}
		return
	}
}

// pptShape accumulates state for the shape currently being walked.
type pptShape struct {
	kind     string // sp, pic, graphicFrame
	name     string
	phType   string
	text     strings.Builder
	blipRel  string
	chartRel string
	table    *Table
}

func (p *PowerPointParser) extractSlide(zr *zip.Reader, nr int, entry string) (Slide, error) {
	slide := Slide{SlideNumber: nr, Content: []string{}, Shapes: []Shape{}}

	base := strings.TrimPrefix(entry, "ppt/slides/")
	rels, err := readRelationships(zr, "ppt/slides/_rels/"+base+".rels")
	if err != nil {
		return slide, err
	}

	data, err := readZipFile(zr, entry)
	if err != nil {
		return slide, err
	}

	shapes, err := walkSlideShapes(data)
	if err != nil {
		return slide, err
	}

	for _, sh := range shapes {
		text := strings.TrimSpace(sh.text.String())
		descr := Shape{
			Name:    sh.name,
			Text:    text,
			IsImage: sh.kind == "pic",
			IsTable: sh.table != nil,
			IsChart: sh.chartRel != "",
		}
		slide.Shapes = append(slide.Shapes, descr)

		// Fan-out: categories are not mutually exclusive.
		if text != "" {
			slide.Content = append(slide.Content, text)
		}
		if slide.Title == "" && (sh.phType == "title" || sh.phType == "ctrTitle") {
			slide.Title = text
		}
		if sh.table != nil {
			t := *sh.table
			t.Name = sh.name
			t.Normalize()
			slide.Tables = append(slide.Tables, t)
			p.tables = append(p.tables, t)
		}
		if sh.kind == "pic" {
			img := p.resolveImage(zr, rels, sh, nr)
			slide.Images = append(slide.Images, img)
			p.images = append(p.images, img)
		}
		if sh.chartRel != "" {
			chart := p.resolveChart(zr, rels, sh, nr)
			slide.Charts = append(slide.Charts, chart)
		}
	}

	slide.Layout = p.resolveLayout(zr, rels)
	slide.Notes = p.resolveNotes(zr, rels)
	return slide, nil
}

// walkSlideShapes token-walks one slide part, yielding its shapes in
// z-order.
func walkSlideShapes(data []byte) ([]*pptShape, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		shapes  []*pptShape
		current *pptShape
		inText  bool
		inCell  bool
		cellBuf strings.Builder
		row     []string
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp", "pic", "graphicFrame":
				if current == nil {
					current = &pptShape{kind: t.Name.Local}
				}
			case "cNvPr":
				if current != nil && current.name == "" {
					for _, a := range t.Attr {
						if a.Name.Local == "name" {
							current.name = a.Value
						}
					}
				}
			case "ph":
				if current != nil && current.phType == "" {
					for _, a := range t.Attr {
						if a.Name.Local == "type" {
							current.phType = a.Value
						}
					}
				}
			case "blip":
				if current != nil {
					for _, a := range t.Attr {
						if a.Name.Local == "embed" {
							current.blipRel = a.Value
						}
					}
				}
			case "chart":
				if current != nil {
					for _, a := range t.Attr {
						if a.Name.Local == "id" {
							current.chartRel = a.Value
						}
					}
				}
			case "tbl":
				if current != nil {
					current.table = &Table{}
				}
			case "tr":
				if current != nil && current.table != nil {
					row = nil
				}
			case "tc":
				if current != nil && current.table != nil {
					inCell = true
					cellBuf.Reset()
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
			} else if current != nil {
				current.text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "sp", "pic", "graphicFrame":
				if current != nil && current.kind == t.Name.Local {
					shapes = append(shapes, current)
					current = nil
				}
			case "t":
				inText = false
			case "p":
				if current != nil && !inCell && current.text.Len() > 0 {
					current.text.WriteByte('\n')
				}
			case "tc":
				if inCell {
					row = append(row, strings.TrimSpace(cellBuf.String()))
					inCell = false
				}
			case "tr":
				if current != nil && current.table != nil && row != nil {
					current.table.Data = append(current.table.Data, row)
					row = nil
				}
			}
		}
	}
	return shapes, nil
}

// pptMIMETypes maps media extensions to their MIME strings.
var pptMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".emf":  "image/x-emf",
	".wmf":  "image/x-wmf",
	".svg":  "image/svg+xml",
}

// resolveImage reads a picture shape's media bytes through the slide's
// relationship part.
func (p *PowerPointParser) resolveImage(zr *zip.Reader, rels map[string]relationship, sh *pptShape, slideNr int) Image {
	img := Image{SlideNumber: slideNr, Name: sh.name}
	rel, ok := rels[sh.blipRel]
	if !ok {
		return img
	}
	target := resolveRelTarget("ppt/slides", rel.Target)
	data, err := readZipFile(zr, target)
	if err != nil {
		return img
	}
	img.Data = data
	ext := strings.ToLower(filepath.Ext(target))
	if mime, ok := pptMIMETypes[ext]; ok {
		img.ContentType = mime
	} else {
		img.ContentType = "application/octet-stream"
	}
	return img
}

var chartTypeRe = regexp.MustCompile(`^[a-z][A-Za-z0-9]*Chart$`)

// resolveChart reads the chart part referenced by a graphicFrame and
// pulls its plot type and title.
func (p *PowerPointParser) resolveChart(zr *zip.Reader, rels map[string]relationship, sh *pptShape, slideNr int) Chart {
	chart := Chart{SlideNumber: slideNr, Name: sh.name}
	rel, ok := rels[sh.chartRel]
	if !ok {
		return chart
	}
	data, err := readZipFile(zr, resolveRelTarget("ppt/slides", rel.Target))
	if err != nil {
		return chart
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var inTitle bool
	var titleBuf strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "title":
				inTitle = true
			case chart.ChartType == "" && t.Name.Local != "chart" && chartTypeRe.MatchString(t.Name.Local):
				chart.ChartType = t.Name.Local
			}
		case xml.CharData:
			if inTitle {
				titleBuf.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "title" {
				inTitle = false
			}
		}
	}
	chart.Title = strings.TrimSpace(titleBuf.String())
	return chart
}

// resolveLayout returns the slide layout's display name.
func (p *PowerPointParser) resolveLayout(zr *zip.Reader, rels map[string]relationship) string {
	for _, rel := range rels {
		if !strings.HasSuffix(rel.Type, "/slideLayout") {
			continue
		}
		data, err := readZipFile(zr, resolveRelTarget("ppt/slides", rel.Target))
		if err != nil {
			return ""
		}
		dec := xml.NewDecoder(bytes.NewReader(data))
		for {
			tok, err := dec.Token()
			if err != nil {
				return ""
			}
			if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "cSld" {
				for _, a := range se.Attr {
					if a.Name.Local == "name" {
						return a.Value
					}
				}
				return ""
			}
		}
	}
	return ""
}

// resolveNotes returns the slide's speaker notes, or "" when blank.
func (p *PowerPointParser) resolveNotes(zr *zip.Reader, rels map[string]relationship) string {
	for _, rel := range rels {
		if !strings.HasSuffix(rel.Type, "/notesSlide") {
			continue
		}
		data, err := readZipFile(zr, resolveRelTarget("ppt/slides", rel.Target))
		if err != nil {
			return ""
		}
		return strings.TrimSpace(drawingText(data))
	}
	return ""
}

// drawingText collects the text runs of a DrawingML part with paragraph
// breaks preserved.
func drawingText(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var sb strings.Builder
	var inText bool
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if sb.Len() > 0 {
					sb.WriteByte('\n')
				}
			}
		}
	}
	return sb.String()
}
