// CLAUDE:SUMMARY PDF parser variant — pdfcpu-backed page text, Info-dict metadata, image XObject references.
package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFParser extracts page-ordered text and metadata from PDF files.
//
// Two limitations are deliberate: table extraction returns empty
// (no geometric table detection), and image extraction is metadata-only
// (name, dimensions, color space; no raw bytes for enrichment).
type PDFParser struct {
	path string
	pdf  *model.Context
}

// NewPDF opens a PDF parser for path. Fails when the path does not
// exist or the extension is not .pdf.
func NewPDF(path string) (*PDFParser, error) {
	if err := checkFile(path, TypePDF); err != nil {
		return nil, err
	}
	return &PDFParser{path: path}, nil
}

// FileType implements Parser.
func (p *PDFParser) FileType() FileType { return TypePDF }

// open loads the pdfcpu context on first use.
func (p *PDFParser) open() error {
	if p.pdf != nil {
		return nil
	}
	f, err := os.Open(p.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", p.path, err)
	}
	defer f.Close()

	pdf, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	p.pdf = pdf
	return nil
}

// Parse implements Parser.
func (p *PDFParser) Parse(ctx context.Context) *Document {
	doc := NewDocument(filepath.Base(p.path), TypePDF)

	if err := p.open(); err != nil {
		doc.AddError("open", err)
		return doc
	}

	meta, err := p.ExtractMetadata()
	if err != nil {
		doc.AddError("metadata", err)
	} else {
		doc.Metadata = meta
	}

	content := &PDFContent{TotalPages: p.pdf.PageCount}
	dims := p.pageDims()
	for pageNr := 1; pageNr <= p.pdf.PageCount; pageNr++ {
		if ctx.Err() != nil {
			doc.AddError("content", ctx.Err())
			break
		}
		page := Page{PageNumber: pageNr}
		text, err := p.pageText(pageNr)
		if err != nil {
			// Per-page failure degrades to an empty page, not a
			// whole-document failure.
			doc.AddError("content", fmt.Errorf("page %d: %w", pageNr, err))
		} else {
			page.Text = text
		}
		if pageNr-1 < len(dims) {
			page.Width = dims[pageNr-1].Width
			page.Height = dims[pageNr-1].Height
		}
		content.Pages = append(content.Pages, page)
	}
	doc.Content.PDF = content

	images, err := p.ExtractImages()
	if err != nil {
		doc.AddError("images", err)
	} else {
		doc.Images = images
	}

	// Tables stay empty: PDF table reconstruction is out of scope.
	return doc
}

// ExtractText implements Parser. Pages are joined with blank lines.
func (p *PDFParser) ExtractText() (string, error) {
	if err := p.open(); err != nil {
		return "", err
	}
	var parts []string
	for pageNr := 1; pageNr <= p.pdf.PageCount; pageNr++ {
		text, err := p.pageText(pageNr)
		if err != nil || text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// pdfInfoKeys is the Info-dict key order surfaced as metadata.
var pdfInfoKeys = []string{
	"Title", "Author", "Subject", "Keywords",
	"Creator", "Producer", "CreationDate", "ModDate",
}

// ExtractMetadata implements Parser.
func (p *PDFParser) ExtractMetadata() (Metadata, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	meta := Metadata{}
	if p.pdf.Info != nil {
		if d, err := p.pdf.DereferenceDict(*p.pdf.Info); err == nil {
			for _, key := range pdfInfoKeys {
				if v, found := d.Find(key); found {
					if s := pdfObjectString(v); s != "" {
						meta.Set(key, s)
					}
				}
			}
		}
	}
	meta.Set("page_count", fmt.Sprintf("%d", p.pdf.PageCount))
	return meta, nil
}

// ExtractTables implements Parser. Always empty for PDF: detecting
// tables requires geometric analysis that is out of scope.
func (p *PDFParser) ExtractTables() ([]Table, error) {
	return []Table{}, nil
}

// ExtractImages implements Parser. Returns references (name, pixel
// dimensions, color space) without raw bytes.
func (p *PDFParser) ExtractImages() ([]Image, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	images := []Image{}
	if p.pdf.Optimize == nil {
		return images, nil
	}
	for pageNr := 1; pageNr <= p.pdf.PageCount; pageNr++ {
		for _, objNr := range pdfcpu.ImageObjNrs(p.pdf, pageNr) {
			entry, ok := p.pdf.Table[objNr]
			if !ok || entry == nil {
				continue
			}
			sd, ok := entry.Object.(types.StreamDict)
			if !ok {
				continue
			}
			img := Image{
				Page: pageNr,
				Name: fmt.Sprintf("Im%d", objNr),
			}
			if w := sd.IntEntry("Width"); w != nil {
				img.Width = float64(*w)
			}
			if h := sd.IntEntry("Height"); h != nil {
				img.Height = float64(*h)
			}
			if cs, found := sd.Find("ColorSpace"); found {
				img.ColorSpace = pdfObjectString(cs)
			} else {
				img.ColorSpace = "Unknown"
			}
			images = append(images, img)
		}
	}
	return images, nil
}

// pageDims returns per-page media box dimensions, or nil when they
// cannot be resolved.
func (p *PDFParser) pageDims() []types.Dim {
	dims, err := p.pdf.PageDims()
	if err != nil {
		return nil
	}
	return dims
}

// pageText extracts the text of one page from its content stream.
func (p *PDFParser) pageText(pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(p.pdf, pageNr)
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return "", fmt.Errorf("read content stream: %w", err)
	}
	return textFromContentStream(buf.Bytes()), nil
}

// pdfObjectString renders an Info-dict or resource value as plain text.
func pdfObjectString(o types.Object) string {
	switch v := o.(type) {
	case types.StringLiteral:
		if s, err := types.StringLiteralToString(v); err == nil {
			return s
		}
		return v.Value()
	case types.HexLiteral:
		if s, err := types.HexLiteralToString(v); err == nil {
			return s
		}
		return v.Value()
	case types.Name:
		return v.Value()
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", o))
	}
}

// pdfParenRe matches PDF string literals: (text)
var pdfParenRe = regexp.MustCompile(`\(([^)]*)\)`)

// textFromContentStream walks the page content stream line by line,
// collecting the text-showing operators (Tj, TJ, ') and translating the
// positioning operators (Td, TD, T*) into whitespace. Writers differ on
// layout: some put one operator per line, others pack a whole BT..ET
// block onto one, so detection is contains-based rather than
// suffix-based.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		if bytes.Contains(line, []byte("Td")) || bytes.Contains(line, []byte("TD")) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}
		if bytes.Contains(line, []byte("T*")) {
			sb.WriteByte('\n')
		}
		switch {
		case bytes.Contains(line, []byte("Tj")), bytes.Contains(line, []byte("TJ")):
			for _, m := range pdfParenRe.FindAllSubmatch(line, -1) {
				sb.WriteString(unescapePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfParenRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(unescapePDFString(m[1]))
			}
		}
	}

	return collapseWhitespace(sb.String())
}

// unescapePDFString resolves backslash escapes, including octal codes.
func unescapePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] < '0' || raw[i] > '7' {
				sb.WriteByte(raw[i])
				continue
			}
			val := int(raw[i] - '0')
			for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				val = val*8 + int(raw[i]-'0')
			}
			sb.WriteByte(byte(val))
		}
	}
	return sb.String()
}

// collapseWhitespace squeezes runs of whitespace into single spaces and
// drops non-printable runes.
func collapseWhitespace(text string) string {
	var sb strings.Builder
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = sb.Len() > 0
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
