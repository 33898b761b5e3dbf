package parse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// writeTextPDF builds a real two-page PDF through gofpdf so the fixture
// carries proper fonts, compressed content streams and an Info dict.
func writeTextPDF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle("Quarterly Report", false)
	pdf.SetAuthor("Jane Roe", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(72, 72, "Revenue grew in the third quarter.")
	pdf.AddPage()
	pdf.Text(72, 72, "Forecast remains unchanged.")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeImagePDF hand-builds a minimal one-page PDF whose only content
// is an image XObject, with correct xref offsets.
func writeImagePDF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")

	imgData := "\x00\x11\x22\x00\x11\x22" // 2x1 RGB
	drawStream := "q 100 0 0 100 72 692 cm /Im1 Do Q"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /XObject << /Im1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")

	offsets[4] = b.Len()
	fmt.Fprintf(&b, "4 0 obj\n<< /Type /XObject /Subtype /Image /Width 2 /Height 1 /ColorSpace /DeviceRGB /BitsPerComponent 8 /Length %d >>\nstream\n", len(imgData))
	b.WriteString(imgData)
	b.WriteString("\nendstream\nendobj\n")

	offsets[5] = b.Len()
	fmt.Fprintf(&b, "5 0 obj\n<< /Length %d >>\nstream\n", len(drawStream))
	b.WriteString(drawStream)
	b.WriteString("\nendstream\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 6\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeCorruptPagePDF hand-builds a two-page PDF whose second page
// declares FlateDecode over bytes that are not deflate data, so decoding
// that one content stream fails while the document stays readable.
func writeCorruptPagePDF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.pdf")

	goodStream := "BT 72 720 Td (First page intact.) Tj ET"
	badStream := "this is not deflate data"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 7)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 5 0 R >>\nendobj\n")

	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 6 0 R >>\nendobj\n")

	offsets[5] = b.Len()
	fmt.Fprintf(&b, "5 0 obj\n<< /Length %d >>\nstream\n", len(goodStream))
	b.WriteString(goodStream)
	b.WriteString("\nendstream\nendobj\n")

	offsets[6] = b.Len()
	fmt.Fprintf(&b, "6 0 obj\n<< /Length %d /Filter /FlateDecode >>\nstream\n", len(badStream))
	b.WriteString(badStream)
	b.WriteString("\nendstream\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 7\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 6; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size 7 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPDFParse(t *testing.T) {
	path := writeTextPDF(t)

	p, err := NewPDF(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse(context.Background())
	if len(doc.Errors) != 0 {
		t.Fatalf("unexpected parse errors: %+v", doc.Errors)
	}
	if doc.FileType != TypePDF {
		t.Fatalf("file type = %q", doc.FileType)
	}
	if doc.Content.PDF == nil {
		t.Fatal("missing pdf content")
	}
	if got := doc.Content.PDF.TotalPages; got != 2 {
		t.Fatalf("total pages = %d, want 2", got)
	}
	if len(doc.Content.PDF.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Content.PDF.Pages))
	}
	if !strings.Contains(doc.Content.PDF.Pages[0].Text, "third quarter") {
		t.Errorf("page 1 text = %q", doc.Content.PDF.Pages[0].Text)
	}
	if !strings.Contains(doc.Content.PDF.Pages[1].Text, "Forecast") {
		t.Errorf("page 2 text = %q", doc.Content.PDF.Pages[1].Text)
	}
	if w := doc.Content.PDF.Pages[0].Width; w < 611 || w > 613 {
		t.Errorf("page width = %f, want 612pt", w)
	}
	if len(doc.Tables) != 0 {
		t.Errorf("tables = %d, want none", len(doc.Tables))
	}
}

func TestPDFParsePageTextFailureDegrades(t *testing.T) {
	p, err := NewPDF(writeCorruptPagePDF(t))
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse(context.Background())

	if doc.Content.PDF == nil {
		t.Fatal("missing pdf content")
	}
	if len(doc.Content.PDF.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Content.PDF.Pages))
	}
	if !strings.Contains(doc.Content.PDF.Pages[0].Text, "First page intact") {
		t.Errorf("page 1 text = %q", doc.Content.PDF.Pages[0].Text)
	}
	if got := doc.Content.PDF.Pages[1].Text; got != "" {
		t.Errorf("page 2 text = %q, want empty", got)
	}
	if len(doc.Errors) != 1 {
		t.Fatalf("errors = %+v", doc.Errors)
	}
	if doc.Errors[0].Kind != "content" || !strings.Contains(doc.Errors[0].Message, "page 2") {
		t.Errorf("error = %+v", doc.Errors[0])
	}
}

func TestPDFMetadata(t *testing.T) {
	path := writeTextPDF(t)

	p, err := NewPDF(path)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := p.ExtractMetadata()
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := meta.Get("Title"); !ok || got != "Quarterly Report" {
		t.Errorf("Title = %q", got)
	}
	if got, ok := meta.Get("Author"); !ok || got != "Jane Roe" {
		t.Errorf("Author = %q", got)
	}
	if got, ok := meta.Get("page_count"); !ok || got != "2" {
		t.Errorf("page_count = %q", got)
	}
}

func TestPDFExtractText(t *testing.T) {
	path := writeTextPDF(t)

	p, err := NewPDF(path)
	if err != nil {
		t.Fatal(err)
	}
	text, err := p.ExtractText()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"third quarter", "Forecast remains unchanged."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
}

func TestPDFExtractImages(t *testing.T) {
	path := writeImagePDF(t)

	p, err := NewPDF(path)
	if err != nil {
		t.Fatal(err)
	}
	images, err := p.ExtractImages()
	if err != nil {
		t.Fatalf("extract images: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("images = %d, want 1", len(images))
	}
	img := images[0]
	if img.Page != 1 {
		t.Errorf("page = %d", img.Page)
	}
	if !strings.HasPrefix(img.Name, "Im") {
		t.Errorf("name = %q", img.Name)
	}
	if img.Width != 2 || img.Height != 1 {
		t.Errorf("dimensions = %fx%f", img.Width, img.Height)
	}
	if img.ColorSpace != "DeviceRGB" {
		t.Errorf("color space = %q", img.ColorSpace)
	}
	if len(img.Data) != 0 {
		t.Error("pdf images should carry no raw bytes")
	}
}

func TestPDFExtractTablesEmpty(t *testing.T) {
	p, err := NewPDF(writeTextPDF(t))
	if err != nil {
		t.Fatal(err)
	}
	tables, err := p.ExtractTables()
	if err != nil {
		t.Fatal(err)
	}
	if tables == nil || len(tables) != 0 {
		t.Fatalf("tables = %#v, want empty non-nil slice", tables)
	}
}

func TestPDFConstructorChecks(t *testing.T) {
	if _, err := NewPDF(filepath.Join(t.TempDir(), "missing.pdf")); !IsKind(err, KindNotFound) {
		t.Errorf("missing file: %v", err)
	}
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewPDF(path); !IsKind(err, KindUnsupportedExtension) {
		t.Errorf("wrong extension: %v", err)
	}
}
