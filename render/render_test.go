package render

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/pronghorn-cloud/file-parser-agent-a820eaa4/parse"
)

func sampleWordDoc() *parse.Document {
	doc := parse.NewDocument("report.docx", parse.TypeWord)
	doc.Metadata.Set("title", "Quarterly Review")
	doc.Metadata.Set("author", "Jane Roe")
	doc.Content.Word = &parse.WordContent{
		Paragraphs: []parse.Paragraph{
			{Index: 1, Text: "Quarterly Review", Style: "Heading 1", IsHeading: true, HeadingLevel: 1},
			{Index: 2, Text: "Revenue grew in Q3."},
			{Index: 3, Text: "Details", Style: "Heading 2", IsHeading: true, HeadingLevel: 2},
		},
		Sections: []parse.DocSection{},
	}
	return doc
}

func samplePDFDoc() *parse.Document {
	doc := parse.NewDocument("scan.pdf", parse.TypePDF)
	doc.Content.PDF = &parse.PDFContent{
		TotalPages: 2,
		Pages: []parse.Page{
			{PageNumber: 1, Text: "First page."},
			{PageNumber: 2, Text: "Second page."},
		},
	}
	return doc
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"csv", FormatCSV},
		{"txt", FormatText},
		{"text", FormatText},
		{" txt ", FormatText},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := ParseFormat("xml"); !parse.IsKind(err, parse.KindUnsupportedOutput) {
		t.Errorf("ParseFormat(xml): %v", err)
	}
}

func TestFormatsAndExtensions(t *testing.T) {
	formats := Formats()
	if len(formats) != 4 {
		t.Fatalf("formats = %v", formats)
	}
	for _, f := range formats {
		if extensions[f] == "" {
			t.Errorf("format %q has no extension", f)
		}
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	out, err := Render(sampleWordDoc(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(out, []byte("\n")) {
		t.Error("json output should end with newline")
	}
	doc, err := parse.Decode(out)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Filename != "report.docx" || doc.Content.Word == nil {
		t.Fatalf("round trip lost content: %+v", doc)
	}
}

func TestRenderDeterministic(t *testing.T) {
	doc := sampleWordDoc()
	for _, f := range Formats() {
		first, err := Render(doc, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		second, err := Render(doc, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("%s: repeated render differs", f)
		}
	}
}

func TestMarkdownWordHeadings(t *testing.T) {
	md := Markdown(sampleWordDoc())

	if !strings.HasPrefix(md, "# report.docx\n") {
		t.Errorf("missing filename heading: %q", md[:40])
	}
	// Document headings shift down a level so the filename keeps H1.
	if !strings.Contains(md, "## Quarterly Review") {
		t.Error("missing shifted H2 heading")
	}
	if !strings.Contains(md, "### Details") {
		t.Error("missing shifted H3 heading")
	}
	if strings.Contains(md, "\n# Quarterly Review") {
		t.Error("document heading must not render as H1")
	}
	if !strings.Contains(md, "- **title**: Quarterly Review") {
		t.Error("missing metadata bullet")
	}
	if !strings.Contains(md, "Revenue grew in Q3.") {
		t.Error("missing body paragraph")
	}
}

func TestMarkdownPDFPages(t *testing.T) {
	md := Markdown(samplePDFDoc())
	if !strings.Contains(md, "## Content (2 pages)") {
		t.Error("missing page count section")
	}
	if !strings.Contains(md, "### Page 1") || !strings.Contains(md, "### Page 2") {
		t.Error("missing page sections")
	}
}

func TestMarkdownExcelPipeTable(t *testing.T) {
	doc := parse.NewDocument("book.xlsx", parse.TypeExcel)
	doc.Content.Excel = &parse.ExcelContent{
		SheetCount: 1,
		SheetNames: []string{"Sales"},
		Sheets: []parse.Sheet{
			{Name: "Sales", Data: [][]string{
				{"Region", "Total"},
				{"West", "42"},
			}},
		},
	}
	md := Markdown(doc)
	if !strings.Contains(md, "## Sales") {
		t.Error("missing sheet heading")
	}
	if !strings.Contains(md, "| Region | Total |") {
		t.Error("missing header row")
	}
	if !strings.Contains(md, "| --- | --- |") {
		t.Error("missing separator row")
	}
	if !strings.Contains(md, "| West | 42 |") {
		t.Error("missing data row")
	}
}

func TestMarkdownPowerPointSlides(t *testing.T) {
	doc := parse.NewDocument("deck.pptx", parse.TypePowerPoint)
	doc.Content.PowerPoint = &parse.PowerPointContent{
		SlideCount: 2,
		Slides: []parse.Slide{
			{
				SlideNumber: 1,
				Title:       "Roadmap",
				Content:     []string{"Ship the parser."},
				Images:      []parse.Image{{Name: "Diagram"}},
				Notes:       "Remember the demo",
			},
			{
				SlideNumber: 2,
				Charts:      []parse.Chart{{ChartType: "barChart", Title: "Growth"}},
			},
		},
	}
	md := Markdown(doc)
	if !strings.Contains(md, "## Slide 1: Roadmap") {
		t.Error("missing titled slide heading")
	}
	if !strings.Contains(md, "## Slide 2: Slide 2") {
		t.Error("untitled slide should fall back to its number")
	}
	if !strings.Contains(md, "*[Image: Image]*") {
		t.Error("image without description should render the default label")
	}
	if !strings.Contains(md, "*[barChart: Growth]*") {
		t.Error("missing chart marker")
	}
	if !strings.Contains(md, "> **Speaker Notes**: Remember the demo") {
		t.Error("missing speaker notes")
	}
}

func TestMarkdownTablesSection(t *testing.T) {
	doc := samplePDFDoc()
	table := parse.Table{
		Headers: []string{"Q", "Target"},
		Data:    [][]string{{"Q1", "10"}},
	}
	table.Normalize()
	doc.Tables = append(doc.Tables, table)

	md := Markdown(doc)
	if !strings.Contains(md, "## Tables") || !strings.Contains(md, "### Table 1") {
		t.Error("missing tables section")
	}
	if !strings.Contains(md, "| Q | Target |") {
		t.Error("missing table headers")
	}
}

func TestTextBanner(t *testing.T) {
	text := Text(sampleWordDoc())
	lines := strings.Split(text, "\n")
	if lines[0] != "report.docx" {
		t.Fatalf("banner = %q", lines[0])
	}
	if lines[1] != strings.Repeat("=", len("report.docx")) {
		t.Fatalf("underline = %q", lines[1])
	}
	if !strings.Contains(text, "Revenue grew in Q3.") {
		t.Error("missing paragraph text")
	}
}

func TestCSVWithTables(t *testing.T) {
	doc := samplePDFDoc()
	first := parse.Table{Headers: []string{"Q", "Target"}, Data: [][]string{{"Q1", "10"}, {"Q2", "12"}}}
	first.Normalize()
	second := parse.Table{Data: [][]string{{"a", "b"}}}
	second.Normalize()
	doc.Tables = append(doc.Tables, first, second)

	out, err := Render(doc, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	// Raw comparison: the blank separator lines between tables are
	// invisible to a csv reader.
	want := "Q,Target\nQ1,10\nQ2,12\n\na,b\n\n"
	if string(out) != want {
		t.Fatalf("csv = %q, want %q", out, want)
	}
}

func TestCSVFallbackFlattens(t *testing.T) {
	out, err := Render(samplePDFDoc(), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) < 3 {
		t.Fatalf("records = %v", records)
	}
	if records[0][0] != "Key" || records[0][1] != "Value" {
		t.Fatalf("header = %v", records[0])
	}

	got := map[string]string{}
	for _, rec := range records[1:] {
		got[rec[0]] = rec[1]
	}
	if got["filename"] != "scan.pdf" {
		t.Errorf("filename = %q", got["filename"])
	}
	if got["file_type"] != "pdf" {
		t.Errorf("file_type = %q", got["file_type"])
	}
	if got["content.total_pages"] != "2" {
		t.Errorf("content.total_pages = %q", got["content.total_pages"])
	}
	// Arrays stay as compact JSON text.
	if !strings.Contains(got["content.pages"], "First page.") {
		t.Errorf("content.pages = %q", got["content.pages"])
	}

	// Field order follows the document's JSON shape.
	if records[1][0] != "filename" {
		t.Errorf("first field = %q, want filename", records[1][0])
	}
}
