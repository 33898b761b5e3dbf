package parse

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("report.pdf", TypePDF)

	if doc.Filename != "report.pdf" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	if doc.FileType != TypePDF {
		t.Errorf("FileType = %q", doc.FileType)
	}
	if doc.ParsedAt.IsZero() {
		t.Error("ParsedAt not set")
	}
	if doc.Tables == nil || doc.Images == nil || doc.Errors == nil {
		t.Error("collections should be empty, not nil")
	}
	if len(doc.Errors) != 0 {
		t.Errorf("fresh document has %d errors", len(doc.Errors))
	}
}

func TestAddError(t *testing.T) {
	doc := NewDocument("x.docx", TypeWord)
	doc.AddError("content", errors.New("boom"))
	doc.AddError("vision", errors.New("api down"))

	if len(doc.Errors) != 2 {
		t.Fatalf("got %d errors", len(doc.Errors))
	}
	if doc.Errors[0].Kind != "content" || doc.Errors[0].Message != "boom" {
		t.Errorf("first error = %+v", doc.Errors[0])
	}
	if doc.Errors[1].Kind != "vision" {
		t.Errorf("second error = %+v", doc.Errors[1])
	}
}

func TestTableNormalize(t *testing.T) {
	table := Table{
		Headers: []string{"A", "B", "C"},
		Data: [][]string{
			{"1"},
			{"2", "3", "4"},
			{"5", "6"},
		},
	}
	table.Normalize()

	if table.Rows != 3 {
		t.Errorf("Rows = %d, want 3", table.Rows)
	}
	if table.Columns != 3 {
		t.Errorf("Columns = %d, want 3", table.Columns)
	}
	for i, row := range table.Data {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells after normalize", i, len(row))
		}
	}
	if table.Data[0][1] != "" || table.Data[0][2] != "" {
		t.Error("short rows should pad with empty strings")
	}
}

func TestTableNormalizeEmpty(t *testing.T) {
	table := Table{}
	table.Normalize()
	if table.Rows != 0 || table.Columns != 0 {
		t.Errorf("empty table normalized to %dx%d", table.Rows, table.Columns)
	}
}

func TestMetadataOrder(t *testing.T) {
	meta := Metadata{}
	meta.Set("title", "Report")
	meta.Set("author", "Ada")
	meta.Set("page_count", "3")
	meta.Set("title", "Updated") // replace in place, keep position

	raw, err := json.Marshal(meta)
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	want := `{"title":"Updated","author":"Ada","page_count":"3"}`
	if got != want {
		t.Errorf("marshal order:\n got %s\nwant %s", got, want)
	}

	var back Metadata
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Len() != 3 {
		t.Fatalf("round-trip lost fields: %d", back.Len())
	}
	if v, ok := back.Get("author"); !ok || v != "Ada" {
		t.Errorf("Get(author) = %q, %v", v, ok)
	}
	if v, ok := back.Get("missing"); ok || v != "" {
		t.Errorf("Get(missing) = %q, %v", v, ok)
	}
	if back[0].Key != "title" || back[2].Key != "page_count" {
		t.Errorf("round-trip order: %+v", back)
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := NewDocument("memo.docx", TypeWord)
	doc.Metadata.Set("author", "Bob")
	doc.Content.Word = &WordContent{
		Paragraphs: []Paragraph{
			{Index: 0, Text: "Intro", Style: "Heading 1", IsHeading: true, HeadingLevel: 1},
			{Index: 1, Text: "Body text."},
		},
		Sections: []DocSection{},
	}
	doc.Tables = []Table{{Headers: []string{"K", "V"}, Data: [][]string{{"a", "b"}}, Rows: 1, Columns: 2}}
	doc.AddError("images", errors.New("bad drawing"))

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	back, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if back.Filename != "memo.docx" || back.FileType != TypeWord {
		t.Errorf("identity fields: %q %q", back.Filename, back.FileType)
	}
	if back.Content.Word == nil {
		t.Fatal("word content lost in round trip")
	}
	if len(back.Content.Word.Paragraphs) != 2 {
		t.Fatalf("paragraphs = %d", len(back.Content.Word.Paragraphs))
	}
	if !back.Content.Word.Paragraphs[0].IsHeading || back.Content.Word.Paragraphs[0].HeadingLevel != 1 {
		t.Errorf("heading flags lost: %+v", back.Content.Word.Paragraphs[0])
	}
	if len(back.Tables) != 1 || back.Tables[0].Data[0][1] != "b" {
		t.Errorf("tables lost: %+v", back.Tables)
	}
	if len(back.Errors) != 1 || back.Errors[0].Kind != "images" {
		t.Errorf("errors lost: %+v", back.Errors)
	}
}

func TestContentMarshalEmpty(t *testing.T) {
	doc := NewDocument("x.pdf", TypePDF)
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"content":{}`) {
		t.Errorf("empty content should marshal as {}: %s", raw)
	}
}

func TestDecodeDispatchesByFileType(t *testing.T) {
	raw := []byte(`{
		"filename": "data.xlsx",
		"file_type": "excel",
		"metadata": {"sheet_count": "1"},
		"content": {"sheet_count": 1, "sheet_names": ["S1"], "sheets": [{"name": "S1", "data": [["a"]]}]}
	}`)
	doc, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Content.Excel == nil {
		t.Fatal("excel content not dispatched")
	}
	if doc.Content.Excel.Sheets[0].Data[0][0] != "a" {
		t.Errorf("sheet data: %+v", doc.Content.Excel.Sheets)
	}
	if doc.Content.Word != nil || doc.Content.PDF != nil {
		t.Error("other variants should stay nil")
	}
}
