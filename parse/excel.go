// CLAUDE:SUMMARY Excel parser variant — excelize-backed sheet extraction with blank-row dropping and ISO-8601 date cells.
package parse

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelParser extracts sheet data, merged ranges, and per-sheet tables
// from .xlsx workbooks. The .xls extension is accepted but the legacy
// binary container is rejected with a soft error at parse time.
type ExcelParser struct {
	path string
	wb   *excelize.File
}

// NewExcel opens an Excel parser for path.
func NewExcel(path string) (*ExcelParser, error) {
	if err := checkFile(path, TypeExcel); err != nil {
		return nil, err
	}
	return &ExcelParser{path: path}, nil
}

// FileType implements Parser.
func (p *ExcelParser) FileType() FileType { return TypeExcel }

// Close releases the underlying workbook handle.
func (p *ExcelParser) Close() error {
	if p.wb == nil {
		return nil
	}
	return p.wb.Close()
}

func (p *ExcelParser) open() error {
	if p.wb != nil {
		return nil
	}
	wb, err := excelize.OpenFile(p.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(p.path), err)
	}
	p.wb = wb
	return nil
}

// Parse implements Parser.
func (p *ExcelParser) Parse(ctx context.Context) *Document {
	doc := NewDocument(filepath.Base(p.path), TypeExcel)
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

	names := p.wb.GetSheetList()
	content := &ExcelContent{
		SheetCount: len(names),
		SheetNames: names,
	}
	for _, name := range names {
		sheet, err := p.extractSheet(name)
		if err != nil {
			doc.AddError("content", fmt.Errorf("sheet %s: %w", name, err))
			continue
		}
		content.Sheets = append(content.Sheets, sheet)
	}
	doc.Content.Excel = content

	tables, err := p.ExtractTables()
	if err != nil {
		doc.AddError("tables", err)
	} else {
		doc.Tables = tables
	}

	// Workbooks carry no extractable images in this pipeline.
	return doc
}

// ExtractText implements Parser. Sheets are delimited with banner
// lines; rows are tab-joined non-empty cells.
func (p *ExcelParser) ExtractText() (string, error) {
	if err := p.open(); err != nil {
		return "", err
	}
	var parts []string
	for _, name := range p.wb.GetSheetList() {
		parts = append(parts, fmt.Sprintf("=== %s ===", name))
		rows, err := p.sheetRows(name)
		if err != nil {
			continue
		}
		for _, row := range rows {
			var cells []string
			for _, c := range row {
				if c != "" {
					cells = append(cells, c)
				}
			}
			if len(cells) > 0 {
				parts = append(parts, strings.Join(cells, "\t"))
			}
		}
		parts = append(parts, "")
	}
	return strings.Join(parts, "\n"), nil
}

// excelDocProps is the workbook property emission order.
func excelDocProps(props *excelize.DocProperties) Metadata {
	meta := Metadata{}
	if props == nil {
		return meta
	}
	for _, f := range []struct{ key, value string }{
		{"creator", props.Creator},
		{"title", props.Title},
		{"description", props.Description},
		{"subject", props.Subject},
		{"keywords", props.Keywords},
		{"category", props.Category},
		{"created", props.Created},
		{"modified", props.Modified},
		{"lastModifiedBy", props.LastModifiedBy},
		{"revision", props.Revision},
		{"version", props.Version},
	} {
		if f.value != "" {
			meta.Set(f.key, f.value)
		}
	}
	return meta
}

// ExtractMetadata implements Parser.
func (p *ExcelParser) ExtractMetadata() (Metadata, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	props, err := p.wb.GetDocProps()
	if err != nil {
		return nil, fmt.Errorf("doc props: %w", err)
	}
	meta := excelDocProps(props)
	names := p.wb.GetSheetList()
	meta.Set("sheet_count", strconv.Itoa(len(names)))
	meta.Set("sheet_names", strings.Join(names, ", "))
	return meta, nil
}

// ExtractTables implements Parser. Each worksheet is treated as one
// table whose first non-empty row is assumed to be the header row, a
// heuristic that misfires on headerless sheets. Sheets with no content
// produce no table.
func (p *ExcelParser) ExtractTables() ([]Table, error) {
	if err := p.open(); err != nil {
		return nil, err
	}
	tables := []Table{}
	for _, name := range p.wb.GetSheetList() {
		rows, err := p.sheetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		data := dropBlankRows(rows)
		if len(data) == 0 {
			continue
		}
		t := Table{
			Name:    name,
			Headers: data[0],
			Data:    data[1:],
		}
		t.Normalize()
		tables = append(tables, t)
	}
	return tables, nil
}

// ExtractImages implements Parser. No native notion of document images
// for workbooks here: empty.
func (p *ExcelParser) ExtractImages() ([]Image, error) {
	return []Image{}, nil
}

func (p *ExcelParser) extractSheet(name string) (Sheet, error) {
	sheet := Sheet{Name: name}
	rows, err := p.sheetRows(name)
	if err != nil {
		return sheet, err
	}
	sheet.Data = dropBlankRows(rows)

	if dim, err := p.wb.GetSheetDimension(name); err == nil {
		sheet.Dimensions = dim
	}
	if merged, err := p.wb.GetMergeCells(name); err == nil {
		for _, m := range merged {
			sheet.MergedCells = append(sheet.MergedCells, m.GetStartAxis()+":"+m.GetEndAxis())
		}
	}
	return sheet, nil
}

// sheetRows returns all rows with values normalized: temporal cells as
// ISO-8601, everything else in its formatted string form.
func (p *ExcelParser) sheetRows(name string) ([][]string, error) {
	formatted, err := p.wb.GetRows(name)
	if err != nil {
		return nil, err
	}
	raw, err := p.wb.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(formatted))
	for r, frow := range formatted {
		row := make([]string, len(frow))
		for c, val := range frow {
			row[c] = val
			if r < len(raw) && c < len(raw[r]) {
				if iso, ok := p.isoDateCell(name, c+1, r+1, raw[r][c]); ok {
					row[c] = iso
				}
			}
		}
		rows[r] = row
	}
	return rows, nil
}

// builtin number formats that render as dates or times
var dateNumFmts = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true,
	19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// isoDateCell converts a date-styled serial value to ISO-8601.
func (p *ExcelParser) isoDateCell(sheet string, col, row int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", false
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false
	}
	styleID, err := p.wb.GetCellStyle(sheet, cell)
	if err != nil {
		return "", false
	}
	style, err := p.wb.GetStyle(styleID)
	if err != nil || style == nil || !dateNumFmts[style.NumFmt] {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format(time.RFC3339), true
}

// dropBlankRows removes rows where every cell is empty after trimming.
// Blank rows are dropped entirely, not represented as empty rows.
func dropBlankRows(rows [][]string) [][]string {
	out := [][]string{}
	for _, row := range rows {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
