package sheet

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid is one rendered sub-table: a header row plus equal-width body rows,
// all cells as text. Sheet is empty for CSV files.
type Grid struct {
	Label    string
	Filename string
	Sheet    string
	Headers  []string
	Rows     [][]string
}

// Selection names one sub-table of a stored file for batch rendering.
type Selection struct {
	Path  string
	Sheet string
}

// Render loads one sub-table of the file at path into a Grid. An empty
// sheet name selects the first sheet of a workbook (and is ignored for CSV).
//
// Errors: ErrNotFound when the path does not resolve, ErrNoSubtables when a
// workbook has zero sheets, or a *ParseError wrapping the decode failure.
func Render(path, sheetName string) (*Grid, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, ErrNotFound
	}

	if IsCSV(path) {
		return renderCSV(path)
	}
	return renderWorkbook(path, sheetName)
}

// RenderBatch renders each selection, skipping items that fail to resolve
// or parse, and returns the successful grids in input order. It fails only
// when nothing could be rendered.
func RenderBatch(selections []Selection) ([]Grid, error) {
	var grids []Grid
	for _, sel := range selections {
		g, err := Render(sel.Path, sel.Sheet)
		if err != nil {
			continue
		}
		grids = append(grids, *g)
	}
	if len(grids) == 0 {
		return nil, ErrEmptySelection
	}
	return grids, nil
}

func renderCSV(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrNotFound
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are fixed up below
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	filename := filepath.Base(path)
	headers, rows := normalize(records)
	return &Grid{
		Label:    filename,
		Filename: filename,
		Headers:  headers,
		Rows:     rows,
	}, nil
}

func renderWorkbook(path, sheetName string) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSubtables
	}

	target := sheetName
	if target == "" {
		target = sheets[0]
	} else if !containsSheet(sheets, target) {
		return nil, ErrNotFound
	}

	records, err := f.GetRows(target)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	filename := filepath.Base(path)
	headers, rows := normalize(records)
	return &Grid{
		Label:    fmt.Sprintf("%s - %s", filename, target),
		Filename: filename,
		Sheet:    target,
		Headers:  headers,
		Rows:     rows,
	}, nil
}

func containsSheet(sheets []string, name string) bool {
	for _, s := range sheets {
		if s == name {
			return true
		}
	}
	return false
}

// normalize splits records into a header row and body rows, padding or
// truncating every body row to the header width. Missing cells become ""
// so no null-marker ever reaches the output.
func normalize(records [][]string) (headers []string, rows [][]string) {
	if len(records) == 0 {
		return []string{}, nil
	}

	headers = records[0]
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\uFEFF")
	}

	width := len(headers)
	rows = make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, width)
		copy(row, rec)
		rows = append(rows, row)
	}
	return headers, rows
}
