package sheet

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookContentType is the MIME type for .xlsx downloads.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxTabNameLen is the workbook-format limit on sheet tab names.
const maxTabNameLen = 31

// SheetData is one tab of an export request: a name, a header row, and
// body rows. Row cells may be strings or numbers as decoded from JSON.
type SheetData struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
}

// invalidTabChars are the characters the workbook format forbids in tab names.
var invalidTabChars = regexp.MustCompile(`[:\\/?*\[\]]`)

// Compose builds a single in-memory workbook with one tab per input sheet.
// Headers form the first row; body rows are padded or truncated to header
// width. Tab names are sanitized, deduplicated with numeric suffixes, and
// never exceed 31 characters. Fails with ErrNoSheets on an empty input.
func Compose(sheets []SheetData) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		name := uniqueTabName(s.Name, used)
		used[strings.ToLower(name)] = true

		if i == 0 {
			// Rename the workbook's default sheet instead of leaving it empty.
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("add sheet %q: %w", name, err)
			}
		}

		if err := writeSheet(f, name, s); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, s SheetData) error {
	if len(s.Headers) > 0 {
		hdr := make([]any, len(s.Headers))
		for i, h := range s.Headers {
			hdr[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &hdr); err != nil {
			return fmt.Errorf("write headers of %q: %w", name, err)
		}
	}

	for r, row := range s.Rows {
		row = fitRow(row, len(s.Headers))
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("row %d of %q: %w", r, name, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r, name, err)
		}
	}
	return nil
}

// fitRow pads or truncates a body row to the header width. A zero width
// (export without headers) leaves the row untouched; recovery here is
// best-effort and never fatal.
func fitRow(row []any, width int) []any {
	if width == 0 || len(row) == width {
		return row
	}
	fitted := make([]any, width)
	for i := 0; i < width; i++ {
		if i < len(row) {
			fitted[i] = row[i]
		} else {
			fitted[i] = ""
		}
	}
	return fitted
}

// SanitizeTabName strips forbidden characters, trims whitespace, falls back
// to "Sheet" when empty, and truncates to the 31-character limit.
func SanitizeTabName(name string) string {
	name = invalidTabChars.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Sheet"
	}
	return truncate(name, maxTabNameLen)
}

// uniqueTabName sanitizes name and appends _1, _2, ... until it no longer
// collides with a name already used in this export. The suffix is applied
// before re-truncation so the result stays within the limit. used is keyed
// by case-folded names: the workbook format treats tab names
// case-insensitively, so "Data" and "data" would silently merge otherwise.
func uniqueTabName(name string, used map[string]bool) string {
	name = SanitizeTabName(name)
	base := name
	for i := 1; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf("_%d", i)
		name = SanitizeTabName(truncate(base, maxTabNameLen-len(suffix)) + suffix)
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
