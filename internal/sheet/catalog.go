// Package sheet reads uploaded spreadsheets into normalized grids and
// composes selected grids back into a downloadable workbook.
//
// A "sub-table" is one sheet of an .xlsx workbook, or the single implicit
// table of a .csv file. Grids are row-major with a separate header row and
// every missing cell normalized to the empty string.
package sheet

import (
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CSVSubtable is the sentinel sub-table name for CSV files, which have
// exactly one implicit table.
const CSVSubtable = "CSV"

// IsCSV reports whether path names a CSV file by extension.
func IsCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// Subtables lists the logical sub-tables of a stored file. CSV files have
// the single fixed sentinel; workbooks list sheet names in source order.
// An unreadable workbook yields an empty list, never an error: the caller
// shows the file as unreadable rather than failing the whole listing.
func Subtables(path string) []string {
	if IsCSV(path) {
		return []string{CSVSubtable}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	return f.GetSheetList()
}
