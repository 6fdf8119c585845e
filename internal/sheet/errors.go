package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrNotFound indicates a path that does not resolve to a readable file,
	// or a named sheet missing from a workbook.
	ErrNotFound = errors.New("sheet: file not found")

	// ErrNoSubtables indicates a workbook with zero sheets.
	ErrNoSubtables = errors.New("sheet: workbook has no sheets")

	// ErrEmptySelection indicates a batch render where nothing could be opened.
	ErrEmptySelection = errors.New("sheet: no renderable selections")

	// ErrNoSheets indicates an export request with an empty sheet list.
	ErrNoSheets = errors.New("sheet: export needs at least one sheet")
)

// ParseError wraps a decode failure for a specific file. The underlying
// message is surfaced to the user on the selection page.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
