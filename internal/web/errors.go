package web

// errors.go provides unified error response handling for the web layer.
//
// HTML flows (upload, select, render) surface errors as a translated flash
// message plus a redirect to a safe prior step. The export API returns a
// structured JSON error instead, since its clients are scripts.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"excelviewer/internal/session"
	"excelviewer/internal/sheet"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the JSON structure for export API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// flashKeyFor maps a domain error to the translation key of its
// user-facing flash message.
func flashKeyFor(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, sheet.ErrNotFound):
		return "flash_selected_file_not_found"
	case errors.Is(err, sheet.ErrNoSubtables):
		return "flash_no_sheets_found"
	case errors.Is(err, sheet.ErrEmptySelection):
		return "flash_selected_sheets_could_not_be_opened"
	default:
		return "flash_failed_open_file"
	}
}

// flashRedirect logs the error, sets a flash message, and redirects the
// browser to location. The parse failure message is appended so the user
// can see why a file would not open.
func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, err error, location string) {
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"error", err.Error(),
		"request_id", middleware.GetReqID(r.Context()),
	)

	msg := s.translate(r, flashKeyFor(err))
	var pe *sheet.ParseError
	if errors.As(err, &pe) {
		msg += ": " + pe.Err.Error()
	}

	s.setFlash(w, msg)
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// respondErrorJSON writes a structured JSON error for API clients.
func respondErrorJSON(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	slog.Error("api error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", message,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
