package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"excelviewer/internal/i18n"
	"excelviewer/internal/logging"
	"excelviewer/internal/session"
	"excelviewer/internal/sheet"

	"github.com/go-chi/chi/v5"
)

// FileEntry describes one uploaded file on the selection page.
type FileEntry struct {
	Filename string
	Ext      string
	Sheets   []string
}

// exportRequest is the strict shape of the export payload. Anything that
// does not decode into it is rejected before reaching the composer.
type exportRequest struct {
	Filename string            `json:"filename"`
	Sheets   []sheet.SheetData `json:"sheets"`
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index.html", nil)
}

// handleUpload stores a multipart batch of files under a fresh session
// token and redirects to the selection page. Files with disallowed
// extensions are skipped; if nothing valid was saved the user is sent back
// to the upload form with a flash message.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.Upload.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.setFlash(w, s.translate(r, "flash_choose_at_least_one_file"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.setFlash(w, s.translate(r, "flash_choose_at_least_one_file"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token, err := s.store.Create()
	if err != nil {
		logging.FromContext(r.Context()).Error("create session", "error", err)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	savedAny := false
	for _, fh := range files {
		if fh.Filename == "" {
			continue
		}

		f, err := fh.Open()
		if err != nil {
			continue
		}
		ok, err := s.store.StoreFile(token, fh.Filename, f)
		f.Close()
		if err != nil {
			logging.FromContext(r.Context()).Error("store file", "filename", fh.Filename, "error", err)
			continue
		}
		if ok {
			savedAny = true
		}
	}

	if !savedAny {
		s.setFlash(w, s.translate(r, "flash_no_valid_files"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/select/"+token, http.StatusSeeOther)
}

// handleSelect lists the session's files with their sub-table names.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var entries []FileEntry
	for _, name := range s.store.ListFiles(token) {
		entry := FileEntry{Filename: name, Ext: session.Extension(name)}
		if path, err := s.store.Resolve(token, name); err == nil {
			entry.Sheets = sheet.Subtables(path)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		s.setFlash(w, s.translate(r, "flash_uploaded_unreadable"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.render(w, r, "select.html", map[string]any{
		"Token": token,
		"Files": entries,
	})
}

// handleRender renders a single "filename::sheetname" selection as an HTML
// table.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("token")
	selection := r.FormValue("selection")
	if token == "" || selection == "" {
		s.setFlash(w, s.translate(r, "flash_invalid_selection"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	filename, sheetName := splitSelection(selection)

	path, err := s.store.Resolve(token, filename)
	if err != nil {
		s.flashRedirect(w, r, err, "/")
		return
	}

	grid, err := sheet.Render(path, sheetName)
	if err != nil {
		if errors.Is(err, sheet.ErrNotFound) {
			s.flashRedirect(w, r, err, "/")
			return
		}
		// No sheets or a parse failure: back to the selection page.
		s.flashRedirect(w, r, err, "/select/"+url.PathEscape(token))
		return
	}

	s.render(w, r, "view.html", map[string]any{
		"Token": token,
		"Grid":  grid,
	})
}

// handleRenderMulti renders several selections at once, skipping the ones
// that cannot be opened.
func (s *Server) handleRenderMulti(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.setFlash(w, s.translate(r, "flash_invalid_selection"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	token := r.FormValue("token")
	selections := r.Form["selection"]
	if token == "" || len(selections) == 0 {
		s.setFlash(w, s.translate(r, "flash_select_at_least_one_sheet"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var items []sheet.Selection
	for _, sel := range selections {
		filename, sheetName := splitSelection(sel)
		path, err := s.store.Resolve(token, filename)
		if err != nil {
			continue
		}
		items = append(items, sheet.Selection{Path: path, Sheet: sheetName})
	}

	grids, err := sheet.RenderBatch(items)
	if err != nil {
		s.flashRedirect(w, r, sheet.ErrEmptySelection, "/select/"+url.PathEscape(token))
		return
	}

	s.render(w, r, "multi_view.html", map[string]any{
		"Token": token,
		"Grids": grids,
	})
}

// handleExport builds a downloadable workbook from the posted grids.
// Malformed or empty payloads get a structured 400, never a redirect.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxUploadBytes())

	var req exportRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondErrorJSON(w, r, s.translate(r, "flash_select_at_least_one_sheet"), http.StatusBadRequest)
		return
	}

	if len(req.Sheets) == 0 {
		respondErrorJSON(w, r, s.translate(r, "flash_select_at_least_one_sheet"), http.StatusBadRequest)
		return
	}

	out, err := sheet.Compose(req.Sheets)
	if err != nil {
		if errors.Is(err, sheet.ErrNoSheets) {
			respondErrorJSON(w, r, s.translate(r, "flash_select_at_least_one_sheet"), http.StatusBadRequest)
			return
		}
		logging.FromContext(r.Context()).Error("compose export", "error", err)
		respondErrorJSON(w, r, "export failed", http.StatusInternalServerError)
		return
	}

	filename := session.SanitizeFilename(req.Filename)
	if filename == "" {
		filename = "export.xlsx"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		filename += ".xlsx"
	}

	w.Header().Set("Content-Type", sheet.WorkbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(out)))
	if _, err := w.Write(out); err != nil {
		logging.FromContext(r.Context()).Error("write export", "error", err)
	}
}

// handleSetLang switches the UI language and bounces back to a safe page.
func (s *Server) handleSetLang(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !i18n.Supported(lang) {
		lang = i18n.DefaultLang
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "lang",
		Value:    lang,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
	})

	next := r.URL.Query().Get("next")
	if next == "" {
		next = r.Referer()
	}
	http.Redirect(w, r, safeRedirectPath(next), http.StatusSeeOther)
}

// splitSelection splits "filename::sheetname"; a bare filename selects the
// implicit sub-table.
func splitSelection(selection string) (filename, sheetName string) {
	if idx := strings.Index(selection, "::"); idx >= 0 {
		return selection[:idx], selection[idx+2:]
	}
	return selection, ""
}

// safeRedirectPath reduces a redirect target to a relative path and refuses
// POST-only endpoints; anything suspect lands on the upload form.
func safeRedirectPath(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return "/"
	}

	path := u.Path
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return "/"
	}

	switch path {
	case "/upload", "/render", "/render_multi", "/export":
		return "/"
	}
	return path
}
