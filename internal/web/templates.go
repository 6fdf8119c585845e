package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"excelviewer/internal/i18n"
	"excelviewer/internal/logging"
)

//go:embed templates/*.html
var templateFiles embed.FS

// pageTemplates is parsed once with a placeholder "t" func; render clones
// the set and rebinds "t" to the request's language.
var pageTemplates = template.Must(
	template.New("").
		Funcs(template.FuncMap{"t": func(key string) string { return key }}).
		ParseFS(templateFiles, "templates/*.html"),
)

// render executes the named page template with the request's language and
// any pending flash message merged into data.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	lang := i18n.Negotiate(r)

	if data == nil {
		data = map[string]any{}
	}
	data["Lang"] = lang
	data["Flash"] = s.popFlash(w, r)
	data["Path"] = r.URL.Path

	tpl, err := pageTemplates.Clone()
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	tpl = tpl.Funcs(template.FuncMap{"t": s.catalog.Translator(lang)})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.ExecuteTemplate(w, name, data); err != nil {
		logging.FromContext(r.Context()).Error("template render", "template", name, "error", err)
	}
}

// translate looks up a key in the request's language.
func (s *Server) translate(r *http.Request, key string) string {
	return s.catalog.Lookup(i18n.Negotiate(r), key)
}

const flashCookie = "flash"

// setFlash stores a one-shot message shown on the next rendered page.
func (s *Server) setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
	})
}

// popFlash returns the pending flash message, clearing it.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
