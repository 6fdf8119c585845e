// Package i18n provides translated-text lookup backed by per-language JSON
// files. The catalog caches each locale table and reloads it when the
// backing file's modification time changes, so label edits are picked up
// without a restart.
package i18n

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultLang is the fallback language for unknown codes and missing keys.
const DefaultLang = "en"

// SupportedLangs lists the 2-letter language codes with locale files.
var SupportedLangs = []string{"en", "vi"}

// Catalog caches locale tables loaded from {dir}/{lang}.json. It is an
// explicit object rather than process-wide state so it can be tested in
// isolation; a read-write lock makes it safe for concurrent handlers.
type Catalog struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	locales map[string]*locale
}

type locale struct {
	modTime time.Time
	exists  bool
	data    map[string]string
}

// NewCatalog creates a catalog over the given locale directory.
func NewCatalog(dir string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		dir:     dir,
		logger:  logger,
		locales: make(map[string]*locale),
	}
}

// Supported reports whether lang is a known language code.
func Supported(lang string) bool {
	for _, l := range SupportedLangs {
		if l == lang {
			return true
		}
	}
	return false
}

// Lookup returns the translation of key for lang, falling back to English
// and finally to the key itself.
func (c *Catalog) Lookup(lang, key string) string {
	if Supported(lang) {
		if v, ok := c.table(lang)[key]; ok {
			return v
		}
	}
	if v, ok := c.table(DefaultLang)[key]; ok {
		return v
	}
	return key
}

// Translator returns a single-language lookup function, convenient for
// handing to templates as `t`.
func (c *Catalog) Translator(lang string) func(string) string {
	return func(key string) string {
		return c.Lookup(lang, key)
	}
}

// table returns the cached locale table for lang, reloading from disk when
// the file's mtime has changed since the last load.
func (c *Catalog) table(lang string) map[string]string {
	path := filepath.Join(c.dir, lang+".json")

	info, statErr := os.Stat(path)
	exists := statErr == nil
	var modTime time.Time
	if exists {
		modTime = info.ModTime()
	}

	c.mu.RLock()
	cached, ok := c.locales[lang]
	c.mu.RUnlock()
	if ok && cached.exists == exists && cached.modTime.Equal(modTime) {
		return cached.data
	}

	data := map[string]string{}
	if exists {
		raw, err := os.ReadFile(path)
		if err == nil {
			// Tolerate a UTF-8 BOM written by Windows editors.
			raw = []byte(strings.TrimPrefix(string(raw), "\uFEFF"))
			if err := json.Unmarshal(raw, &data); err != nil {
				c.logger.Warn("failed to parse locale file", "lang", lang, "error", err)
				data = map[string]string{}
			}
		} else {
			c.logger.Warn("failed to read locale file", "lang", lang, "error", err)
		}
	}

	c.mu.Lock()
	c.locales[lang] = &locale{modTime: modTime, exists: exists, data: data}
	c.mu.Unlock()
	return data
}

// Negotiate picks the language for a request: explicit ?lang= query, then
// the lang cookie, then the Accept-Language header prefix, then English.
func Negotiate(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); Supported(lang) {
		return lang
	}
	if cookie, err := r.Cookie("lang"); err == nil && Supported(cookie.Value) {
		return cookie.Value
	}
	header := strings.ToLower(r.Header.Get("Accept-Language"))
	for _, lang := range SupportedLangs {
		if lang == DefaultLang {
			continue
		}
		if strings.HasPrefix(header, lang) {
			return lang
		}
	}
	return DefaultLang
}
