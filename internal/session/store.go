// Package session manages per-upload session directories on disk.
//
// A session is an opaque random token mapped to one directory under the
// configured upload root. Files are added once at upload time and the
// directory is eventually removed by the Sweeper when its mtime exceeds
// the TTL. There is no session state beyond the filesystem itself.
package session

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound indicates an unknown token or a missing file inside a session.
var ErrNotFound = errors.New("session: file not found")

// allowedExtensions is the upload allow-set. Nothing outside it is ever
// stored, listed, or resolved.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	tokenShape  = regexp.MustCompile(`^[0-9a-f]{32}$`)
)

// Store maps session tokens to directories under root.
type Store struct {
	root string
}

// NewStore creates the upload root if needed and returns a store over it.
// Failure to create the root is fatal to the caller.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root %s: %w", root, err)
	}
	return &Store{root: root}, nil
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// Create generates a fresh session token (128-bit hex) and its directory.
func (s *Store) Create() (string, error) {
	u := uuid.New()
	token := hex.EncodeToString(u[:])
	if err := os.MkdirAll(filepath.Join(s.root, token), 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	return token, nil
}

// Allowed reports whether filename carries an extension from the allow-set.
func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedExtensions[ext]
}

// Extension returns the lowercase extension without the leading dot.
func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded filename. Returns "" when nothing usable remains.
func SanitizeFilename(name string) string {
	// Browsers on Windows may send full paths with backslashes.
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	// No hidden files or bare separators left over.
	return strings.Trim(name, "._-")
}

// StoreFile writes an uploaded file into the session directory.
// Files with disallowed extensions are rejected with no side effect
// (returns false, nil). Same-named files are overwritten silently.
func (s *Store) StoreFile(token, filename string, r io.Reader) (bool, error) {
	if !validToken(token) {
		return false, fmt.Errorf("invalid session token")
	}
	if !Allowed(filename) {
		return false, nil
	}

	name := SanitizeFilename(filename)
	if name == "" || !Allowed(name) {
		return false, nil
	}

	dir := filepath.Join(s.root, token)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create session dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return false, fmt.Errorf("store %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return false, fmt.Errorf("store %s: %w", name, err)
	}
	return true, nil
}

// ListFiles returns the session's files sorted lexicographically, filtered
// to allowed extensions. Unknown tokens yield an empty list.
func (s *Store) ListFiles(token string) []string {
	if !validToken(token) {
		return nil
	}

	entries, err := os.ReadDir(filepath.Join(s.root, token))
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !Allowed(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files
}

// Resolve joins token and filename and verifies the result exists as a
// regular file. Returns ErrNotFound otherwise.
func (s *Store) Resolve(token, filename string) (string, error) {
	if !validToken(token) {
		return "", ErrNotFound
	}

	name := SanitizeFilename(filename)
	if name == "" || !Allowed(name) {
		return "", ErrNotFound
	}

	path := filepath.Join(s.root, token, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFound
	}
	return path, nil
}

// validToken guards path joins against traversal: tokens are always the
// 32-char lowercase hex strings produced by Create.
func validToken(token string) bool {
	return tokenShape.MatchString(token)
}
