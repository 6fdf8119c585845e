package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestStore_Create(t *testing.T) {
	store := newTestStore(t)

	token, err := store.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(token) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(token))
	}
	if !validToken(token) {
		t.Errorf("token %q is not lowercase hex", token)
	}

	info, err := os.Stat(filepath.Join(store.Root(), token))
	if err != nil {
		t.Fatalf("session dir missing: %v", err)
	}
	if !info.IsDir() {
		t.Error("session path is not a directory")
	}
}

func TestStore_CreateUniqueTokens(t *testing.T) {
	store := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := store.Create()
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestStore_StoreFile(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()

	ok, err := store.StoreFile(token, "data.csv", strings.NewReader("id,name\n1,Bob\n"))
	if err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}
	if !ok {
		t.Fatal("StoreFile() = false, want true for allowed extension")
	}

	got, err := os.ReadFile(filepath.Join(store.Root(), token, "data.csv"))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(got) != "id,name\n1,Bob\n" {
		t.Errorf("stored content = %q", got)
	}
}

func TestStore_StoreFileRejectsExtension(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()

	for _, name := range []string{"run.exe", "notes.txt", "noext", "archive.csv.zip"} {
		ok, err := store.StoreFile(token, name, strings.NewReader("x"))
		if err != nil {
			t.Fatalf("StoreFile(%q) error = %v", name, err)
		}
		if ok {
			t.Errorf("StoreFile(%q) = true, want rejection", name)
		}
	}

	if files := store.ListFiles(token); len(files) != 0 {
		t.Errorf("ListFiles() = %v, want empty after rejected uploads", files)
	}
}

func TestStore_StoreFileSanitizesName(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()

	ok, err := store.StoreFile(token, "../../../etc/passwd data.csv", strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}
	if !ok {
		t.Fatal("StoreFile() = false, want true")
	}

	files := store.ListFiles(token)
	if len(files) != 1 {
		t.Fatalf("ListFiles() = %v, want one file", files)
	}
	if strings.ContainsAny(files[0], "/\\") {
		t.Errorf("stored name %q contains path separators", files[0])
	}
	if _, err := os.Stat(filepath.Join(store.Root(), token, files[0])); err != nil {
		t.Errorf("sanitized file missing: %v", err)
	}
}

func TestStore_StoreFileOverwrites(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()

	if _, err := store.StoreFile(token, "a.csv", strings.NewReader("old")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}
	if _, err := store.StoreFile(token, "a.csv", strings.NewReader("new")); err != nil {
		t.Fatalf("StoreFile() error = %v", err)
	}

	got, _ := os.ReadFile(filepath.Join(store.Root(), token, "a.csv"))
	if string(got) != "new" {
		t.Errorf("content = %q, want %q after silent overwrite", got, "new")
	}
}

func TestStore_ListFilesSorted(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()

	for _, name := range []string{"b.xlsx", "a.csv", "c.csv"} {
		if _, err := store.StoreFile(token, name, strings.NewReader("x")); err != nil {
			t.Fatalf("StoreFile(%q) error = %v", name, err)
		}
	}

	got := store.ListFiles(token)
	want := []string{"a.csv", "b.xlsx", "c.csv"}
	if len(got) != len(want) {
		t.Fatalf("ListFiles() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListFiles()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStore_ListFilesUnknownToken(t *testing.T) {
	store := newTestStore(t)

	if files := store.ListFiles("00000000000000000000000000000000"); len(files) != 0 {
		t.Errorf("ListFiles() = %v, want empty for unknown token", files)
	}
	if files := store.ListFiles("../escape"); len(files) != 0 {
		t.Errorf("ListFiles() = %v, want empty for malformed token", files)
	}
}

func TestStore_Resolve(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()
	_, _ = store.StoreFile(token, "a.csv", strings.NewReader("x"))

	path, err := store.Resolve(token, "a.csv")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("resolved path unreadable: %v", err)
	}
}

func TestStore_ResolveNotFound(t *testing.T) {
	store := newTestStore(t)
	token, _ := store.Create()

	tests := []struct {
		name     string
		token    string
		filename string
	}{
		{"missing file", token, "missing.csv"},
		{"unknown token", "00000000000000000000000000000000", "a.csv"},
		{"malformed token", "../../etc", "a.csv"},
		{"traversal filename", token, "../../secret.csv"},
		{"disallowed extension", token, "a.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.Resolve(tt.token, tt.filename); !errors.Is(err, ErrNotFound) {
				t.Errorf("Resolve(%q, %q) error = %v, want ErrNotFound", tt.token, tt.filename, err)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.xlsx", "report.xlsx"},
		{"my data.csv", "my_data.csv"},
		{"../../etc/passwd.csv", "passwd.csv"},
		{`C:\Users\me\sheet.xlsx`, "sheet.xlsx"},
		{"..", ""},
		{"héllo wörld.csv", "hllo_wrld.csv"},
		{".hidden.csv", "hidden.csv"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.csv", true},
		{"a.CSV", true},
		{"a.xlsx", true},
		{"a.XLSX", true},
		{"a.xls", false},
		{"a.txt", false},
		{"csv", false},
	}

	for _, tt := range tests {
		if got := Allowed(tt.name); got != tt.want {
			t.Errorf("Allowed(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
