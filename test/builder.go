package test

import (
	"os"
	"path/filepath"
	"testing"
)

// Helper gives a test its own root directory to build fixtures in.
type Helper struct {
	Assert  Assertions
	RootDir string
	t       *testing.T
}

func New(t *testing.T) *Helper {
	t.Helper()
	return &Helper{
		Assert:  NewAssertions(t),
		RootDir: t.TempDir(),
		t:       t,
	}
}

// FilePath resolves a slash separated path against the root directory.
func (h *Helper) FilePath(p string) string {
	return filepath.Join(h.RootDir, filepath.FromSlash(p))
}

// WriteFiles creates every file of the map, keyed by its path under the root directory.
func (h *Helper) WriteFiles(files map[string]string) {
	h.t.Helper()
	for name, content := range files {
		path := h.FilePath(name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			h.t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			h.t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

func (h *Helper) ReadFile(p string) string {
	h.t.Helper()
	data, err := os.ReadFile(h.FilePath(p))
	if err != nil {
		h.t.Fatalf("failed to read %s: %v", p, err)
	}
	return string(data)
}

// DatabaseURL points at a fresh SQLite database under the root directory.
func (h *Helper) DatabaseURL() string {
	return "sqlite://" + h.FilePath("loctool.db")
}
