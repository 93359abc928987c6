package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andywolf/stackprobe/internal/probe"
)

// writeFiles creates each file under root, making parent directories.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

// probeWith writes files into a fresh temp dir and returns a probe on it.
func probeWith(t *testing.T, files map[string]string) *probe.Context {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, files)
	return openProbe(t, dir)
}

func openProbe(t *testing.T, dir string) *probe.Context {
	t.Helper()
	c, err := probe.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
