package workspace

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/andywolf/stackprobe/internal/probe"
)

func newProbe(t *testing.T, dir string) *probe.Context {
	t.Helper()
	c, err := probe.New(dir)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
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

func TestParsePnpmWorkspace(t *testing.T) {
	tmpDir := t.TempDir()

	workspaceContent := `packages:
  - 'packages/*'
  - "./apps/*/"
  - '!packages/legacy'
`
	writeFile(t, tmpDir, PnpmWorkspaceFile, workspaceContent)

	patterns, ok := ParsePnpmWorkspace(newProbe(t, tmpDir))
	if !ok {
		t.Fatal("ParsePnpmWorkspace() ok = false, want true")
	}

	expected := []string{"packages/*", "apps/*", "!packages/legacy"}
	if !reflect.DeepEqual(patterns, expected) {
		t.Errorf("ParsePnpmWorkspace() = %v, want %v", patterns, expected)
	}
}

func TestParsePnpmWorkspace_NotFound(t *testing.T) {
	if _, ok := ParsePnpmWorkspace(newProbe(t, t.TempDir())); ok {
		t.Error("ParsePnpmWorkspace() ok = true for missing file, want false")
	}
}

func TestParseYAMLList_FallbackForInvalidYAML(t *testing.T) {
	// A tab-indented document is rejected by the YAML parser.
	content := "packages:\n\t- packages/*\n\t- apps/* # frontends\nother:\n\t- nope\n"

	got := parseYAMLList(content, "packages")
	want := []string{"packages/*", "apps/*"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseYAMLList() = %v, want %v", got, want)
	}
}

func TestNormalizePackagePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"./packages/core", "packages/core"},
		{"packages/core/", "packages/core"},
		{"./packages/core/", "packages/core"},
		{"packages/core", "packages/core"},
		{"  apps/web ", "apps/web"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizePackagePath(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizePackagePath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestHasPnpmWorkspace(t *testing.T) {
	tmpDir := t.TempDir()

	if HasPnpmWorkspace(newProbe(t, tmpDir)) {
		t.Error("HasPnpmWorkspace() = true, want false (no file)")
	}

	writeFile(t, tmpDir, PnpmWorkspaceFile, "packages: []")

	if !HasPnpmWorkspace(newProbe(t, tmpDir)) {
		t.Error("HasPnpmWorkspace() = false, want true (file exists)")
	}
}

func TestResolvePackagePath(t *testing.T) {
	tmpDir := t.TempDir()
	mkdirs(t, tmpDir, "packages/core", "packages/shared", "apps/web")
	c := newProbe(t, tmpDir)
	info := &MonorepoInfo{Type: MonorepoPnpm, RootPath: c.Root(), Workspaces: []string{"packages/*", "apps/*"}}

	tests := []struct {
		name        string
		packageName string
		wantPath    string
		wantErr     bool
	}{
		{name: "resolve by base name", packageName: "core", wantPath: "packages/core"},
		{name: "resolve by full path", packageName: "packages/shared", wantPath: "packages/shared"},
		{name: "resolve app", packageName: "./apps/web/", wantPath: "apps/web"},
		{name: "not found", packageName: "nonexistent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePackagePath(c, info, tt.packageName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ResolvePackagePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.wantPath {
				t.Errorf("ResolvePackagePath() = %q, want %q", got, tt.wantPath)
			}
		})
	}

	if _, err := ResolvePackagePath(c, nil, "core"); err == nil {
		t.Error("ResolvePackagePath() with no monorepo: expected error")
	}
}
