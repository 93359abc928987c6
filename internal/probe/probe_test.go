package probe

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_RequiresDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "file.txt", "x")

	_, err := New(filepath.Join(tmpDir, "file.txt"))
	assert.Error(t, err)

	_, err = New(filepath.Join(tmpDir, "missing"))
	assert.Error(t, err)

	c, err := New(tmpDir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(c.Root()))
}

func TestReadText_MissingIsAbsent(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	text, ok := c.ReadText("package.json")
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestReadText_CachesResult(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "go.mod", "module example.com/a\n")

	c, err := New(tmpDir)
	require.NoError(t, err)

	text, ok := c.ReadText("go.mod")
	require.True(t, ok)
	assert.Equal(t, "module example.com/a\n", text)

	// Rewriting the file does not change a cached read.
	writeFile(t, tmpDir, "go.mod", "module example.com/b\n")
	text, _ = c.ReadText("go.mod")
	assert.Equal(t, "module example.com/a\n", text)
}

func TestReadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "good.json", `{"name": "app"}`)
	writeFile(t, tmpDir, "bad.json", `{"name": `)

	c, err := New(tmpDir)
	require.NoError(t, err)

	var good struct {
		Name string `json:"name"`
	}
	assert.True(t, c.ReadJSON("good.json", &good))
	assert.Equal(t, "app", good.Name)

	var bad map[string]any
	assert.False(t, c.ReadJSON("bad.json", &bad))
	assert.False(t, c.ReadJSON("missing.json", &bad))
}

func TestResolve_StaysInsideRoot(t *testing.T) {
	outer := t.TempDir()
	writeFile(t, outer, "secret.txt", "secret")
	writeFile(t, outer, "inner/file.txt", "inner")

	c, err := New(filepath.Join(outer, "inner"))
	require.NoError(t, err)

	_, ok := c.ReadText("../secret.txt")
	assert.False(t, ok)

	text, ok := c.ReadText("file.txt")
	assert.True(t, ok)
	assert.Equal(t, "inner", text)
}

func TestListAndSub(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "b.txt", "")
	writeFile(t, tmpDir, "a.txt", "")
	writeFile(t, tmpDir, "pkg/core/index.ts", "")
	writeFile(t, tmpDir, "apps/web/index.ts", "")

	c, err := New(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.txt"}, c.ListFiles("."))
	assert.Equal(t, []string{"apps", "pkg"}, c.ListDirs("."))
	assert.Nil(t, c.ListDirs("nope"))

	sub := c.Sub("pkg/core")
	require.NotNil(t, sub)
	assert.True(t, sub.IsFile("index.ts"))
	assert.Nil(t, c.Sub("a.txt"))
	assert.Same(t, c, c.Sub("."))
}

func TestGlob(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "App.csproj", "")
	writeFile(t, tmpDir, "jest.config.ts", "")
	writeFile(t, tmpDir, "src/deep/thing.go", "")

	c, err := New(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"App.csproj"}, c.Glob("*.csproj"))
	assert.Equal(t, []string{"jest.config.ts"}, c.Glob("jest.config.*"))
	assert.Equal(t, []string{"src/deep/thing.go"}, c.Glob("**/*.go"))
	assert.Nil(t, c.Glob("[invalid"))
}

func TestWalk_DepthAndSkip(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "src/components/Button.tsx", "")
	writeFile(t, tmpDir, "src/components/forms/Input.tsx", "")
	writeFile(t, tmpDir, "src/node_modules/x/index.js", "")

	c, err := New(tmpDir)
	require.NoError(t, err)

	var dirs []string
	c.Walk("src", 2, func(name string) bool { return name == "node_modules" }, func(path string, d fs.DirEntry) bool {
		if d.IsDir() {
			dirs = append(dirs, path)
		}
		return true
	})
	assert.Equal(t, []string{"src/components", "src/components/forms"}, dirs)

	var files []string
	c.Walk("src", 0, nil, func(path string, d fs.DirEntry) bool {
		if !d.IsDir() {
			files = append(files, path)
		}
		return len(files) < 1
	})
	assert.Len(t, files, 1)
}
