// Package probe provides read-only, failure-tolerant access to a project
// directory. Every read that cannot be satisfied resolves to "absent" rather
// than an error, so detectors built on top of it never have to recover.
package probe

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	securejoin "github.com/cyphar/filepath-securejoin"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const defaultCacheSize = 256

// maxReadSize caps manifest reads; anything larger is not a manifest.
const maxReadSize = 4 << 20

// Context is a probe bound to a single directory.
type Context struct {
	root   string
	cache  *lru.Cache[string, readResult]
	logger *zap.Logger
}

type readResult struct {
	data string
	ok   bool
}

// Option configures a Context.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	cacheSize int
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCacheSize sets the number of file reads kept in memory.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// New creates a probe rooted at dir. The directory must exist.
func New(dir string, opts ...Option) (*Context, error) {
	o := options{logger: zap.NewNop(), cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}

	cache, err := lru.New[string, readResult](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create read cache: %w", err)
	}

	return &Context{root: abs, cache: cache, logger: o.logger}, nil
}

// Root returns the absolute directory this probe is bound to.
func (c *Context) Root() string {
	return c.root
}

// Logger returns the probe's logger.
func (c *Context) Logger() *zap.Logger {
	return c.logger
}

// Sub returns a probe bound to a subdirectory. The read cache is shared.
// It returns nil when rel is not a directory under the root.
func (c *Context) Sub(rel string) *Context {
	if rel == "" || rel == "." {
		return c
	}
	path, ok := c.resolve(rel)
	if !ok {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil
	}
	return &Context{root: path, cache: c.cache, logger: c.logger}
}

// resolve joins rel onto the root. Paths that try to climb out of the root
// (via ".." or symlinks) are clamped inside it.
func (c *Context) resolve(rel string) (string, bool) {
	path, err := securejoin.SecureJoin(c.root, filepath.FromSlash(rel))
	if err != nil {
		c.logger.Debug("path resolution failed", zap.String("rel", rel), zap.Error(err))
		return "", false
	}
	return path, true
}

// Exists reports whether rel exists (file or directory).
func (c *Context) Exists(rel string) bool {
	path, ok := c.resolve(rel)
	if !ok {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether rel is an existing directory.
func (c *Context) IsDir(rel string) bool {
	path, ok := c.resolve(rel)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether rel is an existing regular file.
func (c *Context) IsFile(rel string) bool {
	path, ok := c.resolve(rel)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadText returns the content of rel. The second return is false when the
// file is missing, unreadable, a directory, or too large.
func (c *Context) ReadText(rel string) (string, bool) {
	path, ok := c.resolve(rel)
	if !ok {
		return "", false
	}
	if cached, hit := c.cache.Get(path); hit {
		return cached.data, cached.ok
	}

	res := readResult{}
	info, err := os.Stat(path)
	switch {
	case err != nil:
	case !info.Mode().IsRegular() || info.Size() > maxReadSize:
		c.logger.Debug("skipping non-regular or oversized file", zap.String("path", path))
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			c.logger.Debug("read failed", zap.String("path", path), zap.Error(err))
			break
		}
		res = readResult{data: string(data), ok: true}
	}

	c.cache.Add(path, res)
	return res.data, res.ok
}

// ReadJSON decodes rel into v. Malformed JSON is treated the same as a
// missing file.
func (c *Context) ReadJSON(rel string, v any) bool {
	text, ok := c.ReadText(rel)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		c.logger.Debug("malformed json", zap.String("file", rel), zap.Error(err))
		return false
	}
	return true
}

// ListFiles returns the names of regular files directly under rel, sorted.
func (c *Context) ListFiles(rel string) []string {
	return c.list(rel, false)
}

// ListDirs returns the names of directories directly under rel, sorted.
func (c *Context) ListDirs(rel string) []string {
	return c.list(rel, true)
}

func (c *Context) list(rel string, dirs bool) []string {
	path, ok := c.resolve(rel)
	if !ok {
		return nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() == dirs {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Glob returns slash-separated paths relative to the root that match pattern.
// Supports doublestar syntax ("**", "{a,b}").
func (c *Context) Glob(pattern string) []string {
	matches, err := doublestar.Glob(os.DirFS(c.root), pattern)
	if err != nil {
		c.logger.Debug("bad glob pattern", zap.String("pattern", pattern), zap.Error(err))
		return nil
	}
	sort.Strings(matches)
	return matches
}

// HasAny reports whether any of the given relative paths exist.
func (c *Context) HasAny(rels ...string) bool {
	for _, rel := range rels {
		if c.Exists(rel) {
			return true
		}
	}
	return false
}

// Walk visits entries under rel up to maxDepth levels deep (1 = direct
// children, 0 = unlimited), skipping directories for which skip returns true.
// Paths are passed to fn slash-separated and relative to the probe root; the
// walk stops when fn returns false. Entries are visited in lexical order.
func (c *Context) Walk(rel string, maxDepth int, skip func(name string) bool, fn func(path string, d fs.DirEntry) bool) {
	base, ok := c.resolve(rel)
	if !ok {
		return
	}
	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || path == base {
			return nil
		}
		fromBase, err := filepath.Rel(base, path)
		if err != nil {
			return nil
		}
		depth := strings.Count(filepath.ToSlash(fromBase), "/") + 1
		if maxDepth > 0 && depth > maxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && skip != nil && skip(d.Name()) {
			return filepath.SkipDir
		}
		fromRoot, err := filepath.Rel(c.root, path)
		if err != nil {
			return nil
		}
		if !fn(filepath.ToSlash(fromRoot), d) {
			return filepath.SkipAll
		}
		return nil
	})
}
