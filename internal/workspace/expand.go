package workspace

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/andywolf/stackprobe/internal/probe"
)

// ignoredDirs never count as workspaces even when a glob matches them.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"vendor":       true,
}

// Expand turns workspace patterns into directories relative to the probe
// root. A trailing "/*" lists the immediate children of its base; other glob
// syntax is matched with doublestar; plain entries must be directories.
// Patterns prefixed with "!" remove matches. Output keeps pattern order with
// duplicates dropped.
func Expand(c *probe.Context, patterns []string) []string {
	var include, exclude []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			exclude = append(exclude, NormalizePackagePath(strings.TrimPrefix(p, "!")))
		} else {
			include = append(include, NormalizePackagePath(p))
		}
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range include {
		for _, dir := range expandPattern(c, pattern) {
			if seen[dir] || excluded(c, dir, exclude) {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func expandPattern(c *probe.Context, pattern string) []string {
	if pattern == "" || pattern == "." {
		return nil
	}

	if base, ok := strings.CutSuffix(pattern, "/*"); ok && !hasGlob(base) {
		return childDirs(c, base)
	}
	if pattern == "*" {
		return childDirs(c, ".")
	}

	if !hasGlob(pattern) {
		if c.IsDir(pattern) {
			return []string{pattern}
		}
		return nil
	}

	if !doublestar.ValidatePattern(pattern) {
		c.Logger().Debug("invalid workspace pattern", zap.String("pattern", pattern))
		return nil
	}
	var dirs []string
	for _, match := range c.Glob(pattern) {
		if !ignoredPath(match) && c.IsDir(match) {
			dirs = append(dirs, match)
		}
	}
	return dirs
}

func childDirs(c *probe.Context, base string) []string {
	var dirs []string
	for _, name := range c.ListDirs(base) {
		if strings.HasPrefix(name, ".") || ignoredDirs[name] {
			continue
		}
		if base == "." {
			dirs = append(dirs, name)
		} else {
			dirs = append(dirs, path.Join(base, name))
		}
	}
	return dirs
}

func excluded(c *probe.Context, dir string, exclude []string) bool {
	for _, pattern := range exclude {
		match, err := doublestar.Match(pattern, dir)
		if err != nil {
			c.Logger().Debug("invalid exclude pattern", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		if match {
			return true
		}
	}
	return false
}

func hasGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func ignoredPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if ignoredDirs[seg] || strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// ResolvePackagePath converts a workspace name to its directory.
// It tries an exact path match first, then the directory base name,
// so "core" resolves to "packages/core".
func ResolvePackagePath(c *probe.Context, info *MonorepoInfo, packageName string) (string, error) {
	if info == nil {
		return "", fmt.Errorf("no workspace system detected in %s", c.Root())
	}
	packages := Expand(c, info.Workspaces)
	want := NormalizePackagePath(packageName)

	for _, pkg := range packages {
		if pkg == want {
			return pkg, nil
		}
	}

	for _, pkg := range packages {
		if path.Base(pkg) == want {
			return pkg, nil
		}
	}

	return "", fmt.Errorf("package %q not found in workspace (available: %v)", packageName, packages)
}
