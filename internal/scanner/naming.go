package scanner

import (
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/andywolf/stackprobe/internal/probe"
)

// The winning style must cover at least thresholdNum/thresholdDen of the
// sample.
const (
	thresholdNum = 3
	thresholdDen = 5
)

// namingPatterns are mutually exclusive and checked in order. Single-word
// lowercase names fall through to camelCase.
var namingPatterns = []struct {
	convention NamingConvention
	re         *regexp.Regexp
}{
	{NamingKebabCase, regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)+$`)},
	{NamingSnakeCase, regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)},
	{NamingPascalCase, regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)},
	{NamingCamelCase, regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)},
}

// ClassifyNaming returns the dominant casing across names. Each entry may
// be a path; only the base name up to its first dot is classified. The top
// style must cover at least 60% of the sample, otherwise the result is
// mixed. Empty input is mixed.
func ClassifyNaming(names []string) NamingConvention {
	if len(names) == 0 {
		return NamingMixed
	}

	counts := make(map[NamingConvention]int)
	for _, name := range names {
		stem := path.Base(strings.ReplaceAll(name, "\\", "/"))
		if i := strings.Index(stem, "."); i > 0 {
			stem = stem[:i]
		}
		for _, p := range namingPatterns {
			if p.re.MatchString(stem) {
				counts[p.convention]++
				break
			}
		}
	}

	best, bestCount := NamingMixed, 0
	for _, p := range namingPatterns {
		if counts[p.convention] > bestCount {
			best, bestCount = p.convention, counts[p.convention]
		}
	}
	if bestCount*thresholdDen < len(names)*thresholdNum {
		return NamingMixed
	}
	return best
}

// sourceExtensions are the file types sampled for naming.
var sourceExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mjs": true, ".cjs": true, ".vue": true, ".svelte": true, ".astro": true,
	".rs": true, ".java": true, ".kt": true, ".kts": true, ".rb": true, ".php": true,
	".cs": true, ".swift": true, ".dart": true, ".ex": true, ".exs": true,
	".c": true, ".h": true, ".cpp": true, ".hpp": true, ".scala": true,
}

// sampleNames collects up to limit source file names and directory names
// under rel. Directories matched by skip are not entered.
func sampleNames(c *probe.Context, rel string, limit int, skip func(string) bool) (files, dirs []string) {
	c.Walk(rel, 0, skip, func(p string, d fs.DirEntry) bool {
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return true
		}
		if d.IsDir() {
			if len(dirs) < limit {
				dirs = append(dirs, name)
			}
		} else if sourceExtensions[path.Ext(name)] && !isTestFile(name) {
			files = append(files, name)
		}
		return len(files) < limit
	})
	return files, dirs
}

// isTestFile skips conventional test names whose suffixes would skew the
// tally (foo_test.go, foo.spec.ts).
func isTestFile(name string) bool {
	return strings.HasSuffix(strings.TrimSuffix(name, path.Ext(name)), "_test") ||
		strings.Contains(name, ".test.") || strings.Contains(name, ".spec.")
}

// DetectNaming classifies file and directory naming under the source dir.
// Hidden, noise and excluded directories are left out of the sample.
func DetectNaming(c *probe.Context, sourceDir string, sampleSize int, excludes []string) NamingConventions {
	files, dirs := sampleNames(c, sourceDir, sampleSize, skipDirs(excludes))
	return NamingConventions{
		Files:       ClassifyNaming(files),
		Directories: ClassifyNaming(dirs),
	}
}
