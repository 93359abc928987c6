package scanner

import (
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/andywolf/stackprobe/internal/probe"
)

// Source directory candidates, in priority order.
var sourceDirCandidates = []string{"src", "app", "lib", "source", "pkg", "internal"}

// Test directory candidates, in priority order.
var testDirCandidates = []string{"tests", "test", "__tests__", "spec", "e2e"}

// noiseDirs are build output, dependency caches and VCS metadata.
var noiseDirs = map[string]bool{
	"node_modules":  true,
	".git":          true,
	"vendor":        true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	"dist":          true,
	"build":         true,
	"target":        true,
	".next":         true,
	".nuxt":         true,
	".svelte-kit":   true,
	"coverage":      true,
	".turbo":        true,
	".gradle":       true,
	"bin":           true,
	"obj":           true,
	".dart_tool":    true,
	"_build":        true,
	"deps":          true,
	".pytest_cache": true,
}

func isNoiseDir(name string) bool {
	return noiseDirs[name]
}

// structureDepth is how deep directory names are collected for
// classification.
const structureDepth = 2

var (
	featureDirs   = []string{"features", "feature", "modules", "module", "domains", "domain"}
	handlerDirs   = []string{"controllers", "controller", "handlers", "handler"}
	serviceDirs   = []string{"services", "service", "repositories", "repository", "repos"}
	componentDirs = []string{"components", "ui", "widgets"}
)

// keyDirectoryPatterns tag directories with a purpose. Each pattern records
// the first matching directory path.
var keyDirectoryPatterns = []struct {
	pattern string
	purpose string
}{
	{"**/components", "UI components"},
	{"**/pages", "Page routes"},
	{"**/app", "Application routes"},
	{"**/hooks", "Custom hooks"},
	{"**/{store,stores}", "State management"},
	{"**/{api,routes}", "API routes"},
	{"**/{controllers,handlers}", "Request handlers"},
	{"**/{services,service}", "Business logic"},
	{"**/{repositories,repository}", "Data access"},
	{"**/{models,entities}", "Data models"},
	{"**/{utils,helpers}", "Utilities"},
	{"**/{lib,libs}", "Shared libraries"},
	{"**/{types,interfaces}", "Type definitions"},
	{"**/{features,modules}", "Feature modules"},
	{"**/middleware", "Middleware"},
	{"**/{config,configs}", "Configuration"},
	{"**/cmd", "Command entry points"},
	{"**/internal", "Private packages"},
	{"**/{migrations,db}", "Database"},
	{"**/{tests,test,__tests__,spec}", "Tests"},
	{"**/{scripts,tools}", "Scripts and tooling"},
	{"**/docs", "Documentation"},
}

// keyDirectoryDepth bounds how deep key directories are searched.
const keyDirectoryDepth = 4

// DetectStructure classifies the project layout under its source directory
// and tags key directories. extraSourceDirs are tried after the built-in
// candidates; excludes are skipped like build noise.
func DetectStructure(c *probe.Context, extraSourceDirs, excludes []string) DirectoryStructure {
	skip := skipDirs(excludes)
	sourceDir := findSourceDir(c, extraSourceDirs)
	names := collectDirNames(c, sourceDir, skip)

	structure := DirectoryStructure{
		Type:           classifyStructure(names),
		SourceDir:      sourceDir,
		TestDir:        firstDir(c, testDirCandidates),
		KeyDirectories: detectKeyDirectories(c, skip),
		EntryPoints:    detectEntryPoints(c),
		HasDocker:      c.HasAny("Dockerfile", "docker-compose.yml", "docker-compose.yaml", "compose.yaml"),
		CISystem:       detectCI(c),
	}
	return structure
}

// skipDirs matches directory names the layout and naming walks never enter:
// build noise, hidden directories and the configured excludes.
func skipDirs(excludes []string) func(name string) bool {
	return func(name string) bool {
		if isNoiseDir(name) || strings.HasPrefix(name, ".") {
			return true
		}
		for _, e := range excludes {
			if e == name {
				return true
			}
		}
		return false
	}
}

func findSourceDir(c *probe.Context, extra []string) string {
	candidates := append(append([]string{}, sourceDirCandidates...), extra...)
	if dir := firstDir(c, candidates); dir != "" {
		return dir
	}
	return "."
}

func firstDir(c *probe.Context, candidates []string) string {
	for _, dir := range candidates {
		if c.IsDir(dir) {
			return dir
		}
	}
	return ""
}

// collectDirNames returns the lowercase names of directories up to two
// levels below dir.
func collectDirNames(c *probe.Context, dir string, skip func(string) bool) map[string]bool {
	names := make(map[string]bool)
	c.Walk(dir, structureDepth, skip, func(_ string, d fs.DirEntry) bool {
		if d.IsDir() {
			names[strings.ToLower(d.Name())] = true
		}
		return true
	})
	return names
}

// classifyStructure applies the layout rules in order; the first match wins.
func classifyStructure(names map[string]bool) StructureType {
	has := func(candidates []string) bool {
		for _, n := range candidates {
			if names[n] {
				return true
			}
		}
		return false
	}

	switch {
	case has(featureDirs):
		return StructureFeatureBased
	case has(handlerDirs) && has(serviceDirs):
		return StructureLayerBased
	case has(componentDirs) && !has(serviceDirs):
		return StructureFlat
	case has(componentDirs) && has(serviceDirs):
		return StructureHybrid
	default:
		return StructureUnknown
	}
}

// detectKeyDirectories records, per pattern, the first existing directory
// in walk order. Paths are relative to the probe root.
func detectKeyDirectories(c *probe.Context, skip func(string) bool) []KeyDirectory {
	var dirs []string
	c.Walk(".", keyDirectoryDepth, skip, func(p string, d fs.DirEntry) bool {
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return true
	})

	keyDirs := []KeyDirectory{}
	taken := make(map[string]bool)
	for _, kp := range keyDirectoryPatterns {
		for _, dir := range dirs {
			if taken[dir] {
				continue
			}
			if ok, _ := doublestar.Match(kp.pattern, dir); ok {
				keyDirs = append(keyDirs, KeyDirectory{Path: dir, Purpose: kp.purpose})
				taken[dir] = true
				break
			}
		}
	}
	return keyDirs
}

// entryPointCandidates are conventional single-file entry points.
var entryPointCandidates = []string{
	"main.go",
	"main.py", "app.py", "__main__.py", "manage.py",
	"index.js", "index.ts", "src/index.ts", "src/index.js", "src/main.ts", "src/main.js",
	"src/main.rs", "src/lib.rs",
	"lib/main.dart",
	"Program.cs",
}

func detectEntryPoints(c *probe.Context) []string {
	var entryPoints []string

	// Go binaries under cmd/
	for _, name := range c.ListDirs("cmd") {
		main := path.Join("cmd", name, "main.go")
		if c.IsFile(main) {
			entryPoints = append(entryPoints, main)
		}
	}

	for _, candidate := range entryPointCandidates {
		if c.IsFile(candidate) {
			entryPoints = append(entryPoints, candidate)
		}
	}
	return entryPoints
}

// ciSystems are checked in order; the first marker found names the system.
var ciSystems = []struct {
	marker string
	name   string
}{
	{".github/workflows", "github-actions"},
	{".gitlab-ci.yml", "gitlab-ci"},
	{".circleci/config.yml", "circleci"},
	{".travis.yml", "travis-ci"},
	{"Jenkinsfile", "jenkins"},
	{"azure-pipelines.yml", "azure-pipelines"},
	{"bitbucket-pipelines.yml", "bitbucket-pipelines"},
	{".buildkite", "buildkite"},
}

func detectCI(c *probe.Context) string {
	for _, ci := range ciSystems {
		if c.Exists(ci.marker) {
			return ci.name
		}
	}
	return ""
}
