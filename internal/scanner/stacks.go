package scanner

import (
	"context"
	"path"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andywolf/stackprobe/internal/probe"
	"github.com/andywolf/stackprobe/internal/workspace"
)

// rootStackName names the pseudo-workspace for the monorepo root.
const rootStackName = "root"

// DetectStack runs language, framework, test-framework and package-manager
// detection against one directory. rel is recorded verbatim as the stack
// path. The stack language follows the primary framework when there is one.
func DetectStack(c *probe.Context, rel string) StackItem {
	langs := DetectLanguages(c)
	primaryLang := PrimaryLanguage(langs)
	if primaryLang.Language == LanguageUnknown {
		return UnknownStack(rel)
	}

	framework := PrimaryFramework(DetectFrameworks(c, langs))
	if framework.Framework != FrameworkUnknown && framework.Language != primaryLang.Language {
		for _, l := range langs {
			if l.Language == framework.Language {
				primaryLang = l
				break
			}
		}
	}

	return StackItem{
		Language:         primaryLang.Language,
		LanguageVersion:  primaryLang.Version,
		Framework:        framework.Framework,
		FrameworkVersion: framework.Version,
		TestFramework:    DetectTestFramework(c, primaryLang.Language),
		PackageManager:   DetectPackageManager(c, primaryLang.Language),
		Path:             rel,
		Name:             projectName(c),
	}
}

var (
	goModuleRe      = regexp.MustCompile(`(?m)^module\s+(\S+)`)
	majorVersionRe  = regexp.MustCompile(`^v\d+$`)
	cargoNameRe     = regexp.MustCompile(`(?m)^\[package\][^\[]*?^name\s*=\s*"([^"]+)"`)
	pyprojectNameRe = regexp.MustCompile(`(?m)^\[(?:project|tool\.poetry)\][^\[]*?^name\s*=\s*["']([^"']+)["']`)
)

// projectName reads the manifest name, falling back to the directory name.
func projectName(c *probe.Context) string {
	if pkg, ok := readPackageJSON(c); ok && pkg.Name != "" {
		return pkg.Name
	}
	if content, ok := c.ReadText("Cargo.toml"); ok {
		if name := firstSubmatch(cargoNameRe, content); name != "" {
			return name
		}
	}
	if content, ok := c.ReadText("pyproject.toml"); ok {
		if name := firstSubmatch(pyprojectNameRe, content); name != "" {
			return name
		}
	}
	if content, ok := c.ReadText("go.mod"); ok {
		if module := firstSubmatch(goModuleRe, content); module != "" {
			if majorVersionRe.MatchString(path.Base(module)) {
				module = path.Dir(module)
			}
			return path.Base(module)
		}
	}
	return filepath.Base(c.Root())
}

// ScanWorkspaces detects one stack per workspace directory plus the root.
// Directories run concurrently, bounded by the scanner's worker limit, and
// results keep root-first then workspace order. Directories that resolve to
// an unknown language are dropped.
func (s *Scanner) ScanWorkspaces(ctx context.Context, info *workspace.MonorepoInfo) ([]StackItem, error) {
	dirs := workspace.Expand(s.probe, info.Workspaces)
	s.logger.Debug("workspace directories expanded",
		zap.String("type", string(info.Type)), zap.Strings("dirs", dirs))

	results := make([]StackItem, len(dirs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sub := s.probe.Sub(dir)
			if sub == nil {
				results[i] = UnknownStack(dir)
				return nil
			}
			results[i] = DetectStack(sub, dir)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var stacks []StackItem
	if root := DetectStack(s.probe, "."); root.Language != LanguageUnknown {
		root.Name = rootStackName
		stacks = append(stacks, root)
	}
	for _, item := range results {
		if item.Language == LanguageUnknown {
			s.logger.Debug("dropping unrecognized workspace", zap.String("path", item.Path))
			continue
		}
		stacks = append(stacks, item)
	}
	return stacks, nil
}

// PrimaryStack prefers the first stack running an application framework,
// else the first stack.
func PrimaryStack(stacks []StackItem) StackItem {
	for _, st := range stacks {
		if IsApplicationFramework(st.Framework) {
			return st
		}
	}
	if len(stacks) > 0 {
		return stacks[0]
	}
	return UnknownStack(".")
}

// buildTechStack aggregates stacks into a TechStack. Languages and frameworks
// detected at the root beyond each stack's primary pick are folded into the
// deduplicated lists. stacks is never empty in the result.
func buildTechStack(stacks []StackItem, monorepo *workspace.MonorepoInfo, rootLangs []LanguageInfo, rootFrameworks []FrameworkInfo) TechStack {
	if len(stacks) == 0 {
		stacks = []StackItem{UnknownStack(".")}
	}

	ts := TechStack{
		Primary:         PrimaryStack(stacks),
		Stacks:          stacks,
		Monorepo:        monorepo,
		AllLanguages:    []Language{},
		AllFrameworks:   []Framework{},
		AdditionalTools: []string{},
	}

	seenLang := make(map[Language]bool)
	addLang := func(l Language) {
		if l != LanguageUnknown && !seenLang[l] {
			seenLang[l] = true
			ts.AllLanguages = append(ts.AllLanguages, l)
		}
	}
	seenFw := make(map[Framework]bool)
	addFramework := func(f Framework) {
		if f != FrameworkUnknown && !seenFw[f] {
			seenFw[f] = true
			ts.AllFrameworks = append(ts.AllFrameworks, f)
		}
	}

	for _, st := range stacks {
		addLang(st.Language)
		addFramework(st.Framework)
	}
	for _, l := range rootLangs {
		addLang(l.Language)
	}
	for _, f := range rootFrameworks {
		addFramework(f.Framework)
	}
	return ts
}
