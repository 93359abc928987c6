// Package workspace detects monorepo workspace systems and expands their
// workspace patterns into concrete directories.
package workspace

import (
	"encoding/json"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/andywolf/stackprobe/internal/probe"
)

// MonorepoType identifies a workspace system.
type MonorepoType string

const (
	MonorepoPnpm      MonorepoType = "pnpm"
	MonorepoYarn      MonorepoType = "yarn"
	MonorepoNPM       MonorepoType = "npm"
	MonorepoBun       MonorepoType = "bun"
	MonorepoLerna     MonorepoType = "lerna"
	MonorepoNx        MonorepoType = "nx"
	MonorepoTurborepo MonorepoType = "turborepo"
	MonorepoGoWork    MonorepoType = "go-workspace"
	MonorepoCargo     MonorepoType = "cargo-workspace"
)

// MonorepoInfo describes a detected workspace system.
type MonorepoInfo struct {
	Type       MonorepoType `json:"type" yaml:"type"`
	RootPath   string       `json:"root_path" yaml:"root_path"`
	Workspaces []string     `json:"workspaces" yaml:"workspaces"`
}

// detector checks for one workspace system and returns its patterns.
type detector struct {
	name   string
	detect func(c *probe.Context) (MonorepoType, []string, bool)
}

// detectors are evaluated in order; the first match wins. Workspace-tool
// config first, then the package manifest field, then build orchestrators,
// then single-language workspace files.
var detectors = []detector{
	{name: "pnpm-workspace", detect: detectPnpm},
	{name: "package-workspaces", detect: detectPackageWorkspaces},
	{name: "lerna", detect: detectLerna},
	{name: "nx", detect: detectNx},
	{name: "turborepo", detect: detectTurbo},
	{name: "go-work", detect: detectGoWork},
	{name: "cargo", detect: detectCargo},
}

// Detect returns the first workspace system found at the probe root, or nil.
func Detect(c *probe.Context) *MonorepoInfo {
	for _, d := range detectors {
		typ, patterns, ok := d.detect(c)
		if !ok {
			continue
		}
		c.Logger().Debug("monorepo detected",
			zap.String("detector", d.name),
			zap.String("type", string(typ)),
			zap.Strings("workspaces", patterns))
		if patterns == nil {
			patterns = []string{}
		}
		return &MonorepoInfo{Type: typ, RootPath: c.Root(), Workspaces: patterns}
	}
	return nil
}

func detectPnpm(c *probe.Context) (MonorepoType, []string, bool) {
	patterns, ok := ParsePnpmWorkspace(c)
	if !ok {
		return "", nil, false
	}
	return MonorepoPnpm, patterns, true
}

// packageWorkspaces reads the "workspaces" field of package.json, which is
// either an array or an object with a "packages" array.
func packageWorkspaces(c *probe.Context) ([]string, bool) {
	var pkg struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if !c.ReadJSON("package.json", &pkg) || len(pkg.Workspaces) == 0 {
		return nil, false
	}

	// null, [] and {"packages": []} declare no workspaces.
	var list []string
	if err := json.Unmarshal(pkg.Workspaces, &list); err == nil {
		return cleanPatterns(list), len(list) > 0
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(pkg.Workspaces, &obj); err == nil && len(obj.Packages) > 0 {
		return cleanPatterns(obj.Packages), true
	}
	return nil, false
}

func detectPackageWorkspaces(c *probe.Context) (MonorepoType, []string, bool) {
	patterns, ok := packageWorkspaces(c)
	if !ok {
		return "", nil, false
	}
	switch {
	case c.IsFile("yarn.lock"):
		return MonorepoYarn, patterns, true
	case c.HasAny("bun.lockb", "bun.lock"):
		return MonorepoBun, patterns, true
	default:
		return MonorepoNPM, patterns, true
	}
}

func detectLerna(c *probe.Context) (MonorepoType, []string, bool) {
	if !c.IsFile("lerna.json") {
		return "", nil, false
	}
	var cfg struct {
		Packages []string `json:"packages"`
	}
	if c.ReadJSON("lerna.json", &cfg) && len(cfg.Packages) > 0 {
		return MonorepoLerna, cleanPatterns(cfg.Packages), true
	}
	return MonorepoLerna, []string{"packages/*"}, true
}

func detectNx(c *probe.Context) (MonorepoType, []string, bool) {
	if !c.IsFile("nx.json") {
		return "", nil, false
	}
	var cfg struct {
		WorkspaceLayout struct {
			AppsDir string `json:"appsDir"`
			LibsDir string `json:"libsDir"`
		} `json:"workspaceLayout"`
	}
	apps, libs := "apps", "libs"
	if c.ReadJSON("nx.json", &cfg) {
		if cfg.WorkspaceLayout.AppsDir != "" {
			apps = NormalizePackagePath(cfg.WorkspaceLayout.AppsDir)
		}
		if cfg.WorkspaceLayout.LibsDir != "" {
			libs = NormalizePackagePath(cfg.WorkspaceLayout.LibsDir)
		}
	}
	return MonorepoNx, []string{apps + "/*", libs + "/*"}, true
}

func detectTurbo(c *probe.Context) (MonorepoType, []string, bool) {
	if !c.IsFile("turbo.json") {
		return "", nil, false
	}
	return MonorepoTurborepo, []string{"apps/*", "packages/*"}, true
}

func detectGoWork(c *probe.Context) (MonorepoType, []string, bool) {
	content, ok := c.ReadText("go.work")
	if !ok {
		return "", nil, false
	}
	return MonorepoGoWork, parseGoWorkUses(content), true
}

// parseGoWorkUses collects the directories named by use directives in
// declared order. Block and single-line forms may be mixed.
func parseGoWorkUses(content string) []string {
	var uses []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if !inBlock {
			fields := strings.Fields(line)
			if len(fields) == 0 || !strings.HasPrefix(fields[0], "use") {
				continue
			}
			rest := strings.TrimSpace(strings.TrimPrefix(line, "use"))
			if !strings.HasPrefix(rest, "(") {
				if fields[0] == "use" && len(fields) > 1 {
					uses = append(uses, unquote(fields[1]))
				}
				continue
			}
			line = rest[1:]
			inBlock = true
		}
		if before, _, closed := strings.Cut(line, ")"); closed {
			line = before
			inBlock = false
		}
		for _, f := range strings.Fields(line) {
			uses = append(uses, unquote(f))
		}
	}

	var out []string
	for _, u := range cleanPatterns(uses) {
		// "use ." refers to the root itself, which is scanned separately.
		if u != "." {
			out = append(out, u)
		}
	}
	return out
}

func detectCargo(c *probe.Context) (MonorepoType, []string, bool) {
	content, ok := c.ReadText("Cargo.toml")
	if !ok {
		return "", nil, false
	}
	var manifest struct {
		Workspace *struct {
			Members []string `toml:"members"`
			Exclude []string `toml:"exclude"`
		} `toml:"workspace"`
	}
	if _, err := toml.Decode(content, &manifest); err != nil {
		c.Logger().Debug("malformed Cargo.toml", zap.Error(err))
		return "", nil, false
	}
	if manifest.Workspace == nil {
		return "", nil, false
	}
	patterns := cleanPatterns(manifest.Workspace.Members)
	for _, ex := range cleanPatterns(manifest.Workspace.Exclude) {
		patterns = append(patterns, "!"+ex)
	}
	return MonorepoCargo, patterns, true
}
