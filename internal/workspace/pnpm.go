package workspace

import (
	"bufio"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/stackprobe/internal/probe"
)

// PnpmWorkspaceFile is the pnpm workspace manifest name.
const PnpmWorkspaceFile = "pnpm-workspace.yaml"

// PnpmWorkspace represents the structure of pnpm-workspace.yaml
type PnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// HasPnpmWorkspace checks if a pnpm-workspace.yaml file exists under the probe root.
func HasPnpmWorkspace(c *probe.Context) bool {
	return c.IsFile(PnpmWorkspaceFile)
}

// ParsePnpmWorkspace returns the package patterns declared in
// pnpm-workspace.yaml, in declaration order. Content that is not valid YAML
// falls back to line-based list extraction.
func ParsePnpmWorkspace(c *probe.Context) ([]string, bool) {
	content, ok := c.ReadText(PnpmWorkspaceFile)
	if !ok {
		return nil, false
	}

	var ws PnpmWorkspace
	if err := yaml.Unmarshal([]byte(content), &ws); err != nil {
		c.Logger().Debug("pnpm workspace is not valid yaml, using line parser", zap.Error(err))
		return parseYAMLList(content, "packages"), true
	}
	return cleanPatterns(ws.Packages), true
}

// parseYAMLList extracts the "- item" entries of a top-level key from
// YAML-like text without a full parser.
func parseYAMLList(content, key string) []string {
	var items []string
	inList := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") && !strings.HasPrefix(trimmed, "-") {
			inList = strings.TrimSuffix(trimmed, ":") == key
			continue
		}

		if inList && strings.HasPrefix(trimmed, "-") {
			item := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			if idx := strings.Index(item, " #"); idx >= 0 {
				item = strings.TrimSpace(item[:idx])
			}
			items = append(items, unquote(item))
		}
	}

	return cleanPatterns(items)
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// cleanPatterns normalizes patterns and drops empty entries.
func cleanPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		neg := strings.HasPrefix(p, "!")
		p = NormalizePackagePath(strings.TrimPrefix(p, "!"))
		if p == "" {
			continue
		}
		if neg {
			p = "!" + p
		}
		out = append(out, p)
	}
	return out
}

// NormalizePackagePath cleans up a package path by removing leading "./" and trailing "/".
func NormalizePackagePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "./")
	path = strings.TrimSuffix(path, "/")
	return path
}
