package scanner

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/stackprobe/internal/probe"
)

// packageJSON holds the package.json fields the detectors read.
type packageJSON struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	PackageManager  string            `json:"packageManager"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
	Engines         map[string]string `json:"engines"`
}

func readPackageJSON(c *probe.Context) (*packageJSON, bool) {
	var pkg packageJSON
	if !c.ReadJSON("package.json", &pkg) {
		return nil, false
	}
	return &pkg, true
}

// dependencies returns the declared and dev dependencies for a language's
// manifests as name -> version constraint. Unreadable manifests contribute
// nothing.
func dependencies(c *probe.Context, lang Language) map[string]string {
	deps := make(map[string]string)
	switch lang {
	case LanguageTypeScript, LanguageJavaScript:
		if pkg, ok := readPackageJSON(c); ok {
			merge(deps, pkg.Dependencies)
			merge(deps, pkg.DevDependencies)
		}
	case LanguagePython:
		pythonDependencies(c, deps)
	case LanguageGo:
		if content, ok := c.ReadText("go.mod"); ok {
			merge(deps, parseGoModRequires(content))
		}
	case LanguageRust:
		cargoDependencies(c, deps)
	case LanguageJava, LanguageKotlin:
		jvmDependencies(c, deps)
	case LanguageRuby:
		if content, ok := c.ReadText("Gemfile"); ok {
			for _, m := range gemRe.FindAllStringSubmatch(content, -1) {
				deps[m[1]] = m[2]
			}
		}
	case LanguagePHP:
		var composer struct {
			Require    map[string]string `json:"require"`
			RequireDev map[string]string `json:"require-dev"`
		}
		if c.ReadJSON("composer.json", &composer) {
			merge(deps, composer.Require)
			merge(deps, composer.RequireDev)
		}
	case LanguageCSharp:
		for _, proj := range c.Glob("*.csproj") {
			if content, ok := c.ReadText(proj); ok {
				if webSdkRe.MatchString(content) {
					deps["Microsoft.NET.Sdk.Web"] = ""
				}
				for _, m := range packageRefRe.FindAllStringSubmatch(content, -1) {
					deps[m[1]] = m[2]
				}
			}
		}
	case LanguageSwift:
		if content, ok := c.ReadText("Package.swift"); ok {
			for _, m := range swiftPackageRe.FindAllStringSubmatch(content, -1) {
				deps[m[1]] = m[2]
			}
		}
	case LanguageDart:
		pubspecDependencies(c, deps)
	case LanguageElixir:
		if content, ok := c.ReadText("mix.exs"); ok {
			for _, m := range mixDepRe.FindAllStringSubmatch(content, -1) {
				deps[m[1]] = m[2]
			}
		}
	}
	return deps
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		if _, exists := dst[k]; !exists {
			dst[k] = v
		}
	}
}

var (
	goRequireLineRe = regexp.MustCompile(`^\s*(?:require\s+)?([^\s()]+)\s+(v[^\s]+)`)
	gemRe           = regexp.MustCompile(`(?m)^\s*gem\s+["']([^"']+)["'](?:\s*,\s*["']([^"']+)["'])?`)
	packageRefRe    = regexp.MustCompile(`<PackageReference\s+Include="([^"]+)"(?:\s+Version="([^"]*)")?`)
	webSdkRe        = regexp.MustCompile(`Sdk="Microsoft\.NET\.Sdk\.Web"`)
	swiftPackageRe  = regexp.MustCompile(`\.package\(\s*url:\s*"[^"]*/([^/"]+?)(?:\.git)?"\s*,\s*(?:from:\s*)?"?([^")]*)"?`)
	mixDepRe        = regexp.MustCompile(`\{:(\w+),\s*"([^"]*)"`)
	pomDepRe        = regexp.MustCompile(`(?s)<(?:dependency|parent|plugin)>\s*<groupId>([^<]+)</groupId>\s*<artifactId>([^<]+)</artifactId>(?:\s*<version>([^<]+)</version>)?`)
	gradleDepRe     = regexp.MustCompile(`["']([\w.\-]+):([\w.\-]+)(?::([\w.\-]+))?["']`)
	gradlePluginRe  = regexp.MustCompile(`id\s*\(?\s*["']([\w.\-]+)["']\s*\)?(?:\s+version\s+["']([^"']+)["'])?`)
	pythonReqRe     = regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._\-]*)(?:\[[^\]]*\])?\s*(.*)$`)
)

// parseGoModRequires reads module requirements from go.mod, in both the
// single-line and block forms.
func parseGoModRequires(content string) map[string]string {
	deps := make(map[string]string)
	inBlock := false
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "require ("), trimmed == "require(":
			inBlock = true
			continue
		case inBlock && trimmed == ")":
			inBlock = false
			continue
		case !inBlock && !strings.HasPrefix(trimmed, "require "):
			continue
		}
		if m := goRequireLineRe.FindStringSubmatch(trimmed); m != nil {
			deps[m[1]] = m[2]
		}
	}
	return deps
}

// pythonDependencies merges requirements.txt, pyproject.toml (PEP 621 and
// poetry) and Pipfile dependency declarations.
func pythonDependencies(c *probe.Context, deps map[string]string) {
	for _, file := range []string{"requirements.txt", "requirements-dev.txt", "requirements/base.txt"} {
		if content, ok := c.ReadText(file); ok {
			for _, line := range strings.Split(content, "\n") {
				addPythonRequirement(deps, line)
			}
		}
	}

	if content, ok := c.ReadText("pyproject.toml"); ok {
		var pyproject struct {
			Project struct {
				Dependencies         []string            `toml:"dependencies"`
				OptionalDependencies map[string][]string `toml:"optional-dependencies"`
			} `toml:"project"`
			DependencyGroups map[string][]any `toml:"dependency-groups"`
			Tool             struct {
				Poetry struct {
					Dependencies    map[string]any `toml:"dependencies"`
					DevDependencies map[string]any `toml:"dev-dependencies"`
					Group           map[string]struct {
						Dependencies map[string]any `toml:"dependencies"`
					} `toml:"group"`
				} `toml:"poetry"`
			} `toml:"tool"`
		}
		if _, err := toml.Decode(content, &pyproject); err != nil {
			c.Logger().Debug("malformed pyproject.toml", zap.Error(err))
		} else {
			for _, req := range pyproject.Project.Dependencies {
				addPythonRequirement(deps, req)
			}
			for _, group := range pyproject.Project.OptionalDependencies {
				for _, req := range group {
					addPythonRequirement(deps, req)
				}
			}
			for _, group := range pyproject.DependencyGroups {
				for _, req := range group {
					if s, ok := req.(string); ok {
						addPythonRequirement(deps, s)
					}
				}
			}
			addTOMLTable(deps, pyproject.Tool.Poetry.Dependencies, true)
			addTOMLTable(deps, pyproject.Tool.Poetry.DevDependencies, true)
			for _, group := range pyproject.Tool.Poetry.Group {
				addTOMLTable(deps, group.Dependencies, true)
			}
		}
	}

	if content, ok := c.ReadText("Pipfile"); ok {
		var pipfile struct {
			Packages    map[string]any `toml:"packages"`
			DevPackages map[string]any `toml:"dev-packages"`
		}
		if _, err := toml.Decode(content, &pipfile); err != nil {
			c.Logger().Debug("malformed Pipfile", zap.Error(err))
		} else {
			addTOMLTable(deps, pipfile.Packages, true)
			addTOMLTable(deps, pipfile.DevPackages, true)
		}
	}

	if content, ok := c.ReadText("setup.py"); ok {
		for _, block := range setupPyRequiresRe.FindAllStringSubmatch(content, -1) {
			for _, m := range quotedRe.FindAllStringSubmatch(block[1], -1) {
				addPythonRequirement(deps, m[1])
			}
		}
	}
}

var (
	setupPyRequiresRe = regexp.MustCompile(`(?s)(?:install_requires|tests_require)\s*=\s*\[(.*?)\]`)
	quotedRe          = regexp.MustCompile(`["']([^"']+)["']`)
)

func addPythonRequirement(deps map[string]string, line string) {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "-") {
		return
	}
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	m := pythonReqRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	name := normalizePythonName(m[1])
	if _, exists := deps[name]; !exists {
		deps[name] = strings.TrimSpace(m[2])
	}
}

// normalizePythonName applies PEP 503 style normalization.
func normalizePythonName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	return strings.ReplaceAll(name, ".", "-")
}

// addTOMLTable adds a TOML dependency table whose values are either version
// strings or inline tables with a "version" key.
func addTOMLTable(deps map[string]string, table map[string]any, python bool) {
	for name, v := range table {
		if python {
			name = normalizePythonName(name)
			if name == "python" {
				continue
			}
		}
		version := ""
		switch val := v.(type) {
		case string:
			version = val
		case map[string]any:
			if s, ok := val["version"].(string); ok {
				version = s
			}
		}
		if _, exists := deps[name]; !exists {
			deps[name] = version
		}
	}
}

func cargoDependencies(c *probe.Context, deps map[string]string) {
	content, ok := c.ReadText("Cargo.toml")
	if !ok {
		return
	}
	var cargo struct {
		Dependencies    map[string]any `toml:"dependencies"`
		DevDependencies map[string]any `toml:"dev-dependencies"`
		Workspace       struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"workspace"`
	}
	if _, err := toml.Decode(content, &cargo); err != nil {
		c.Logger().Debug("malformed Cargo.toml", zap.Error(err))
		return
	}
	addTOMLTable(deps, cargo.Dependencies, false)
	addTOMLTable(deps, cargo.DevDependencies, false)
	addTOMLTable(deps, cargo.Workspace.Dependencies, false)
}

// jvmDependencies keys Maven and Gradle coordinates as "group:artifact".
// Gradle plugin ids are keyed as "plugin:<id>".
func jvmDependencies(c *probe.Context, deps map[string]string) {
	if content, ok := c.ReadText("pom.xml"); ok {
		for _, m := range pomDepRe.FindAllStringSubmatch(content, -1) {
			key := strings.TrimSpace(m[1]) + ":" + strings.TrimSpace(m[2])
			if _, exists := deps[key]; !exists {
				deps[key] = strings.TrimSpace(m[3])
			}
		}
	}
	for _, file := range []string{"build.gradle", "build.gradle.kts"} {
		content, ok := c.ReadText(file)
		if !ok {
			continue
		}
		for _, m := range gradleDepRe.FindAllStringSubmatch(content, -1) {
			key := m[1] + ":" + m[2]
			if _, exists := deps[key]; !exists {
				deps[key] = m[3]
			}
		}
		for _, m := range gradlePluginRe.FindAllStringSubmatch(content, -1) {
			key := "plugin:" + m[1]
			if _, exists := deps[key]; !exists {
				deps[key] = m[2]
			}
		}
	}
}

func pubspecDependencies(c *probe.Context, deps map[string]string) {
	content, ok := c.ReadText("pubspec.yaml")
	if !ok {
		return
	}
	var pubspec struct {
		Dependencies    map[string]any `yaml:"dependencies"`
		DevDependencies map[string]any `yaml:"dev_dependencies"`
	}
	if err := yaml.Unmarshal([]byte(content), &pubspec); err != nil {
		c.Logger().Debug("malformed pubspec.yaml", zap.Error(err))
		return
	}
	for _, table := range []map[string]any{pubspec.Dependencies, pubspec.DevDependencies} {
		for name, v := range table {
			version, _ := v.(string)
			if _, exists := deps[name]; !exists {
				deps[name] = version
			}
		}
	}
}

// matchDependency finds the first dependency matching one of keys. A key
// ending in "/", ":" or "." matches by prefix; other keys match exactly or as a
// path prefix ("github.com/labstack/echo" matches ".../echo/v4").
func matchDependency(deps map[string]string, keys []string) (string, string, bool) {
	for _, key := range keys {
		if v, ok := deps[key]; ok {
			return key, v, true
		}
	}
	for _, key := range keys {
		prefix := key
		if !strings.HasSuffix(key, "/") && !strings.HasSuffix(key, ":") && !strings.HasSuffix(key, ".") {
			prefix = key + "/"
		}
		if name, v, ok := firstWithPrefix(deps, prefix); ok {
			return name, v, true
		}
	}
	return "", "", false
}

// firstWithPrefix picks the lexically smallest matching name so the result
// does not depend on map iteration order.
func firstWithPrefix(deps map[string]string, prefix string) (string, string, bool) {
	best := ""
	found := false
	for name := range deps {
		if strings.HasPrefix(name, prefix) && (!found || name < best) {
			best = name
			found = true
		}
	}
	if !found {
		return "", "", false
	}
	return best, deps[best], true
}

var versionNumberRe = regexp.MustCompile(`\d+(?:\.\d+)*(?:[-+][\w.]+)?`)

// cleanVersion reduces a constraint like "^18.2.0" or ">=3.9,<4" to the
// first version number it mentions. Constraints without digits
// ("latest", "*") yield "".
func cleanVersion(constraint string) string {
	return versionNumberRe.FindString(constraint)
}
