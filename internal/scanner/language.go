package scanner

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/andywolf/stackprobe/internal/probe"
)

// languageMarker recognizes one language from marker files. detect returns
// the version (possibly empty) and whether the language is present.
// suppresses lists languages this marker rules out once it matched.
type languageMarker struct {
	language   Language
	detect     func(c *probe.Context) (string, bool)
	suppresses []Language
}

// languageMarkers are evaluated in order: type-system manifest, module
// manifest, package manifest, then the remaining ecosystems.
var languageMarkers = []languageMarker{
	{language: LanguageTypeScript, detect: detectTypeScript, suppresses: []Language{LanguageJavaScript}},
	{language: LanguageGo, detect: versionFrom("go.mod", regexp.MustCompile(`(?m)^go\s+(\d+(?:\.\d+)*)`))},
	{language: LanguageJavaScript, detect: detectJavaScript},
	{language: LanguagePython, detect: detectPython},
	{language: LanguageRust, detect: versionFrom("Cargo.toml", regexp.MustCompile(`rust-version\s*=\s*"([^"]+)"`))},
	{language: LanguageKotlin, detect: detectKotlin, suppresses: []Language{LanguageJava}},
	{language: LanguageJava, detect: detectJava},
	{language: LanguageRuby, detect: versionFrom("Gemfile", regexp.MustCompile(`(?m)^\s*ruby\s+["']([^"']+)["']`))},
	{language: LanguagePHP, detect: detectPHP},
	{language: LanguageCSharp, detect: detectCSharp},
	{language: LanguageSwift, detect: versionFrom("Package.swift", regexp.MustCompile(`swift-tools-version:\s*([\d.]+)`))},
	{language: LanguageDart, detect: versionFrom("pubspec.yaml", regexp.MustCompile(`(?m)^\s+sdk:\s*["']?([^"'\n]+)`))},
	{language: LanguageElixir, detect: versionFrom("mix.exs", regexp.MustCompile(`elixir:\s*"([^"]+)"`))},
}

// DetectLanguages returns the languages found at the probe root in marker
// priority order. It always returns at least one entry; a directory with no
// recognized manifest yields a single LanguageUnknown entry.
func DetectLanguages(c *probe.Context) []LanguageInfo {
	var langs []LanguageInfo
	suppressed := make(map[Language]bool)

	for _, marker := range languageMarkers {
		if suppressed[marker.language] {
			continue
		}
		version, ok := marker.detect(c)
		if !ok {
			continue
		}
		langs = append(langs, LanguageInfo{Language: marker.language, Version: version})
		for _, s := range marker.suppresses {
			suppressed[s] = true
		}
	}

	if len(langs) == 0 {
		return []LanguageInfo{{Language: LanguageUnknown}}
	}

	c.Logger().Debug("languages detected", zap.String("dir", c.Root()), zap.Any("languages", langs))
	return langs
}

// versionFrom builds a detector that matches when file exists and extracts a
// version with re.
func versionFrom(file string, re *regexp.Regexp) func(c *probe.Context) (string, bool) {
	return func(c *probe.Context) (string, bool) {
		content, ok := c.ReadText(file)
		if !ok {
			return "", false
		}
		return cleanVersion(firstSubmatch(re, content)), true
	}
}

func firstSubmatch(re *regexp.Regexp, content string) string {
	if m := re.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func detectTypeScript(c *probe.Context) (string, bool) {
	pkg, hasPkg := readPackageJSON(c)
	version := ""
	if hasPkg {
		if v, ok := pkg.DevDependencies["typescript"]; ok {
			version = cleanVersion(v)
		} else if v, ok := pkg.Dependencies["typescript"]; ok {
			version = cleanVersion(v)
		}
	}
	if c.IsFile("tsconfig.json") {
		return version, true
	}
	if hasPkg {
		_, dep := pkg.Dependencies["typescript"]
		_, dev := pkg.DevDependencies["typescript"]
		return version, dep || dev
	}
	return "", false
}

// detectJavaScript requires a parseable package.json; a malformed manifest
// counts as absent.
func detectJavaScript(c *probe.Context) (string, bool) {
	pkg, ok := readPackageJSON(c)
	if !ok {
		return "", false
	}
	// The engines field names the runtime version, the closest thing a
	// JavaScript package has to a language version.
	return cleanVersion(pkg.Engines["node"]), true
}

var (
	requiresPythonRe = regexp.MustCompile(`requires-python\s*=\s*["']([^"']+)["']`)
	poetryPythonRe   = regexp.MustCompile(`(?m)^python\s*=\s*["']([^"']+)["']`)
	pipfilePythonRe  = regexp.MustCompile(`python_version\s*=\s*["']([^"']+)["']`)
)

func detectPython(c *probe.Context) (string, bool) {
	if content, ok := c.ReadText("pyproject.toml"); ok {
		v := firstSubmatch(requiresPythonRe, content)
		if v == "" {
			v = firstSubmatch(poetryPythonRe, content)
		}
		return cleanVersion(v), true
	}
	if content, ok := c.ReadText("Pipfile"); ok {
		return cleanVersion(firstSubmatch(pipfilePythonRe, content)), true
	}
	if content, ok := c.ReadText(".python-version"); ok && c.HasAny("requirements.txt", "setup.py", "setup.cfg") {
		return cleanVersion(strings.TrimSpace(content)), true
	}
	return "", c.HasAny("requirements.txt", "setup.py", "setup.cfg")
}

var kotlinVersionRe = regexp.MustCompile(`kotlin\(\s*["']jvm["']\s*\)\s*version\s*["']([^"']+)["']|org\.jetbrains\.kotlin[.\w]*["']?\s*\)?\s*version\s*["']([^"']+)["']|<kotlin\.version>([^<]+)</kotlin\.version>`)

func detectKotlin(c *probe.Context) (string, bool) {
	if content, ok := c.ReadText("build.gradle.kts"); ok {
		return kotlinVersion(content), true
	}
	for _, file := range []string{"build.gradle", "pom.xml"} {
		if content, ok := c.ReadText(file); ok && strings.Contains(content, "kotlin") {
			return kotlinVersion(content), true
		}
	}
	return "", false
}

func kotlinVersion(content string) string {
	m := kotlinVersionRe.FindStringSubmatch(content)
	for _, group := range m[min(1, len(m)):] {
		if group != "" {
			return group
		}
	}
	return ""
}

var (
	pomJavaVersionRe    = regexp.MustCompile(`<(?:java\.version|maven\.compiler\.(?:source|release))>\s*([^<\s]+)\s*<`)
	gradleJavaVersionRe = regexp.MustCompile(`(?:sourceCompatibility|languageVersion)\s*(?:=|\.set\()?\s*(?:JavaVersion\.VERSION_|JavaLanguageVersion\.of\()?['"]?([\d_.]+)`)
)

func detectJava(c *probe.Context) (string, bool) {
	if content, ok := c.ReadText("pom.xml"); ok {
		return firstSubmatch(pomJavaVersionRe, content), true
	}
	for _, file := range []string{"build.gradle", "build.gradle.kts"} {
		if content, ok := c.ReadText(file); ok {
			return strings.ReplaceAll(firstSubmatch(gradleJavaVersionRe, content), "_", "."), true
		}
	}
	return "", false
}

func detectPHP(c *probe.Context) (string, bool) {
	var composer struct {
		Require map[string]string `json:"require"`
	}
	if !c.ReadJSON("composer.json", &composer) {
		return "", false
	}
	return cleanVersion(composer.Require["php"]), true
}

var targetFrameworkRe = regexp.MustCompile(`<TargetFrameworks?>\s*net(?:coreapp)?(\d+\.\d+)`)

func detectCSharp(c *probe.Context) (string, bool) {
	projects := c.Glob("*.csproj")
	if len(projects) == 0 {
		return "", len(c.Glob("*.sln")) > 0
	}
	if content, ok := c.ReadText(projects[0]); ok {
		return firstSubmatch(targetFrameworkRe, content), true
	}
	return "", true
}

// PrimaryLanguage returns the first detected language, or LanguageUnknown.
func PrimaryLanguage(langs []LanguageInfo) LanguageInfo {
	if len(langs) == 0 {
		return LanguageInfo{Language: LanguageUnknown}
	}
	return langs[0]
}
