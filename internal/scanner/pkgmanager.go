package scanner

import (
	"strings"

	"github.com/andywolf/stackprobe/internal/probe"
)

// lockfileRule maps lock or marker files to a package manager.
type lockfileRule struct {
	manager PackageManager
	files   []string
}

var jsLockfiles = []lockfileRule{
	{PackageManagerPNPM, []string{"pnpm-lock.yaml"}},
	{PackageManagerYarn, []string{"yarn.lock"}},
	{PackageManagerBun, []string{"bun.lockb", "bun.lock"}},
	{PackageManagerNPM, []string{"package-lock.json", "npm-shrinkwrap.json"}},
}

var lockfileRules = map[Language][]lockfileRule{
	LanguageTypeScript: jsLockfiles,
	LanguageJavaScript: jsLockfiles,
	LanguagePython: {
		{PackageManagerPoetry, []string{"poetry.lock"}},
		{PackageManagerUV, []string{"uv.lock"}},
		{PackageManagerPipenv, []string{"Pipfile.lock", "Pipfile"}},
		{PackageManagerPDM, []string{"pdm.lock"}},
	},
	LanguageJava: {
		{PackageManagerMaven, []string{"pom.xml"}},
		{PackageManagerGradle, []string{"build.gradle", "build.gradle.kts", "gradlew"}},
	},
	LanguageKotlin: {
		{PackageManagerMaven, []string{"pom.xml"}},
	},
}

// defaultManagers is the ecosystem's tool when no lock file decides.
var defaultManagers = map[Language]PackageManager{
	LanguageTypeScript: PackageManagerNPM,
	LanguageJavaScript: PackageManagerNPM,
	LanguagePython:     PackageManagerPip,
	LanguageGo:         PackageManagerGoMod,
	LanguageRust:       PackageManagerCargo,
	LanguageJava:       PackageManagerMaven,
	LanguageKotlin:     PackageManagerGradle,
	LanguageRuby:       PackageManagerBundler,
	LanguagePHP:        PackageManagerComposer,
	LanguageCSharp:     PackageManagerNuGet,
	LanguageSwift:      PackageManagerSwiftPM,
	LanguageDart:       PackageManagerPub,
	LanguageElixir:     PackageManagerMix,
}

// packageManagerField maps the package.json packageManager field
// ("pnpm@9.1.0") to a manager.
var packageManagerField = map[string]PackageManager{
	"pnpm": PackageManagerPNPM,
	"yarn": PackageManagerYarn,
	"bun":  PackageManagerBun,
	"npm":  PackageManagerNPM,
}

// DetectPackageManager checks lock files in priority order, then manifest
// hints, then falls back to the language's default tool.
func DetectPackageManager(c *probe.Context, lang Language) PackageManager {
	for _, rule := range lockfileRules[lang] {
		if c.HasAny(rule.files...) {
			return rule.manager
		}
	}

	switch lang {
	case LanguageTypeScript, LanguageJavaScript:
		if pkg, ok := readPackageJSON(c); ok && pkg.PackageManager != "" {
			name, _, _ := strings.Cut(pkg.PackageManager, "@")
			if pm, ok := packageManagerField[name]; ok {
				return pm
			}
		}
	case LanguagePython:
		if content, ok := c.ReadText("pyproject.toml"); ok {
			switch {
			case strings.Contains(content, "[tool.poetry"):
				return PackageManagerPoetry
			case strings.Contains(content, "[tool.pdm"):
				return PackageManagerPDM
			case strings.Contains(content, "[tool.uv"):
				return PackageManagerUV
			}
		}
	}

	if pm, ok := defaultManagers[lang]; ok {
		return pm
	}
	return PackageManagerUnknown
}
