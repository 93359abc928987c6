// Package scanner turns a project directory into a typed AnalysisResult:
// languages, frameworks, tooling, monorepo workspaces, naming and layout
// conventions, runnable commands, and a confidence score.
package scanner

import "github.com/andywolf/stackprobe/internal/workspace"

// Language is a detected programming language.
type Language string

const (
	LanguageTypeScript Language = "typescript"
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageGo         Language = "go"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageKotlin     Language = "kotlin"
	LanguageRuby       Language = "ruby"
	LanguagePHP        Language = "php"
	LanguageCSharp     Language = "csharp"
	LanguageSwift      Language = "swift"
	LanguageDart       Language = "dart"
	LanguageElixir     Language = "elixir"
	LanguageUnknown    Language = "unknown"
)

// Framework is a detected application or UI framework.
type Framework string

const (
	FrameworkNextJS      Framework = "nextjs"
	FrameworkNuxt        Framework = "nuxt"
	FrameworkRemix       Framework = "remix"
	FrameworkSvelteKit   Framework = "sveltekit"
	FrameworkAstro       Framework = "astro"
	FrameworkNestJS      Framework = "nestjs"
	FrameworkExpress     Framework = "express"
	FrameworkFastify     Framework = "fastify"
	FrameworkKoa         Framework = "koa"
	FrameworkHono        Framework = "hono"
	FrameworkAngular     Framework = "angular"
	FrameworkReact       Framework = "react"
	FrameworkVue         Framework = "vue"
	FrameworkSvelte      Framework = "svelte"
	FrameworkSolid       Framework = "solid"
	FrameworkReactNative Framework = "react-native"
	FrameworkElectron    Framework = "electron"
	FrameworkDjango      Framework = "django"
	FrameworkFastAPI     Framework = "fastapi"
	FrameworkFlask       Framework = "flask"
	FrameworkGin         Framework = "gin"
	FrameworkEcho        Framework = "echo"
	FrameworkFiber       Framework = "fiber"
	FrameworkChi         Framework = "chi"
	FrameworkGorilla     Framework = "gorilla"
	FrameworkCobra       Framework = "cobra"
	FrameworkActixWeb    Framework = "actix-web"
	FrameworkAxum        Framework = "axum"
	FrameworkRocket      Framework = "rocket"
	FrameworkWarp        Framework = "warp"
	FrameworkSpringBoot  Framework = "spring-boot"
	FrameworkQuarkus     Framework = "quarkus"
	FrameworkMicronaut   Framework = "micronaut"
	FrameworkKtor        Framework = "ktor"
	FrameworkRails       Framework = "rails"
	FrameworkSinatra     Framework = "sinatra"
	FrameworkLaravel     Framework = "laravel"
	FrameworkSymfony     Framework = "symfony"
	FrameworkASPNetCore  Framework = "aspnet-core"
	FrameworkVapor       Framework = "vapor"
	FrameworkFlutter     Framework = "flutter"
	FrameworkPhoenix     Framework = "phoenix"
	FrameworkUnknown     Framework = "unknown"
)

// TestFramework is a detected test runner or library.
type TestFramework string

const (
	TestFrameworkVitest     TestFramework = "vitest"
	TestFrameworkJest       TestFramework = "jest"
	TestFrameworkMocha      TestFramework = "mocha"
	TestFrameworkPlaywright TestFramework = "playwright"
	TestFrameworkCypress    TestFramework = "cypress"
	TestFrameworkPytest     TestFramework = "pytest"
	TestFrameworkUnittest   TestFramework = "unittest"
	TestFrameworkGoTest     TestFramework = "go-test"
	TestFrameworkTestify    TestFramework = "testify"
	TestFrameworkGinkgo     TestFramework = "ginkgo"
	TestFrameworkCargoTest  TestFramework = "cargo-test"
	TestFrameworkJUnit      TestFramework = "junit"
	TestFrameworkTestNG     TestFramework = "testng"
	TestFrameworkKotest     TestFramework = "kotest"
	TestFrameworkRSpec      TestFramework = "rspec"
	TestFrameworkMinitest   TestFramework = "minitest"
	TestFrameworkPHPUnit    TestFramework = "phpunit"
	TestFrameworkPest       TestFramework = "pest"
	TestFrameworkXUnit      TestFramework = "xunit"
	TestFrameworkNUnit      TestFramework = "nunit"
	TestFrameworkMSTest     TestFramework = "mstest"
	TestFrameworkXCTest     TestFramework = "xctest"
	TestFrameworkFlutter    TestFramework = "flutter-test"
	TestFrameworkDartTest   TestFramework = "dart-test"
	TestFrameworkExUnit     TestFramework = "exunit"
	TestFrameworkUnknown    TestFramework = "unknown"
)

// PackageManager is a detected dependency manager.
type PackageManager string

const (
	PackageManagerNPM      PackageManager = "npm"
	PackageManagerYarn     PackageManager = "yarn"
	PackageManagerPNPM     PackageManager = "pnpm"
	PackageManagerBun      PackageManager = "bun"
	PackageManagerPip      PackageManager = "pip"
	PackageManagerPoetry   PackageManager = "poetry"
	PackageManagerUV       PackageManager = "uv"
	PackageManagerPipenv   PackageManager = "pipenv"
	PackageManagerPDM      PackageManager = "pdm"
	PackageManagerGoMod    PackageManager = "go-modules"
	PackageManagerCargo    PackageManager = "cargo"
	PackageManagerMaven    PackageManager = "maven"
	PackageManagerGradle   PackageManager = "gradle"
	PackageManagerBundler  PackageManager = "bundler"
	PackageManagerComposer PackageManager = "composer"
	PackageManagerNuGet    PackageManager = "nuget"
	PackageManagerSwiftPM  PackageManager = "swiftpm"
	PackageManagerPub      PackageManager = "pub"
	PackageManagerMix      PackageManager = "mix"
	PackageManagerUnknown  PackageManager = "unknown"
)

// NamingConvention is a dominant identifier casing style.
type NamingConvention string

const (
	NamingCamelCase  NamingConvention = "camelCase"
	NamingPascalCase NamingConvention = "PascalCase"
	NamingSnakeCase  NamingConvention = "snake_case"
	NamingKebabCase  NamingConvention = "kebab-case"
	NamingMixed      NamingConvention = "mixed"
)

// StructureType is a classified architecture style.
type StructureType string

const (
	StructureFeatureBased StructureType = "feature-based"
	StructureLayerBased   StructureType = "layer-based"
	StructureFlat         StructureType = "flat"
	StructureHybrid       StructureType = "hybrid"
	StructureUnknown      StructureType = "unknown"
)

// LanguageInfo is one detected language with an optional version.
type LanguageInfo struct {
	Language Language `json:"language" yaml:"language"`
	Version  string   `json:"version,omitempty" yaml:"version,omitempty"`
}

// FrameworkInfo is one detected framework and the language it belongs to.
type FrameworkInfo struct {
	Framework Framework `json:"framework" yaml:"framework"`
	Version   string    `json:"version,omitempty" yaml:"version,omitempty"`
	Language  Language  `json:"language" yaml:"language"`
}

// StackItem describes one ecosystem instance (the root or one workspace).
type StackItem struct {
	Language         Language       `json:"language" yaml:"language"`
	LanguageVersion  string         `json:"language_version,omitempty" yaml:"language_version,omitempty"`
	Framework        Framework      `json:"framework" yaml:"framework"`
	FrameworkVersion string         `json:"framework_version,omitempty" yaml:"framework_version,omitempty"`
	TestFramework    TestFramework  `json:"test_framework" yaml:"test_framework"`
	PackageManager   PackageManager `json:"package_manager" yaml:"package_manager"`
	Path             string         `json:"path" yaml:"path"`
	Name             string         `json:"name,omitempty" yaml:"name,omitempty"`
}

// UnknownStack returns the fallback stack for a path with nothing recognized.
func UnknownStack(path string) StackItem {
	return StackItem{
		Language:       LanguageUnknown,
		Framework:      FrameworkUnknown,
		TestFramework:  TestFrameworkUnknown,
		PackageManager: PackageManagerUnknown,
		Path:           path,
	}
}

// TechStack aggregates every stack found in the project.
type TechStack struct {
	Primary         StackItem               `json:"primary" yaml:"primary"`
	Stacks          []StackItem             `json:"stacks" yaml:"stacks"`
	Monorepo        *workspace.MonorepoInfo `json:"monorepo,omitempty" yaml:"monorepo,omitempty"`
	AllLanguages    []Language              `json:"all_languages" yaml:"all_languages"`
	AllFrameworks   []Framework             `json:"all_frameworks" yaml:"all_frameworks"`
	Styling         string                  `json:"styling,omitempty" yaml:"styling,omitempty"`
	Database        string                  `json:"database,omitempty" yaml:"database,omitempty"`
	StateManagement string                  `json:"state_management,omitempty" yaml:"state_management,omitempty"`
	AdditionalTools []string                `json:"additional_tools" yaml:"additional_tools"`
}

// NamingConventions holds the classified casing for files and directories.
type NamingConventions struct {
	Files       NamingConvention `json:"files" yaml:"files"`
	Directories NamingConvention `json:"directories" yaml:"directories"`
}

// KeyDirectory is a directory tagged with an inferred purpose.
type KeyDirectory struct {
	Path    string `json:"path" yaml:"path"`
	Purpose string `json:"purpose" yaml:"purpose"`
}

// DirectoryStructure is the classified project layout.
type DirectoryStructure struct {
	Type           StructureType  `json:"type" yaml:"type"`
	SourceDir      string         `json:"source_dir" yaml:"source_dir"`
	TestDir        string         `json:"test_dir,omitempty" yaml:"test_dir,omitempty"`
	KeyDirectories []KeyDirectory `json:"key_directories" yaml:"key_directories"`
	EntryPoints    []string       `json:"entry_points,omitempty" yaml:"entry_points,omitempty"`
	HasDocker      bool           `json:"has_docker" yaml:"has_docker"`
	CISystem       string         `json:"ci_system,omitempty" yaml:"ci_system,omitempty"`
}

// CodePatterns groups naming and structural conventions.
type CodePatterns struct {
	Naming    NamingConventions  `json:"naming" yaml:"naming"`
	Structure DirectoryStructure `json:"structure" yaml:"structure"`
}

// Commands lists the project's runnable commands. Empty fields mean no
// command was found.
type Commands struct {
	Install string `json:"install,omitempty" yaml:"install,omitempty"`
	Build   string `json:"build,omitempty" yaml:"build,omitempty"`
	Test    string `json:"test,omitempty" yaml:"test,omitempty"`
	Lint    string `json:"lint,omitempty" yaml:"lint,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Dev     string `json:"dev,omitempty" yaml:"dev,omitempty"`
	Start   string `json:"start,omitempty" yaml:"start,omitempty"`
}

// Confidence scores how complete detection was, each in [0,1].
type Confidence struct {
	Stack    float64 `json:"stack" yaml:"stack"`
	Patterns float64 `json:"patterns" yaml:"patterns"`
	Overall  float64 `json:"overall" yaml:"overall"`
}

// AnalysisResult is everything the engine learned about a project.
type AnalysisResult struct {
	ProjectName string       `json:"project_name" yaml:"project_name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	RootPath    string       `json:"root_path" yaml:"root_path"`
	TechStack   TechStack    `json:"tech_stack" yaml:"tech_stack"`
	Patterns    CodePatterns `json:"patterns" yaml:"patterns"`
	Commands    Commands     `json:"commands" yaml:"commands"`
	Confidence  Confidence   `json:"confidence" yaml:"confidence"`
}
