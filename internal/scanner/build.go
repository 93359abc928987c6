package scanner

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/andywolf/stackprobe/internal/probe"
)

// scriptCandidates are package.json script names per command, first found
// wins.
var scriptCandidates = []struct {
	field   func(*Commands) *string
	scripts []string
}{
	{func(c *Commands) *string { return &c.Build }, []string{"build", "compile"}},
	{func(c *Commands) *string { return &c.Test }, []string{"test", "test:unit", "jest", "vitest"}},
	{func(c *Commands) *string { return &c.Lint }, []string{"lint", "eslint", "check"}},
	{func(c *Commands) *string { return &c.Format }, []string{"format", "fmt", "prettier"}},
	{func(c *Commands) *string { return &c.Dev }, []string{"dev", "develop", "serve"}},
	{func(c *Commands) *string { return &c.Start }, []string{"start"}},
}

// makeCandidates are Makefile targets per command, first found wins.
var makeCandidates = []struct {
	field   func(*Commands) *string
	targets []string
}{
	{func(c *Commands) *string { return &c.Install }, []string{"install", "deps", "setup"}},
	{func(c *Commands) *string { return &c.Build }, []string{"build", "all"}},
	{func(c *Commands) *string { return &c.Test }, []string{"test", "check"}},
	{func(c *Commands) *string { return &c.Lint }, []string{"lint", "vet"}},
	{func(c *Commands) *string { return &c.Format }, []string{"fmt", "format"}},
	{func(c *Commands) *string { return &c.Dev }, []string{"dev", "run"}},
	{func(c *Commands) *string { return &c.Start }, []string{"start", "serve"}},
}

// DetectCommands derives runnable commands for a stack. Ecosystem defaults
// come first, Makefile targets replace them, and package.json scripts win
// over both.
func DetectCommands(c *probe.Context, stack StackItem) Commands {
	cmds := defaultCommands(c, stack)

	if targets := parseMakefileTargets(c); len(targets) > 0 {
		for _, mc := range makeCandidates {
			for _, t := range mc.targets {
				if targets[t] {
					*mc.field(&cmds) = "make " + t
					break
				}
			}
		}
	}

	if pkg, ok := readPackageJSON(c); ok {
		runner := scriptRunner(stack.PackageManager)
		for _, sc := range scriptCandidates {
			for _, script := range sc.scripts {
				if _, ok := pkg.Scripts[script]; ok {
					*sc.field(&cmds) = runner + " " + script
					break
				}
			}
		}
	}
	return cmds
}

func scriptRunner(pm PackageManager) string {
	switch pm {
	case PackageManagerPNPM:
		return "pnpm"
	case PackageManagerYarn:
		return "yarn"
	case PackageManagerBun:
		return "bun run"
	default:
		return "npm run"
	}
}

func defaultCommands(c *probe.Context, stack StackItem) Commands {
	switch stack.Language {
	case LanguageGo:
		cmds := Commands{
			Install: "go mod download",
			Build:   "go build ./...",
			Test:    "go test ./...",
			Lint:    "go vet ./...",
			Format:  "gofmt -w .",
		}
		if c.HasAny(".golangci.yml", ".golangci.yaml", ".golangci.toml") {
			cmds.Lint = "golangci-lint run"
		}
		return cmds
	case LanguageTypeScript, LanguageJavaScript:
		install := map[PackageManager]string{
			PackageManagerPNPM: "pnpm install",
			PackageManagerYarn: "yarn install",
			PackageManagerBun:  "bun install",
		}[stack.PackageManager]
		if install == "" {
			install = "npm install"
		}
		return Commands{Install: install}
	case LanguagePython:
		return pythonCommands(stack)
	case LanguageRust:
		return Commands{Build: "cargo build", Test: "cargo test", Lint: "cargo clippy", Format: "cargo fmt", Start: "cargo run"}
	case LanguageJava, LanguageKotlin:
		if stack.PackageManager == PackageManagerMaven {
			return Commands{Install: "mvn install", Build: "mvn compile", Test: "mvn test", Lint: "mvn checkstyle:check"}
		}
		return Commands{Build: "./gradlew build", Test: "./gradlew test", Lint: "./gradlew check"}
	case LanguageRuby:
		cmds := Commands{Install: "bundle install", Test: "bundle exec rspec", Lint: "bundle exec rubocop"}
		if stack.TestFramework == TestFrameworkMinitest {
			cmds.Test = "bundle exec rake test"
		}
		if stack.Framework == FrameworkRails {
			cmds.Dev = "bin/rails server"
		}
		return cmds
	case LanguagePHP:
		cmds := Commands{Install: "composer install", Test: "vendor/bin/phpunit"}
		if stack.TestFramework == TestFrameworkPest {
			cmds.Test = "vendor/bin/pest"
		}
		return cmds
	case LanguageCSharp:
		return Commands{Install: "dotnet restore", Build: "dotnet build", Test: "dotnet test", Format: "dotnet format", Start: "dotnet run"}
	case LanguageSwift:
		return Commands{Build: "swift build", Test: "swift test", Start: "swift run"}
	case LanguageDart:
		if stack.Framework == FrameworkFlutter {
			return Commands{Install: "flutter pub get", Test: "flutter test", Lint: "flutter analyze", Start: "flutter run"}
		}
		return Commands{Install: "dart pub get", Test: "dart test", Lint: "dart analyze", Format: "dart format ."}
	case LanguageElixir:
		return Commands{Install: "mix deps.get", Build: "mix compile", Test: "mix test", Format: "mix format", Dev: "mix phx.server"}
	}
	return Commands{}
}

func pythonCommands(stack StackItem) Commands {
	test := "pytest"
	if stack.TestFramework == TestFrameworkUnittest {
		test = "python -m unittest"
	}
	cmds := Commands{Test: test, Lint: "ruff check .", Format: "ruff format ."}
	switch stack.PackageManager {
	case PackageManagerPoetry:
		cmds.Install = "poetry install"
		cmds.Test = "poetry run " + test
	case PackageManagerUV:
		cmds.Install = "uv sync"
		cmds.Test = "uv run " + test
	case PackageManagerPipenv:
		cmds.Install = "pipenv install --dev"
		cmds.Test = "pipenv run " + test
	case PackageManagerPDM:
		cmds.Install = "pdm install"
		cmds.Test = "pdm run " + test
	default:
		cmds.Install = "pip install -r requirements.txt"
	}
	return cmds
}

var makeTargetRe = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*):(?:[^=]|$)`)

func parseMakefileTargets(c *probe.Context) map[string]bool {
	content, ok := c.ReadText("Makefile")
	if !ok {
		return nil
	}

	targets := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		if m := makeTargetRe.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			targets[m[1]] = true
		}
	}
	return targets
}
