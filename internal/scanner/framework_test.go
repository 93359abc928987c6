package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFrameworks(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []FrameworkInfo
	}{
		{
			name:  "next with react keeps both in table order",
			files: map[string]string{"package.json": `{"dependencies": {"react": "^18.2.0", "next": "14.1.0"}, "devDependencies": {"typescript": "^5"}}`},
			want: []FrameworkInfo{
				{Framework: FrameworkNextJS, Version: "14.1.0", Language: LanguageTypeScript},
				{Framework: FrameworkReact, Version: "18.2.0", Language: LanguageTypeScript},
			},
		},
		{
			name:  "scoped remix package",
			files: map[string]string{"package.json": `{"dependencies": {"@remix-run/react": "^2.5.0", "@remix-run/node": "^2.5.0"}}`},
			want:  []FrameworkInfo{{Framework: FrameworkRemix, Version: "2.5.0", Language: LanguageJavaScript}},
		},
		{
			name:  "go module with major version suffix",
			files: map[string]string{"go.mod": "module x\n\ngo 1.22\n\nrequire (\n\tgithub.com/labstack/echo/v4 v4.11.4\n\tgithub.com/spf13/cobra v1.8.0 // indirect\n)\n"},
			want: []FrameworkInfo{
				{Framework: FrameworkEcho, Version: "4.11.4", Language: LanguageGo},
				{Framework: FrameworkCobra, Version: "1.8.0", Language: LanguageGo},
			},
		},
		{
			name:  "python requirements normalized",
			files: map[string]string{"requirements.txt": "Django>=4.2,<5\n# comment\nfastapi[all]==0.110.0\n"},
			want: []FrameworkInfo{
				{Framework: FrameworkDjango, Version: "4.2", Language: LanguagePython},
				{Framework: FrameworkFastAPI, Version: "0.110.0", Language: LanguagePython},
			},
		},
		{
			name:  "poetry table",
			files: map[string]string{"pyproject.toml": "[tool.poetry]\nname = \"api\"\n\n[tool.poetry.dependencies]\npython = \"^3.12\"\nFlask = {version = \"^3.0\", extras = [\"async\"]}\n"},
			want:  []FrameworkInfo{{Framework: FrameworkFlask, Version: "3.0", Language: LanguagePython}},
		},
		{
			name:  "cargo",
			files: map[string]string{"Cargo.toml": "[package]\nname = \"svc\"\n\n[dependencies]\naxum = \"0.7\"\ntokio = { version = \"1\", features = [\"full\"] }\n"},
			want:  []FrameworkInfo{{Framework: FrameworkAxum, Version: "0.7", Language: LanguageRust}},
		},
		{
			name:  "spring boot parent",
			files: map[string]string{"pom.xml": "<project><parent>\n<groupId>org.springframework.boot</groupId>\n<artifactId>spring-boot-starter-parent</artifactId>\n<version>3.2.1</version>\n</parent></project>"},
			want:  []FrameworkInfo{{Framework: FrameworkSpringBoot, Version: "3.2.1", Language: LanguageJava}},
		},
		{
			name:  "aspnet core web sdk",
			files: map[string]string{"Api.csproj": `<Project Sdk="Microsoft.NET.Sdk.Web"></Project>`},
			want:  []FrameworkInfo{{Framework: FrameworkASPNetCore, Language: LanguageCSharp}},
		},
		{
			name:  "rails",
			files: map[string]string{"Gemfile": "gem 'rails', '~> 7.1.2'\ngem 'rspec-rails'\n"},
			want:  []FrameworkInfo{{Framework: FrameworkRails, Version: "7.1.2", Language: LanguageRuby}},
		},
		{
			name:  "no frameworks",
			files: map[string]string{"go.mod": "module x\n\ngo 1.22\n"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := probeWith(t, tt.files)
			assert.Equal(t, tt.want, DetectFrameworks(c, DetectLanguages(c)))
		})
	}
}

func TestPrimaryFramework(t *testing.T) {
	tests := []struct {
		name       string
		frameworks []FrameworkInfo
		want       Framework
	}{
		{name: "empty", want: FrameworkUnknown},
		{
			name:       "application framework beats ui library",
			frameworks: []FrameworkInfo{{Framework: FrameworkReact}, {Framework: FrameworkExpress}},
			want:       FrameworkExpress,
		},
		{
			name:       "first application framework in detection order",
			frameworks: []FrameworkInfo{{Framework: FrameworkVue}, {Framework: FrameworkFastify}, {Framework: FrameworkExpress}},
			want:       FrameworkFastify,
		},
		{
			name:       "no application framework falls back to first",
			frameworks: []FrameworkInfo{{Framework: FrameworkCobra}, {Framework: FrameworkReact}},
			want:       FrameworkCobra,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrimaryFramework(tt.frameworks).Framework; got != tt.want {
				t.Errorf("PrimaryFramework() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectStack_TypedManifestWithFullStackFramework(t *testing.T) {
	c := probeWith(t, map[string]string{
		"package.json": `{"name": "storefront", "dependencies": {"next": "^14.0.0", "react": "^18.2.0"}, "devDependencies": {"typescript": "^5.0.0"}}`,
	})

	got := DetectStack(c, ".")

	assert.Equal(t, StackItem{
		Language:         LanguageTypeScript,
		LanguageVersion:  "5.0.0",
		Framework:        FrameworkNextJS,
		FrameworkVersion: "14.0.0",
		TestFramework:    TestFrameworkUnknown,
		PackageManager:   PackageManagerNPM,
		Path:             ".",
		Name:             "storefront",
	}, got)
}

func TestDetectStack_FrameworkLanguageWins(t *testing.T) {
	// go.mod ranks ahead of requirements.txt, but the application
	// framework lives in the Python manifest.
	c := probeWith(t, map[string]string{
		"go.mod":           "module example.com/tools\n\ngo 1.22\n",
		"requirements.txt": "fastapi==0.110.0\n",
	})

	got := DetectStack(c, ".")

	assert.Equal(t, LanguagePython, got.Language)
	assert.Equal(t, FrameworkFastAPI, got.Framework)
	assert.Equal(t, PackageManagerPip, got.PackageManager)
}

func TestDetectStack_Unknown(t *testing.T) {
	got := DetectStack(probeWith(t, map[string]string{"README.md": "# hi"}), "docs")
	assert.Equal(t, UnknownStack("docs"), got)
}
