package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTestFramework(t *testing.T) {
	tests := []struct {
		name  string
		lang  Language
		files map[string]string
		want  TestFramework
	}{
		{
			name:  "vitest beats jest",
			lang:  LanguageTypeScript,
			files: map[string]string{"package.json": `{"devDependencies": {"jest": "^29", "vitest": "^1"}}`},
			want:  TestFrameworkVitest,
		},
		{
			name:  "jest config file",
			lang:  LanguageJavaScript,
			files: map[string]string{"package.json": `{}`, "jest.config.js": "module.exports = {}"},
			want:  TestFrameworkJest,
		},
		{
			name:  "playwright scoped package",
			lang:  LanguageTypeScript,
			files: map[string]string{"package.json": `{"devDependencies": {"@playwright/test": "^1.40"}}`},
			want:  TestFrameworkPlaywright,
		},
		{
			name:  "no js test runner",
			lang:  LanguageJavaScript,
			files: map[string]string{"package.json": `{"dependencies": {"express": "^4"}}`},
			want:  TestFrameworkUnknown,
		},
		{
			name:  "pytest from conftest",
			lang:  LanguagePython,
			files: map[string]string{"requirements.txt": "flask\n", "conftest.py": ""},
			want:  TestFrameworkPytest,
		},
		{
			name:  "pytest from pyproject section",
			lang:  LanguagePython,
			files: map[string]string{"pyproject.toml": "[tool.pytest.ini_options]\naddopts = \"-q\"\n"},
			want:  TestFrameworkPytest,
		},
		{
			name: "unittest modules",
			lang: LanguagePython,
			files: map[string]string{
				"requirements.txt":     "requests\n",
				"tests/test_client.py": "import unittest\n\nclass ClientTest(unittest.TestCase):\n    pass\n",
			},
			want: TestFrameworkUnittest,
		},
		{
			name: "pytest beats unittest",
			lang: LanguagePython,
			files: map[string]string{
				"requirements.txt":     "pytest\n",
				"tests/test_client.py": "from unittest import mock\n",
			},
			want: TestFrameworkPytest,
		},
		{
			name:  "python without test modules",
			lang:  LanguagePython,
			files: map[string]string{"requirements.txt": "requests\n", "app/main.py": "import unittest\n"},
			want:  TestFrameworkUnknown,
		},
		{
			name:  "testify",
			lang:  LanguageGo,
			files: map[string]string{"go.mod": "module x\n\nrequire github.com/stretchr/testify v1.9.0\n"},
			want:  TestFrameworkTestify,
		},
		{
			name:  "go test files",
			lang:  LanguageGo,
			files: map[string]string{"go.mod": "module x\n", "internal/app/app_test.go": "package app"},
			want:  TestFrameworkGoTest,
		},
		{
			name:  "go without tests",
			lang:  LanguageGo,
			files: map[string]string{"go.mod": "module x\n", "main.go": "package main"},
			want:  TestFrameworkUnknown,
		},
		{
			name:  "cargo unit tests",
			lang:  LanguageRust,
			files: map[string]string{"Cargo.toml": "[package]\nname = \"x\"\n", "src/lib.rs": "#[cfg(test)]\nmod tests {}\n"},
			want:  TestFrameworkCargoTest,
		},
		{
			name:  "kotest before junit",
			lang:  LanguageKotlin,
			files: map[string]string{"build.gradle.kts": "dependencies {\n testImplementation(\"io.kotest:kotest-runner-junit5:5.8.0\")\n testImplementation(\"org.junit.jupiter:junit-jupiter:5.10.0\")\n}\n"},
			want:  TestFrameworkKotest,
		},
		{
			name:  "rspec dotfile",
			lang:  LanguageRuby,
			files: map[string]string{"Gemfile": "gem 'sinatra'\n", ".rspec": "--require spec_helper"},
			want:  TestFrameworkRSpec,
		},
		{
			name:  "phpunit config",
			lang:  LanguagePHP,
			files: map[string]string{"composer.json": `{}`, "phpunit.xml.dist": "<phpunit/>"},
			want:  TestFrameworkPHPUnit,
		},
		{
			name:  "flutter test",
			lang:  LanguageDart,
			files: map[string]string{"pubspec.yaml": "name: app\ndev_dependencies:\n  flutter_test:\n    sdk: flutter\n"},
			want:  TestFrameworkFlutter,
		},
		{
			name:  "unknown language",
			lang:  LanguageUnknown,
			files: map[string]string{"jest.config.js": ""},
			want:  TestFrameworkUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTestFramework(probeWith(t, tt.files), tt.lang))
		})
	}
}

func TestDetectPackageManager(t *testing.T) {
	tests := []struct {
		name  string
		lang  Language
		files map[string]string
		want  PackageManager
	}{
		{"pnpm lockfile", LanguageTypeScript, map[string]string{"package.json": `{}`, "pnpm-lock.yaml": "", "package-lock.json": "{}"}, PackageManagerPNPM},
		{"yarn lockfile", LanguageJavaScript, map[string]string{"package.json": `{}`, "yarn.lock": ""}, PackageManagerYarn},
		{"bun text lockfile", LanguageJavaScript, map[string]string{"package.json": `{}`, "bun.lock": ""}, PackageManagerBun},
		{"packageManager field", LanguageTypeScript, map[string]string{"package.json": `{"packageManager": "pnpm@9.1.0"}`}, PackageManagerPNPM},
		{"npm default", LanguageJavaScript, map[string]string{"package.json": `{}`}, PackageManagerNPM},
		{"poetry lock", LanguagePython, map[string]string{"pyproject.toml": "", "poetry.lock": ""}, PackageManagerPoetry},
		{"uv lock", LanguagePython, map[string]string{"pyproject.toml": "", "uv.lock": ""}, PackageManagerUV},
		{"pipenv", LanguagePython, map[string]string{"Pipfile": ""}, PackageManagerPipenv},
		{"poetry section without lock", LanguagePython, map[string]string{"pyproject.toml": "[tool.poetry]\nname = \"x\"\n"}, PackageManagerPoetry},
		{"pip default", LanguagePython, map[string]string{"requirements.txt": ""}, PackageManagerPip},
		{"go modules", LanguageGo, map[string]string{"go.mod": "module x\n"}, PackageManagerGoMod},
		{"cargo", LanguageRust, map[string]string{"Cargo.toml": ""}, PackageManagerCargo},
		{"gradle java", LanguageJava, map[string]string{"build.gradle": ""}, PackageManagerGradle},
		{"maven kotlin", LanguageKotlin, map[string]string{"pom.xml": "<project/>"}, PackageManagerMaven},
		{"kotlin default gradle", LanguageKotlin, map[string]string{"build.gradle.kts": ""}, PackageManagerGradle},
		{"unknown", LanguageUnknown, map[string]string{"yarn.lock": ""}, PackageManagerUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPackageManager(probeWith(t, tt.files), tt.lang))
		})
	}
}
