package scanner

import (
	"io/fs"
	"strings"

	"github.com/andywolf/stackprobe/internal/probe"
)

// testRule matches a test framework by dependency key or by the presence of
// a config file. configs may be doublestar patterns relative to the probe.
type testRule struct {
	framework TestFramework
	keys      []string
	configs   []string
	detect    func(c *probe.Context) bool
}

var jsTestRules = []testRule{
	{framework: TestFrameworkVitest, keys: []string{"vitest"}, configs: []string{"vitest.config.*", "vitest.workspace.*"}},
	{framework: TestFrameworkJest, keys: []string{"jest"}, configs: []string{"jest.config.*"}},
	{framework: TestFrameworkMocha, keys: []string{"mocha"}, configs: []string{".mocharc*"}},
	{framework: TestFrameworkPlaywright, keys: []string{"@playwright/test"}, configs: []string{"playwright.config.*"}},
	{framework: TestFrameworkCypress, keys: []string{"cypress"}, configs: []string{"cypress.config.*"}},
}

var jvmTestRules = []testRule{
	{framework: TestFrameworkJUnit, keys: []string{"org.junit.jupiter:", "junit:junit", "org.junit:"}},
	{framework: TestFrameworkTestNG, keys: []string{"org.testng:"}},
}

var testRules = map[Language][]testRule{
	LanguageTypeScript: jsTestRules,
	LanguageJavaScript: jsTestRules,
	LanguagePython: {
		{framework: TestFrameworkPytest, keys: []string{"pytest"}, configs: []string{"pytest.ini", "conftest.py"}, detect: pyprojectSection("[tool.pytest")},
	},
	LanguageGo: {
		{framework: TestFrameworkTestify, keys: []string{"github.com/stretchr/testify"}},
		{framework: TestFrameworkGinkgo, keys: []string{"github.com/onsi/ginkgo"}},
		{framework: TestFrameworkGoTest, detect: hasFileSuffix("_test.go")},
	},
	LanguageRust: {
		{framework: TestFrameworkCargoTest, configs: []string{"tests"}, detect: hasRustTests},
	},
	LanguageJava: jvmTestRules,
	LanguageKotlin: append([]testRule{
		{framework: TestFrameworkKotest, keys: []string{"io.kotest:"}},
	}, jvmTestRules...),
	LanguageRuby: {
		{framework: TestFrameworkRSpec, keys: []string{"rspec", "rspec-rails"}, configs: []string{".rspec"}},
		{framework: TestFrameworkMinitest, keys: []string{"minitest"}},
	},
	LanguagePHP: {
		{framework: TestFrameworkPest, keys: []string{"pestphp/pest"}},
		{framework: TestFrameworkPHPUnit, keys: []string{"phpunit/phpunit"}, configs: []string{"phpunit.xml*"}},
	},
	LanguageCSharp: {
		{framework: TestFrameworkXUnit, keys: []string{"xunit"}},
		{framework: TestFrameworkNUnit, keys: []string{"NUnit"}},
		{framework: TestFrameworkMSTest, keys: []string{"MSTest.TestFramework", "MSTest"}},
	},
	LanguageSwift: {
		{framework: TestFrameworkXCTest, configs: []string{"Tests"}},
	},
	LanguageDart: {
		{framework: TestFrameworkFlutter, keys: []string{"flutter_test"}},
		{framework: TestFrameworkDartTest, keys: []string{"test"}},
	},
	LanguageElixir: {
		{framework: TestFrameworkExUnit, configs: []string{"test/test_helper.exs"}},
	},
}

// DetectTestFramework returns the first test framework for lang whose
// dependency key, config file or source marker is present.
func DetectTestFramework(c *probe.Context, lang Language) TestFramework {
	rules, ok := testRules[lang]
	if !ok {
		return TestFrameworkUnknown
	}
	deps := dependencies(c, lang)
	for _, rule := range rules {
		if _, _, ok := matchDependency(deps, rule.keys); ok {
			return rule.framework
		}
		if hasConfig(c, rule.configs) {
			return rule.framework
		}
		if rule.detect != nil && rule.detect(c) {
			return rule.framework
		}
	}
	return TestFrameworkUnknown
}

func hasConfig(c *probe.Context, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.ContainsAny(pattern, "*?[{") {
			if len(c.Glob(pattern)) > 0 {
				return true
			}
		} else if c.Exists(pattern) {
			return true
		}
	}
	return false
}

func pyprojectSection(header string) func(c *probe.Context) bool {
	return func(c *probe.Context) bool {
		content, ok := c.ReadText("pyproject.toml")
		return ok && strings.Contains(content, header)
	}
}

// testSearchDepth bounds the source walk used to find test files.
const testSearchDepth = 4

func hasFileSuffix(suffix string) func(c *probe.Context) bool {
	return func(c *probe.Context) bool {
		found := false
		c.Walk(".", testSearchDepth, isNoiseDir, func(path string, d fs.DirEntry) bool {
			if !d.IsDir() && strings.HasSuffix(path, suffix) {
				found = true
				return false
			}
			return true
		})
		return found
	}
}

// hasPythonUnittest looks for test modules importing the standard unittest
// package.
func hasPythonUnittest(c *probe.Context) bool {
	found := false
	c.Walk(".", testSearchDepth, isNoiseDir, func(p string, d fs.DirEntry) bool {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, ".py") ||
			!(strings.HasPrefix(name, "test_") || strings.HasSuffix(name, "_test.py")) {
			return true
		}
		content, ok := c.ReadText(p)
		if ok && (strings.Contains(content, "import unittest") || strings.Contains(content, "from unittest")) {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasRustTests looks for #[test] or #[cfg(test)] in the crate sources.
func hasRustTests(c *probe.Context) bool {
	found := false
	c.Walk("src", testSearchDepth, isNoiseDir, func(path string, d fs.DirEntry) bool {
		if d.IsDir() || !strings.HasSuffix(path, ".rs") {
			return true
		}
		if content, ok := c.ReadText(path); ok && (strings.Contains(content, "#[test]") || strings.Contains(content, "#[cfg(test)]")) {
			found = true
			return false
		}
		return true
	})
	return found
}
