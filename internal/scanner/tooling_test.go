package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectAdditionalTools(t *testing.T) {
	c := probeWith(t, map[string]string{
		"package.json": `{
			"dependencies": {"next": "14.1.0", "zustand": "^4.5.0", "zod": "^3.22.0"},
			"devDependencies": {"tailwindcss": "^3.4.0", "eslint": "^8", "typescript": "^5"}
		}`,
		".prettierrc":     "{}",
		"Dockerfile":      "FROM node:20",
		"apps/api/go.mod": "module example.com/api\n\ngo 1.22\n\nrequire gorm.io/gorm v1.25.5\n",
	})
	stacks := []StackItem{
		{Language: LanguageTypeScript, Path: "."},
		{Language: LanguageGo, Path: "apps/api"},
	}

	got := DetectAdditionalTools(c, stacks)

	assert.Equal(t, AdditionalTools{
		Styling:         "tailwindcss",
		Database:        "gorm",
		StateManagement: "zustand",
		Tools:           []string{"eslint", "prettier", "zod", "docker"},
	}, got)
}

func TestDetectAdditionalTools_ConfigInWorkspace(t *testing.T) {
	c := probeWith(t, map[string]string{
		"pnpm-workspace.yaml":              "packages:\n  - packages/*\n",
		"package.json":                     `{"name": "mono"}`,
		"packages/db/package.json":         `{"name": "db"}`,
		"packages/db/prisma/schema.prisma": "datasource db {}",
		"packages/web/package.json":        `{"name": "web", "dependencies": {"@emotion/react": "^11"}}`,
		"packages/web/.storybook/main.ts":  "",
	})
	stacks := []StackItem{
		{Language: LanguageJavaScript, Path: "packages/db"},
		{Language: LanguageJavaScript, Path: "packages/web"},
	}

	got := DetectAdditionalTools(c, stacks)

	assert.Equal(t, "emotion", got.Styling)
	assert.Equal(t, "prisma", got.Database)
	assert.Empty(t, got.StateManagement)
	assert.Equal(t, []string{"storybook"}, got.Tools)
}

func TestDetectAdditionalTools_Nothing(t *testing.T) {
	got := DetectAdditionalTools(probeWith(t, map[string]string{"README.md": ""}), nil)

	assert.Empty(t, got.Styling)
	assert.Empty(t, got.Database)
	assert.Empty(t, got.StateManagement)
	assert.NotNil(t, got.Tools)
	assert.Empty(t, got.Tools)
}
