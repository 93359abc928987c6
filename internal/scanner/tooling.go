package scanner

import (
	"github.com/andywolf/stackprobe/internal/probe"
)

// toolRule tags a project with a tool when a dependency key or config file
// is present.
type toolRule struct {
	name    string
	keys    []string
	configs []string
}

var stylingRules = []toolRule{
	{name: "tailwindcss", keys: []string{"tailwindcss"}, configs: []string{"tailwind.config.*"}},
	{name: "styled-components", keys: []string{"styled-components"}},
	{name: "emotion", keys: []string{"@emotion/"}},
	{name: "sass", keys: []string{"sass", "node-sass"}},
	{name: "mui", keys: []string{"@mui/material"}},
	{name: "chakra-ui", keys: []string{"@chakra-ui/react"}},
	{name: "shadcn-ui", configs: []string{"components.json"}},
	{name: "bootstrap", keys: []string{"bootstrap"}},
	{name: "css-modules", configs: []string{"src/**/*.module.css"}},
}

var databaseRules = []toolRule{
	{name: "prisma", keys: []string{"prisma", "@prisma/client"}, configs: []string{"prisma/schema.prisma"}},
	{name: "drizzle", keys: []string{"drizzle-orm"}},
	{name: "typeorm", keys: []string{"typeorm"}},
	{name: "sequelize", keys: []string{"sequelize"}},
	{name: "mongoose", keys: []string{"mongoose"}},
	{name: "knex", keys: []string{"knex"}},
	{name: "gorm", keys: []string{"gorm.io/gorm"}},
	{name: "ent", keys: []string{"entgo.io/ent"}},
	{name: "sqlc", configs: []string{"sqlc.yaml", "sqlc.yml", "sqlc.json"}},
	{name: "pgx", keys: []string{"github.com/jackc/pgx"}},
	{name: "sqlalchemy", keys: []string{"sqlalchemy"}},
	{name: "django-orm", keys: []string{"django"}},
	{name: "diesel", keys: []string{"diesel"}},
	{name: "sqlx", keys: []string{"sqlx", "github.com/jmoiron/sqlx"}},
	{name: "sea-orm", keys: []string{"sea-orm"}},
	{name: "hibernate", keys: []string{"org.hibernate:", "org.springframework.boot:spring-boot-starter-data-jpa"}},
	{name: "activerecord", keys: []string{"rails", "activerecord"}},
	{name: "eloquent", keys: []string{"laravel/framework"}},
	{name: "entity-framework", keys: []string{"Microsoft.EntityFrameworkCore"}},
	{name: "ecto", keys: []string{"ecto", "ecto_sql"}},
}

var stateRules = []toolRule{
	{name: "redux", keys: []string{"@reduxjs/toolkit", "redux"}},
	{name: "zustand", keys: []string{"zustand"}},
	{name: "jotai", keys: []string{"jotai"}},
	{name: "recoil", keys: []string{"recoil"}},
	{name: "mobx", keys: []string{"mobx"}},
	{name: "pinia", keys: []string{"pinia"}},
	{name: "vuex", keys: []string{"vuex"}},
	{name: "tanstack-query", keys: []string{"@tanstack/react-query", "@tanstack/vue-query", "react-query"}},
}

var additionalToolRules = []toolRule{
	{name: "eslint", keys: []string{"eslint"}, configs: []string{".eslintrc*", "eslint.config.*"}},
	{name: "prettier", keys: []string{"prettier"}, configs: []string{".prettierrc*", "prettier.config.*"}},
	{name: "biome", keys: []string{"@biomejs/biome"}, configs: []string{"biome.json", "biome.jsonc"}},
	{name: "husky", keys: []string{"husky"}, configs: []string{".husky"}},
	{name: "storybook", keys: []string{"storybook", "@storybook/"}, configs: []string{".storybook"}},
	{name: "graphql", keys: []string{"graphql", "github.com/99designs/gqlgen", "strawberry-graphql"}},
	{name: "trpc", keys: []string{"@trpc/server"}},
	{name: "zod", keys: []string{"zod"}},
	{name: "golangci-lint", configs: []string{".golangci.yml", ".golangci.yaml", ".golangci.toml"}},
	{name: "ruff", keys: []string{"ruff"}, configs: []string{"ruff.toml", ".ruff.toml"}},
	{name: "black", keys: []string{"black"}},
	{name: "mypy", keys: []string{"mypy"}, configs: []string{"mypy.ini"}},
	{name: "rubocop", keys: []string{"rubocop"}, configs: []string{".rubocop.yml"}},
	{name: "clippy", configs: []string{"clippy.toml", ".clippy.toml"}},
	{name: "docker", configs: []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml", "compose.yaml"}},
	{name: "pre-commit", configs: []string{".pre-commit-config.yaml"}},
}

// AdditionalTools is the enrichment found across the root and every stack.
type AdditionalTools struct {
	Styling         string
	Database        string
	StateManagement string
	Tools           []string
}

// DetectAdditionalTools unions the dependencies of the root and each stack
// directory, then applies the styling, database, state and tool tables.
// Styling, database and state management keep their first match; tools
// keep every match in table order.
func DetectAdditionalTools(c *probe.Context, stacks []StackItem) AdditionalTools {
	deps := make(map[string]string)
	probes := []*probe.Context{c}

	addDeps := func(p *probe.Context, lang Language) {
		merge(deps, dependencies(p, lang))
	}
	for _, l := range DetectLanguages(c) {
		addDeps(c, l.Language)
	}
	for _, st := range stacks {
		if st.Path == "." || st.Path == "" {
			continue
		}
		sub := c.Sub(st.Path)
		if sub == nil {
			continue
		}
		probes = append(probes, sub)
		addDeps(sub, st.Language)
	}

	tools := AdditionalTools{
		Styling:         firstTool(stylingRules, deps, probes),
		Database:        firstTool(databaseRules, deps, probes),
		StateManagement: firstTool(stateRules, deps, probes),
		Tools:           []string{},
	}
	for _, rule := range additionalToolRules {
		if toolPresent(rule, deps, probes) {
			tools.Tools = append(tools.Tools, rule.name)
		}
	}
	return tools
}

func firstTool(rules []toolRule, deps map[string]string, probes []*probe.Context) string {
	for _, rule := range rules {
		if toolPresent(rule, deps, probes) {
			return rule.name
		}
	}
	return ""
}

func toolPresent(rule toolRule, deps map[string]string, probes []*probe.Context) bool {
	if len(rule.keys) > 0 {
		if _, _, ok := matchDependency(deps, rule.keys); ok {
			return true
		}
	}
	for _, p := range probes {
		if hasConfig(p, rule.configs) {
			return true
		}
	}
	return false
}
