package scanner

import (
	"go.uber.org/zap"

	"github.com/andywolf/stackprobe/internal/probe"
)

// frameworkRule maps dependency keys to a framework. Keys ending in "/" or
// ":" match as prefixes.
type frameworkRule struct {
	framework Framework
	keys      []string
}

var jsFrameworks = []frameworkRule{
	{FrameworkNextJS, []string{"next"}},
	{FrameworkNuxt, []string{"nuxt", "nuxt3"}},
	{FrameworkRemix, []string{"@remix-run/"}},
	{FrameworkSvelteKit, []string{"@sveltejs/kit"}},
	{FrameworkAstro, []string{"astro"}},
	{FrameworkNestJS, []string{"@nestjs/core"}},
	{FrameworkExpress, []string{"express"}},
	{FrameworkFastify, []string{"fastify"}},
	{FrameworkKoa, []string{"koa"}},
	{FrameworkHono, []string{"hono"}},
	{FrameworkAngular, []string{"@angular/core"}},
	{FrameworkReactNative, []string{"react-native"}},
	{FrameworkElectron, []string{"electron"}},
	{FrameworkReact, []string{"react"}},
	{FrameworkVue, []string{"vue"}},
	{FrameworkSvelte, []string{"svelte"}},
	{FrameworkSolid, []string{"solid-js"}},
}

var jvmFrameworks = []frameworkRule{
	{FrameworkSpringBoot, []string{"org.springframework.boot:", "plugin:org.springframework.boot"}},
	{FrameworkQuarkus, []string{"io.quarkus:", "plugin:io.quarkus"}},
	{FrameworkMicronaut, []string{"io.micronaut:", "plugin:io.micronaut.application"}},
}

// frameworkRules is the per-language lookup table. Order within a language
// is the order entries are reported in.
var frameworkRules = map[Language][]frameworkRule{
	LanguageTypeScript: jsFrameworks,
	LanguageJavaScript: jsFrameworks,
	LanguagePython: {
		{FrameworkDjango, []string{"django"}},
		{FrameworkFastAPI, []string{"fastapi"}},
		{FrameworkFlask, []string{"flask"}},
	},
	LanguageGo: {
		{FrameworkGin, []string{"github.com/gin-gonic/gin"}},
		{FrameworkEcho, []string{"github.com/labstack/echo"}},
		{FrameworkFiber, []string{"github.com/gofiber/fiber"}},
		{FrameworkChi, []string{"github.com/go-chi/chi"}},
		{FrameworkGorilla, []string{"github.com/gorilla/mux"}},
		{FrameworkCobra, []string{"github.com/spf13/cobra"}},
	},
	LanguageRust: {
		{FrameworkActixWeb, []string{"actix-web"}},
		{FrameworkAxum, []string{"axum"}},
		{FrameworkRocket, []string{"rocket"}},
		{FrameworkWarp, []string{"warp"}},
	},
	LanguageJava:   jvmFrameworks,
	LanguageKotlin: append(append([]frameworkRule{}, jvmFrameworks...), frameworkRule{FrameworkKtor, []string{"io.ktor:"}}),
	LanguageRuby: {
		{FrameworkRails, []string{"rails"}},
		{FrameworkSinatra, []string{"sinatra"}},
	},
	LanguagePHP: {
		{FrameworkLaravel, []string{"laravel/framework"}},
		{FrameworkSymfony, []string{"symfony/framework-bundle"}},
	},
	LanguageCSharp: {
		{FrameworkASPNetCore, []string{"Microsoft.NET.Sdk.Web", "Microsoft.AspNetCore."}},
	},
	LanguageSwift: {
		{FrameworkVapor, []string{"vapor"}},
	},
	LanguageDart: {
		{FrameworkFlutter, []string{"flutter"}},
	},
	LanguageElixir: {
		{FrameworkPhoenix, []string{"phoenix"}},
	},
}

// applicationFrameworks are server or full-stack frameworks. They win the
// primary slot over UI and view libraries.
var applicationFrameworks = map[Framework]bool{
	FrameworkNextJS: true, FrameworkNuxt: true, FrameworkRemix: true, FrameworkSvelteKit: true,
	FrameworkAstro: true, FrameworkNestJS: true, FrameworkExpress: true, FrameworkFastify: true,
	FrameworkKoa: true, FrameworkHono: true,
	FrameworkDjango: true, FrameworkFastAPI: true, FrameworkFlask: true,
	FrameworkGin: true, FrameworkEcho: true, FrameworkFiber: true, FrameworkChi: true, FrameworkGorilla: true,
	FrameworkActixWeb: true, FrameworkAxum: true, FrameworkRocket: true, FrameworkWarp: true,
	FrameworkSpringBoot: true, FrameworkQuarkus: true, FrameworkMicronaut: true, FrameworkKtor: true,
	FrameworkRails: true, FrameworkSinatra: true,
	FrameworkLaravel: true, FrameworkSymfony: true,
	FrameworkASPNetCore: true, FrameworkVapor: true, FrameworkPhoenix: true,
}

// IsApplicationFramework reports whether f is a server or full-stack
// framework rather than a UI library or tool.
func IsApplicationFramework(f Framework) bool {
	return applicationFrameworks[f]
}

// DetectFrameworks scans each language's declared dependencies for known
// framework keys. Every match is kept; entries follow language order, then
// table order.
func DetectFrameworks(c *probe.Context, langs []LanguageInfo) []FrameworkInfo {
	var frameworks []FrameworkInfo
	for _, lang := range langs {
		rules, ok := frameworkRules[lang.Language]
		if !ok {
			continue
		}
		deps := dependencies(c, lang.Language)
		if len(deps) == 0 {
			continue
		}
		for _, rule := range rules {
			if _, version, ok := matchDependency(deps, rule.keys); ok {
				frameworks = append(frameworks, FrameworkInfo{
					Framework: rule.framework,
					Version:   cleanVersion(version),
					Language:  lang.Language,
				})
			}
		}
	}

	if len(frameworks) > 0 {
		c.Logger().Debug("frameworks detected", zap.String("dir", c.Root()), zap.Any("frameworks", frameworks))
	}
	return frameworks
}

// PrimaryFramework picks the first application framework in detection
// order, else the first entry. With several application frameworks declared
// together the pick is best-effort.
func PrimaryFramework(frameworks []FrameworkInfo) FrameworkInfo {
	for _, f := range frameworks {
		if applicationFrameworks[f.Framework] {
			return f
		}
	}
	if len(frameworks) > 0 {
		return frameworks[0]
	}
	return FrameworkInfo{Framework: FrameworkUnknown, Language: LanguageUnknown}
}
