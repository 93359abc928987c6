package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/stackprobe/internal/agentmd"
	"github.com/andywolf/stackprobe/internal/scanner"
	"github.com/charmbracelet/lipgloss"
)

// summaryStyles are bound to the output's renderer, so color is only
// emitted when the destination supports it.
type summaryStyles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
}

func newSummaryStyles(re *lipgloss.Renderer) summaryStyles {
	return summaryStyles{
		Title: re.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true),

		Section: re.NewStyle().
			Foreground(lipgloss.Color("#2563EB")).
			Bold(true).
			MarginTop(1),

		Label: re.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(18),

		Muted: re.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Italic(true),
	}
}

// row renders an aligned label/value pair, skipping empty and unknown
// values.
func (st summaryStyles) row(b *strings.Builder, label, value string) {
	if value == "" || value == "unknown" {
		return
	}
	b.WriteString(st.Label.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

func stackLine(st scanner.StackItem) string {
	parts := []string{string(st.Language)}
	if st.LanguageVersion != "" {
		parts[0] += " " + st.LanguageVersion
	}
	if st.Framework != scanner.FrameworkUnknown && st.Framework != "" {
		fw := string(st.Framework)
		if st.FrameworkVersion != "" {
			fw += " " + st.FrameworkVersion
		}
		parts = append(parts, fw)
	}
	if st.TestFramework != scanner.TestFrameworkUnknown && st.TestFramework != "" {
		parts = append(parts, string(st.TestFramework))
	}
	if st.PackageManager != scanner.PackageManagerUnknown && st.PackageManager != "" {
		parts = append(parts, string(st.PackageManager))
	}
	return strings.Join(parts, " / ")
}

// renderSummary formats an analysis for a terminal.
func renderSummary(w io.Writer, r *scanner.AnalysisResult, docs *agentmd.ProjectDocuments) string {
	style := newSummaryStyles(lipgloss.NewRenderer(w))
	row := style.row
	var b strings.Builder

	b.WriteString(style.Title.Render(r.ProjectName))
	b.WriteString("\n")
	if r.Description != "" {
		b.WriteString(style.Muted.Render(r.Description))
		b.WriteString("\n")
	}

	ts := r.TechStack
	b.WriteString(style.Section.Render("Stack"))
	b.WriteString("\n")
	if ts.Primary.Language == scanner.LanguageUnknown {
		b.WriteString(style.Muted.Render("no recognizable manifests"))
		b.WriteString("\n")
	} else {
		row(&b, "Primary", stackLine(ts.Primary))
	}
	if ts.Monorepo != nil {
		row(&b, "Monorepo", string(ts.Monorepo.Type))
		for _, st := range ts.Stacks {
			if st.Language == scanner.LanguageUnknown {
				continue
			}
			row(&b, "  "+st.Path, stackLine(st))
		}
	}
	row(&b, "Styling", ts.Styling)
	row(&b, "Database", ts.Database)
	row(&b, "State", ts.StateManagement)
	row(&b, "Tools", strings.Join(ts.AdditionalTools, ", "))

	s := r.Patterns.Structure
	b.WriteString(style.Section.Render("Layout"))
	b.WriteString("\n")
	row(&b, "Structure", string(s.Type))
	row(&b, "Source dir", s.SourceDir)
	row(&b, "Test dir", s.TestDir)
	row(&b, "File naming", string(r.Patterns.Naming.Files))
	row(&b, "Dir naming", string(r.Patterns.Naming.Directories))
	row(&b, "Entry points", strings.Join(s.EntryPoints, ", "))
	row(&b, "CI", s.CISystem)
	for _, kd := range s.KeyDirectories {
		row(&b, "  "+kd.Path, kd.Purpose)
	}

	c := r.Commands
	if c != (scanner.Commands{}) {
		b.WriteString(style.Section.Render("Commands"))
		b.WriteString("\n")
		row(&b, "Install", c.Install)
		row(&b, "Build", c.Build)
		row(&b, "Test", c.Test)
		row(&b, "Lint", c.Lint)
		row(&b, "Format", c.Format)
		row(&b, "Dev", c.Dev)
		row(&b, "Start", c.Start)
	}

	if docs != nil {
		b.WriteString(style.Section.Render("Documents"))
		b.WriteString("\n")
		if docs.ClaudeMd != nil {
			row(&b, "Rules file", docs.ClaudeMd.Path)
		}
		if docs.Readme != nil {
			row(&b, "README", docs.Readme.Path)
		}
		row(&b, "Agents", countIn(docs.AgentsDir, len(docs.ExistingAgents)))
		row(&b, "Skills", countIn(docs.SkillsDir, len(docs.ExistingSkills)))
	}

	conf := r.Confidence
	b.WriteString(style.Section.Render("Confidence"))
	b.WriteString("\n")
	row(&b, "Overall", fmt.Sprintf("%.2f", conf.Overall))
	row(&b, "Stack", fmt.Sprintf("%.2f", conf.Stack))
	row(&b, "Patterns", fmt.Sprintf("%.2f", conf.Patterns))

	return b.String()
}

func countIn(dir string, n int) string {
	if dir == "" {
		return ""
	}
	return fmt.Sprintf("%d in %s", n, dir)
}
