package agentmd

import (
	"regexp"
	"strings"
)

const (
	// Markers delimiting a regenerated block inside a rules document.
	GeneratedStartMarker = "<!-- stackprobe:generated:start -->"
	GeneratedEndMarker   = "<!-- stackprobe:generated:end -->"
)

// ParsedContent is a document split around its generated block.
type ParsedContent struct {
	PreContent       string // Content before the generated section
	GeneratedContent string
	CustomContent    string // Content after the generated section
	HasMarkers       bool
}

// SplitGenerated splits content into the parts before, inside and after the
// generated markers. Without both markers the whole content is custom.
func SplitGenerated(content string) *ParsedContent {
	result := &ParsedContent{}

	startIdx := strings.Index(content, GeneratedStartMarker)
	endIdx := strings.Index(content, GeneratedEndMarker)

	if startIdx == -1 || endIdx == -1 || endIdx < startIdx {
		result.CustomContent = content
		return result
	}

	result.HasMarkers = true
	result.PreContent = content[:startIdx]
	result.GeneratedContent = content[startIdx : endIdx+len(GeneratedEndMarker)]
	result.CustomContent = content[endIdx+len(GeneratedEndMarker):]
	return result
}

// HasCustomContent returns true if the parsed content has custom sections.
func (p *ParsedContent) HasCustomContent() bool {
	return strings.TrimSpace(p.CustomContent) != ""
}

// category is a recognized section kind in a rules document.
type category int

const (
	categoryNone category = iota
	categoryRules
	categoryConventions
	categoryWarnings
	categoryMustDo
	categoryPrefer
)

// headerAliases lists accepted heading spellings per category, compared
// case-insensitively. English, Korean, Japanese and Chinese.
var headerAliases = []struct {
	category category
	aliases  []string
}{
	{categoryRules, []string{
		"rules", "project rules", "guidelines", "instructions",
		"규칙", "프로젝트 규칙", "ルール", "規則", "规则", "项目规则",
	}},
	{categoryConventions, []string{
		"conventions", "coding conventions", "code conventions", "code style", "style guide", "coding standards",
		"컨벤션", "코딩 컨벤션", "코드 스타일", "規約", "コーディング規約", "コーディング規則", "约定", "编码规范", "代码规范", "代码风格",
	}},
	{categoryWarnings, []string{
		"warnings", "warning", "caution", "cautions", "gotchas", "pitfalls", "avoid", "don't", "do not", "never",
		"주의", "주의사항", "경고", "금지", "注意", "注意事項", "警告", "禁止", "注意事项",
	}},
	{categoryMustDo, []string{
		"must do", "must", "required", "requirements", "always",
		"필수", "반드시", "必須", "必ず", "必须", "必做",
	}},
	{categoryPrefer, []string{
		"prefer", "preferences", "preferred", "recommendations", "best practices",
		"선호", "권장", "推奨", "優先", "推荐", "优先", "偏好",
	}},
}

var aliasIndex = func() map[string]category {
	idx := make(map[string]category)
	for _, h := range headerAliases {
		for _, a := range h.aliases {
			idx[a] = h.category
		}
	}
	return idx
}()

// categoryOf maps a heading to its category. Trailing colons and
// surrounding emphasis are ignored.
func categoryOf(heading string) category {
	key := strings.ToLower(strings.TrimSpace(heading))
	key = strings.Trim(key, "*_` ")
	key = strings.TrimRight(key, ":：")
	return aliasIndex[strings.TrimSpace(key)]
}

var (
	// A closing run of hashes is only stripped after whitespace, so "C#"
	// keeps its hash.
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)
	listItemRe = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.*\S)\s*$`)
)

// section is an open heading while scanning.
type section struct {
	level    int
	heading  string
	category category
	body     []string
}

// ParseRules extracts categorized list items and custom sections from a
// rules document. A heading of level two or deeper, or a level-one heading
// matching an alias, opens a section; it runs until the next heading of the
// same or higher level. Deeper headings stay in the body. Recognized
// sections keep only list items; other sections keep their full body.
func ParseRules(content string) *ClaudeMdContent {
	result := &ClaudeMdContent{
		Raw:            content,
		Rules:          []string{},
		Conventions:    []string{},
		Warnings:       []string{},
		MustDo:         []string{},
		Prefer:         []string{},
		CustomSections: make(map[string]string),
	}

	split := SplitGenerated(content)
	if split.HasMarkers {
		result.HasGeneratedMarkers = true
		result.CustomContent = strings.TrimSpace(split.CustomContent)
	}

	var current *section
	closeSection := func() {
		if current != nil {
			result.add(current)
			current = nil
		}
	}

	inFence := false
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if isFence(line) {
			inFence = !inFence
		}
		if !inFence {
			if m := headingRe.FindStringSubmatch(line); m != nil {
				level := len(m[1])
				heading := m[2]
				if current == nil || level <= current.level {
					closeSection()
					cat := categoryOf(heading)
					if level >= 2 || cat != categoryNone {
						current = &section{level: level, heading: heading, category: cat}
					}
					continue
				}
			}
		}
		if current != nil {
			current.body = append(current.body, line)
		}
	}
	closeSection()

	return result
}

func isFence(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

func (r *ClaudeMdContent) add(s *section) {
	if s.category == categoryNone {
		body := strings.TrimSpace(strings.Join(s.body, "\n"))
		if prev, ok := r.CustomSections[s.heading]; ok && prev != "" {
			body = prev + "\n\n" + body
		}
		r.CustomSections[s.heading] = body
		return
	}

	var items []string
	inFence := false
	for _, line := range s.body {
		if isFence(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := listItemRe.FindStringSubmatch(line); m != nil {
			items = append(items, m[1])
		}
	}

	switch s.category {
	case categoryRules:
		r.Rules = append(r.Rules, items...)
	case categoryConventions:
		r.Conventions = append(r.Conventions, items...)
	case categoryWarnings:
		r.Warnings = append(r.Warnings, items...)
	case categoryMustDo:
		r.MustDo = append(r.MustDo, items...)
	case categoryPrefer:
		r.Prefer = append(r.Prefer, items...)
	}
}

// Render writes the recognized sections back out as markdown lists.
// Parsing the output yields the same items in the same order.
func (r *ClaudeMdContent) Render() string {
	var b strings.Builder
	for _, sec := range []struct {
		heading string
		items   []string
	}{
		{"Rules", r.Rules},
		{"Conventions", r.Conventions},
		{"Warnings", r.Warnings},
		{"Must Do", r.MustDo},
		{"Prefer", r.Prefer},
	} {
		if len(sec.items) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + sec.heading + "\n\n")
		for _, item := range sec.items {
			b.WriteString("- " + item + "\n")
		}
	}
	return b.String()
}
