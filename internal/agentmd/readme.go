package agentmd

import (
	"regexp"
	"strings"
)

var (
	badgeRe      = regexp.MustCompile(`\[!\[([^\]]*)\]\(([^)\s]*)[^)]*\)\]\(([^)\s]*)[^)]*\)`)
	imageRe      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	linkOnlyRe   = regexp.MustCompile(`^\[[^\]]*\]\([^)]*\)$`)
	setextRuleRe = regexp.MustCompile(`^(=+|-+)\s*$`)
)

// ParseReadme extracts the title, the first descriptive paragraph after the
// first top-level heading and every badge link. Lines made only of badges,
// images or HTML tags are not description. Without a top-level heading the
// description search starts at the top of the file.
func ParseReadme(content string) *ReadmeContent {
	result := &ReadmeContent{Raw: content, Badges: []Badge{}}

	for _, m := range badgeRe.FindAllStringSubmatch(content, -1) {
		result.Badges = append(result.Badges, Badge{Alt: m[1], Image: m[2], Link: m[3]})
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	start := 0
	for i, line := range lines {
		if m := headingRe.FindStringSubmatch(line); m != nil && len(m[1]) == 1 {
			result.Title = stripInlineMarkup(m[2])
			start = i + 1
			break
		}
	}

	var paragraph []string
	inFence := false
	for _, line := range lines[start:] {
		if isFence(line) {
			if len(paragraph) > 0 {
				break
			}
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		trimmed := strings.TrimSpace(line)
		// Subheadings before the first paragraph are skipped; one after it
		// ends the description.
		if headingRe.MatchString(trimmed) {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		if trimmed == "" || isDecoration(trimmed) {
			if len(paragraph) > 0 {
				break
			}
			continue
		}
		paragraph = append(paragraph, trimmed)
	}
	result.Description = strings.Join(paragraph, " ")

	return result
}

// isDecoration reports lines that carry no prose: badges, images, bare
// links, HTML wrappers and horizontal rules.
func isDecoration(line string) bool {
	if setextRuleRe.MatchString(line) || line == "***" || line == "___" {
		return true
	}
	rest := badgeRe.ReplaceAllString(line, "")
	rest = imageRe.ReplaceAllString(rest, "")
	rest = htmlTagRe.ReplaceAllString(rest, "")
	rest = strings.TrimSpace(rest)
	return rest == "" || linkOnlyRe.MatchString(rest)
}

func stripInlineMarkup(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = imageRe.ReplaceAllString(s, "")
	return strings.TrimSpace(strings.Trim(s, "*_`"))
}
