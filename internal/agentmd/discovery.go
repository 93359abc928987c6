package agentmd

import (
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/stackprobe/internal/probe"
)

// Candidate locations, in priority order.
var (
	RulesFileCandidates  = []string{"CLAUDE.md", ".claude/CLAUDE.md", "AGENTS.md", "AGENT.md"}
	ReadmeCandidates     = []string{"README.md", "readme.md", "Readme.md", "README"}
	AgentsDirCandidates  = []string{".claude/agents", "agents", ".agents"}
	SkillsDirCandidates  = []string{".claude/skills", "skills", ".skills"}
	skillEntryFile       = "SKILL.md"
	excludedArtifactName = map[string]bool{"index.md": true, "readme.md": true, "manifest.md": true}
)

// Load reads every document the project carries. Missing documents leave
// their fields empty.
func Load(c *probe.Context) *ProjectDocuments {
	docs := &ProjectDocuments{
		ExistingAgents: []ExistingAgent{},
		ExistingSkills: []ExistingAgent{},
	}

	if rel, content, ok := readFirst(c, RulesFileCandidates); ok {
		docs.ClaudeMd = ParseRules(content)
		docs.ClaudeMd.Path = rel
	}
	if rel, content, ok := readFirst(c, ReadmeCandidates); ok {
		docs.Readme = ParseReadme(content)
		docs.Readme.Path = rel
	}

	docs.AgentsDir, docs.ExistingAgents = DiscoverAgents(c)
	docs.SkillsDir, docs.ExistingSkills = DiscoverSkills(c)

	c.Logger().Debug("project documents loaded",
		zap.Bool("rules", docs.ClaudeMd != nil),
		zap.Bool("readme", docs.Readme != nil),
		zap.Int("agents", len(docs.ExistingAgents)),
		zap.Int("skills", len(docs.ExistingSkills)))
	return docs
}

// LoadReadme reads only the README.
func LoadReadme(c *probe.Context) (*ReadmeContent, bool) {
	rel, content, ok := readFirst(c, ReadmeCandidates)
	if !ok {
		return nil, false
	}
	readme := ParseReadme(content)
	readme.Path = rel
	return readme, true
}

func readFirst(c *probe.Context, candidates []string) (string, string, bool) {
	for _, rel := range candidates {
		if !c.IsFile(rel) {
			continue
		}
		if content, ok := c.ReadText(rel); ok {
			return rel, content, true
		}
	}
	return "", "", false
}

// DiscoverAgents lists agent markdown files in the first agents directory
// that exists. It returns that directory and the agents found.
func DiscoverAgents(c *probe.Context) (string, []ExistingAgent) {
	return discover(c, AgentsDirCandidates, ArtifactAgent)
}

// DiscoverSkills lists skills in the first skills directory that exists,
// including <name>/SKILL.md entries.
func DiscoverSkills(c *probe.Context) (string, []ExistingAgent) {
	return discover(c, SkillsDirCandidates, ArtifactSkill)
}

func discover(c *probe.Context, candidates []string, kind ArtifactType) (string, []ExistingAgent) {
	found := []ExistingAgent{}
	dir := ""
	for _, candidate := range candidates {
		if c.IsDir(candidate) {
			dir = candidate
			break
		}
	}
	if dir == "" {
		return "", found
	}

	for _, name := range c.ListFiles(dir) {
		if !isArtifactFile(name) {
			continue
		}
		if a, ok := readArtifact(c, path.Join(dir, name), strings.TrimSuffix(name, ".md"), kind); ok {
			found = append(found, a)
		}
	}

	if kind == ArtifactSkill {
		for _, sub := range c.ListDirs(dir) {
			if strings.HasPrefix(sub, "_") || strings.HasPrefix(sub, ".") {
				continue
			}
			rel := path.Join(dir, sub, skillEntryFile)
			if !c.IsFile(rel) {
				continue
			}
			if a, ok := readArtifact(c, rel, sub, kind); ok {
				found = append(found, a)
			}
		}
	}
	return dir, found
}

func isArtifactFile(name string) bool {
	return strings.HasSuffix(name, ".md") &&
		!strings.HasPrefix(name, "_") &&
		!excludedArtifactName[strings.ToLower(name)]
}

// readArtifact reads one agent or skill file. Front-matter may override the
// name and the artifact type.
func readArtifact(c *probe.Context, rel, fallbackName string, kind ArtifactType) (ExistingAgent, bool) {
	content, ok := c.ReadText(rel)
	if !ok {
		return ExistingAgent{}, false
	}

	a := ExistingAgent{Path: rel, Name: fallbackName, Content: content, Type: kind}
	meta, _, err := ExtractFrontmatter(content)
	if err != nil {
		c.Logger().Debug("ignoring malformed front-matter", zap.String("path", rel), zap.Error(err))
		return a, true
	}
	if meta == nil {
		return a, true
	}

	a.Metadata = meta
	if name, ok := meta["name"].(string); ok && strings.TrimSpace(name) != "" {
		a.Name = strings.TrimSpace(name)
	}
	if desc, ok := meta["description"].(string); ok {
		a.Description = strings.TrimSpace(desc)
	}
	if t, ok := meta["type"].(string); ok {
		switch ArtifactType(strings.ToLower(t)) {
		case ArtifactAgent:
			a.Type = ArtifactAgent
		case ArtifactSkill:
			a.Type = ArtifactSkill
		}
	}
	return a, true
}

// ExtractFrontmatter parses a leading "---" YAML block. It returns nil
// metadata and the full content when there is no block.
func ExtractFrontmatter(content string) (map[string]any, string, error) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return nil, content, nil
	}

	// Treat the opening newline as part of the block so an empty block
	// ("---\n---") closes at index 0.
	rest := normalized[len("---"):]
	closeIdx := strings.Index(rest, "\n---")
	if closeIdx == -1 {
		return nil, content, fmt.Errorf("no closing front-matter delimiter")
	}
	yamlContent := rest[:closeIdx]

	body := rest[closeIdx+len("\n---"):]
	if nl := strings.Index(body, "\n"); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &meta); err != nil {
		return nil, content, fmt.Errorf("parse front-matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, strings.TrimLeft(body, "\n"), nil
}
