// Package agentmd reads the human-written documents of a project: the
// agent rules document (CLAUDE.md and friends), the README, and any agent
// or skill markdown files already present.
package agentmd

// ClaudeMdContent is a parsed rules document.
type ClaudeMdContent struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	Raw  string `json:"-" yaml:"-"`

	Rules       []string `json:"rules" yaml:"rules"`
	Conventions []string `json:"conventions" yaml:"conventions"`
	Warnings    []string `json:"warnings" yaml:"warnings"`
	MustDo      []string `json:"must_do" yaml:"must_do"`
	Prefer      []string `json:"prefer" yaml:"prefer"`

	// CustomSections maps an unrecognized heading to its full body.
	CustomSections map[string]string `json:"custom_sections" yaml:"custom_sections"`

	// HasGeneratedMarkers is set when the document carries a generated
	// block; CustomContent is whatever follows its end marker.
	HasGeneratedMarkers bool   `json:"has_generated_markers" yaml:"has_generated_markers"`
	CustomContent       string `json:"custom_content,omitempty" yaml:"custom_content,omitempty"`
}

// Badge is a markdown badge link: [![alt](image)](link).
type Badge struct {
	Alt   string `json:"alt" yaml:"alt"`
	Image string `json:"image" yaml:"image"`
	Link  string `json:"link" yaml:"link"`
}

// ReadmeContent is a parsed README.
type ReadmeContent struct {
	Path        string  `json:"path,omitempty" yaml:"path,omitempty"`
	Raw         string  `json:"-" yaml:"-"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Badges      []Badge `json:"badges" yaml:"badges"`
}

// ArtifactType distinguishes agent definitions from skills.
type ArtifactType string

const (
	ArtifactAgent ArtifactType = "agent"
	ArtifactSkill ArtifactType = "skill"
)

// ExistingAgent is an agent or skill markdown file found on disk.
type ExistingAgent struct {
	Path        string         `json:"path" yaml:"path"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Content     string         `json:"-" yaml:"-"`
	Type        ArtifactType   `json:"type" yaml:"type"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ProjectDocuments bundles every document read from a project.
type ProjectDocuments struct {
	ClaudeMd       *ClaudeMdContent `json:"claude_md,omitempty" yaml:"claude_md,omitempty"`
	Readme         *ReadmeContent   `json:"readme,omitempty" yaml:"readme,omitempty"`
	ExistingAgents []ExistingAgent  `json:"existing_agents" yaml:"existing_agents"`
	ExistingSkills []ExistingAgent  `json:"existing_skills" yaml:"existing_skills"`
	AgentsDir      string           `json:"agents_dir,omitempty" yaml:"agents_dir,omitempty"`
	SkillsDir      string           `json:"skills_dir,omitempty" yaml:"skills_dir,omitempty"`
}
