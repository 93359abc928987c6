package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"

	"go.uber.org/zap"

	"github.com/andywolf/stackprobe/internal/agentmd"
	"github.com/andywolf/stackprobe/internal/probe"
	"github.com/andywolf/stackprobe/internal/workspace"
)

// ErrNotDirectory is returned when the analysis root is missing or is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

const (
	defaultMaxWorkers       = 4
	defaultNamingSampleSize = 500
)

// Scanner analyzes a project directory to detect its characteristics.
type Scanner struct {
	probe            *probe.Context
	logger           *zap.Logger
	maxWorkers       int
	namingSampleSize int
	sourceDirs       []string
	excludeDirs      []string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger shared by the scanner and its probe.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxWorkers bounds concurrent per-workspace detection.
func WithMaxWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.maxWorkers = n
		}
	}
}

// WithNamingSampleSize caps the files sampled for naming classification.
func WithNamingSampleSize(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.namingSampleSize = n
		}
	}
}

// WithSourceDirs adds source directory candidates after the built-in ones.
func WithSourceDirs(dirs []string) Option {
	return func(s *Scanner) { s.sourceDirs = dirs }
}

// WithExcludeDirs adds directory names skipped by the structure and naming
// walks.
func WithExcludeDirs(dirs []string) Option {
	return func(s *Scanner) { s.excludeDirs = dirs }
}

// New creates a Scanner for rootDir.
func New(rootDir string, opts ...Option) (*Scanner, error) {
	s := &Scanner{
		logger:           zap.NewNop(),
		maxWorkers:       defaultMaxWorkers,
		namingSampleSize: defaultNamingSampleSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNotDirectory, rootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, rootDir)
	}

	c, err := probe.New(rootDir, probe.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", rootDir, err)
	}
	s.probe = c
	return s, nil
}

// Probe returns the probe bound to the scanner's root.
func (s *Scanner) Probe() *probe.Context {
	return s.probe
}

// Analyze runs every detector against the root and assembles the result.
// Detector failures degrade to unknown values; the only error is context
// cancellation.
func (s *Scanner) Analyze(ctx context.Context) (*AnalysisResult, error) {
	c := s.probe
	s.logger.Debug("analysis started", zap.String("root", c.Root()))

	monorepo := workspace.Detect(c)

	var stacks []StackItem
	if monorepo != nil {
		var err error
		stacks, err = s.ScanWorkspaces(ctx, monorepo)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspaces: %w", err)
		}
	} else if root := DetectStack(c, "."); root.Language != LanguageUnknown {
		stacks = []StackItem{root}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rootLangs := DetectLanguages(c)
	techStack := buildTechStack(stacks, monorepo, rootLangs, DetectFrameworks(c, rootLangs))

	tools := DetectAdditionalTools(c, techStack.Stacks)
	techStack.Styling = tools.Styling
	techStack.Database = tools.Database
	techStack.StateManagement = tools.StateManagement
	techStack.AdditionalTools = tools.Tools

	structure := DetectStructure(c, s.sourceDirs, s.excludeDirs)
	patterns := CodePatterns{
		Naming:    DetectNaming(c, structure.SourceDir, s.namingSampleSize, s.excludeDirs),
		Structure: structure,
	}

	result := &AnalysisResult{
		ProjectName: projectName(c),
		Description: s.projectDescription(),
		RootPath:    c.Root(),
		TechStack:   techStack,
		Patterns:    patterns,
		Commands:    DetectCommands(c, s.rootStack(techStack)),
		Confidence:  ScoreConfidence(techStack, patterns),
	}

	s.logger.Debug("analysis finished",
		zap.String("language", string(techStack.Primary.Language)),
		zap.String("framework", string(techStack.Primary.Framework)),
		zap.Int("stacks", len(techStack.Stacks)),
		zap.Float64("confidence", result.Confidence.Overall))
	return result, nil
}

// rootStack is the stack whose manifests live at the root, falling back to
// the primary stack when the root has none of its own.
func (s *Scanner) rootStack(ts TechStack) StackItem {
	for _, st := range ts.Stacks {
		if st.Path == "." {
			return st
		}
	}
	return ts.Primary
}

var pyprojectDescriptionRe = regexp.MustCompile(`(?m)^\[(?:project|tool\.poetry)\][^\[]*?^description\s*=\s*["']([^"']+)["']`)

// projectDescription reads the manifest description, then the README.
func (s *Scanner) projectDescription() string {
	c := s.probe
	if pkg, ok := readPackageJSON(c); ok && pkg.Description != "" {
		return pkg.Description
	}
	if content, ok := c.ReadText("pyproject.toml"); ok {
		if desc := firstSubmatch(pyprojectDescriptionRe, content); desc != "" {
			return desc
		}
	}
	if readme, ok := agentmd.LoadReadme(c); ok {
		return readme.Description
	}
	return ""
}
