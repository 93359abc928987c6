package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andywolf/stackprobe/internal/agentmd"
	"github.com/andywolf/stackprobe/internal/config"
	"github.com/andywolf/stackprobe/internal/probe"
	"github.com/andywolf/stackprobe/internal/scanner"
	"github.com/andywolf/stackprobe/internal/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a project directory",
	Long: `Analyze a project directory and print its tech stack, layout,
naming conventions, commands and a confidence score.

The path defaults to the current directory. Inside a monorepo, --workspace
narrows the analysis to one workspace package by path or by name.

Examples:
  stackprobe analyze
  stackprobe analyze ../shop --format yaml
  stackprobe analyze --workspace api --docs
  stackprobe analyze --format text`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("format", "f", "json", "Output format (json, yaml, text)")
	analyzeCmd.Flags().StringP("workspace", "w", "", "Analyze a single workspace package (path or name)")
	analyzeCmd.Flags().Bool("docs", false, "Include parsed rules, README and agent documents")
	analyzeCmd.Flags().StringP("output", "o", "", "Write the result to a file instead of stdout")
	analyzeCmd.Flags().Int("max-workers", 0, "Concurrent workspace scans (default from config)")
	analyzeCmd.Flags().StringSlice("exclude", nil, "Directory names to skip during layout and naming walks")
	analyzeCmd.Flags().StringSlice("source-dir", nil, "Extra source directory candidates")

	_ = viper.BindPFlag("output.format", analyzeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("analysis.max_workers", analyzeCmd.Flags().Lookup("max-workers"))
	_ = viper.BindPFlag("analysis.exclude_dirs", analyzeCmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("analysis.source_dirs", analyzeCmd.Flags().Lookup("source-dir"))
}

// report is the analyze output. Documents are attached only with --docs.
type report struct {
	scanner.AnalysisResult `yaml:",inline"`
	Documents              *agentmd.ProjectDocuments `json:"documents,omitempty" yaml:"documents,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	if name, _ := cmd.Flags().GetString("workspace"); name != "" {
		root, err = resolveWorkspace(root, name)
		if err != nil {
			return err
		}
	}

	s, err := scanner.New(root,
		scanner.WithLogger(logger),
		scanner.WithMaxWorkers(cfg.Analysis.MaxWorkers),
		scanner.WithNamingSampleSize(cfg.Analysis.NamingSampleSize),
		scanner.WithSourceDirs(cfg.Analysis.SourceDirs),
		scanner.WithExcludeDirs(cfg.Analysis.ExcludeDirs),
	)
	if err != nil {
		return err
	}

	result, err := s.Analyze(cmd.Context())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := report{AnalysisResult: *result}
	if withDocs, _ := cmd.Flags().GetBool("docs"); withDocs {
		out.Documents = agentmd.Load(s.Probe())
	}

	w := cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
		logger.Info("writing analysis", zap.String("path", path))
	}
	return writeReport(w, &out, cfg.Output.Format)
}

func writeReport(w io.Writer, r *report, format string) error {
	if format == "text" {
		_, err := io.WriteString(w, renderSummary(w, &r.AnalysisResult, r.Documents))
		return err
	}
	return writeStructured(w, r, format)
}

// resolveWorkspace maps a workspace name or path under root to its
// absolute directory.
func resolveWorkspace(root, name string) (string, error) {
	c, err := probe.New(root, probe.WithLogger(logger))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", scanner.ErrNotDirectory, root, err)
	}
	rel, err := workspace.ResolvePackagePath(c, workspace.Detect(c), name)
	if err != nil {
		return "", err
	}
	logger.Debug("workspace resolved", zap.String("name", name), zap.String("path", rel))
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}
