package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andywolf/stackprobe/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize project configuration",
	Long: `Initialize stackprobe configuration for a project.

This creates a ` + config.FileName + ` file with the default settings that you
can customize.

Example:
  stackprobe init
  stackprobe init --format yaml --exclude generated,fixtures`,
	Args: cobra.MaximumNArgs(1),
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("format", "json", "Default output format (json, yaml, text)")
	initCmd.Flags().Int("max-workers", 0, "Concurrent workspace scans")
	initCmd.Flags().StringSlice("exclude", nil, "Directory names to skip")
	initCmd.Flags().StringSlice("source-dir", nil, "Extra source directory candidates")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

const configHeader = `# stackprobe configuration
# Every key can be overridden with a STACKPROBE_ environment variable,
# e.g. STACKPROBE_ANALYSIS_MAX_WORKERS=8.

`

func initProject(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	configPath := filepath.Join(dir, config.FileName)

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	cfg := config.Default()

	// Get values from flags or defaults
	cfg.Output.Format, _ = cmd.Flags().GetString("format")
	if n, _ := cmd.Flags().GetInt("max-workers"); n != 0 {
		cfg.Analysis.MaxWorkers = n
	}
	if dirs, _ := cmd.Flags().GetStringSlice("exclude"); len(dirs) > 0 {
		cfg.Analysis.ExcludeDirs = dirs
	}
	if dirs, _ := cmd.Flags().GetStringSlice("source-dir"); len(dirs) > 0 {
		cfg.Analysis.SourceDirs = dirs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Add generated or vendored directories to analysis.exclude_dirs")
	fmt.Fprintln(out, "  2. Run 'stackprobe analyze' to inspect the project")

	return nil
}
