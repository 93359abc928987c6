package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andywolf/stackprobe/internal/agentmd"
	"github.com/andywolf/stackprobe/internal/config"
	"github.com/andywolf/stackprobe/internal/probe"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs [path]",
	Short: "Show the project's rules document, README and agent files",
	Long: `Parse the rules document (CLAUDE.md and friends), the README, and any
agent or skill definitions found in the project.

With --render, the rules document is normalized into Rules, Conventions,
Warnings, Must Do and Prefer sections and rendered as markdown.

Examples:
  stackprobe docs
  stackprobe docs ./service --format yaml
  stackprobe docs --render`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDocs,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringP("format", "f", "", "Output format (json, yaml); defaults to output.format")
	docsCmd.Flags().Bool("render", false, "Render the normalized rules document for the terminal")
	docsCmd.Flags().Int("width", 80, "Word wrap width for --render")
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, _ = filepath.Abs(root)

	c, err := probe.New(root, probe.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", root, err)
	}
	docs := agentmd.Load(c)

	w := cmd.OutOrStdout()
	if render, _ := cmd.Flags().GetBool("render"); render {
		width, _ := cmd.Flags().GetInt("width")
		return renderRules(w, docs.ClaudeMd, width)
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" || format == "text" {
		format = cfg.Output.Format
	}
	if format == "text" {
		format = "yaml"
	}
	return writeStructured(w, docs, format)
}

// renderRules writes the normalized rules document through glamour.
// Colors are only used when w is a terminal.
func renderRules(w io.Writer, rules *agentmd.ClaudeMdContent, width int) error {
	if rules == nil {
		_, err := fmt.Fprintln(w, "No rules document found.")
		return err
	}

	style := glamour.WithStandardStyle(styles.NoTTYStyle)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(fmt.Sprintf("# %s\n\n%s", rules.Path, rules.Render()))
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", rules.Path, err)
	}
	_, err = io.WriteString(w, out)
	return err
}
