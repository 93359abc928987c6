package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/andywolf/stackprobe/internal/config"
	"github.com/andywolf/stackprobe/internal/logging"
	"github.com/andywolf/stackprobe/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	configErr error
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "stackprobe",
	Short: "stackprobe - Detect a project's stack, layout and conventions",
	Long: `stackprobe inspects a source tree without running anything in it.

It reports the languages, frameworks, test frameworks and package managers in
use, walks monorepo workspaces, classifies naming and directory layout, and
reads existing rules documents and agent definitions.

Example:
  stackprobe analyze ./myapp --format yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		l, err := logging.New(viper.GetBool("verbose"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command; ctx cancels a running analysis.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.FileName+")")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging on stderr")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	configErr = nil
	v := viper.GetViper()
	config.Configure(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			configErr = fmt.Errorf("failed to get working directory: %w", err)
			return
		}

		v.AddConfigPath(cwd)
		v.SetConfigType("yaml")
		v.SetConfigName(config.FileBase)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit --config must exist; the default file is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("failed to read config: %w", err)
		}
		return
	}
	if v.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}
