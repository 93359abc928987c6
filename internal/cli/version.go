package cli

import (
	"fmt"

	"github.com/andywolf/stackprobe/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including commit hash and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if format, _ := cmd.Flags().GetString("format"); format != "" && format != "text" {
			return writeStructured(out, version.Get(), format)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			fmt.Fprintln(out, version.Full())
		} else {
			fmt.Fprintln(out, version.Info())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "print verbose version information")
	versionCmd.Flags().StringP("format", "f", "", "print build metadata as json or yaml (text is the default line)")
	rootCmd.AddCommand(versionCmd)
}
