package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	settingsPath string
	buttonsPath  string
)

var rootCmd = &cobra.Command{
	Use:   "buttonlauncher",
	Short: "Launch configured actions from a grid of buttons",
	Long: `buttonlauncher reads a JSON list of buttons, each bound to one action
(open a folder, run a program or script, copy text, open a URL), keeps it in
sync with the file on disk and runs actions on request.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("buttonlauncher %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "~/.config/buttonlauncher/config.toml", "path to settings file")
	rootCmd.PersistentFlags().StringVar(&buttonsPath, "buttons", "", "path to buttons file (overrides settings)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
