package cmd

import (
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	groupLibrary = "library"
	groupSetup   = "setup"
)

// dbPathFlag overrides the configured library database.
var dbPathFlag string

var rootCmd = &cobra.Command{
	Use:   "casts",
	Short: "Browse a podcast library in the terminal",
	Long: `casts - a terminal browser for large podcast libraries
  - feeds on the left, their episodes on the right
  - episodes are paged in from the library as you scroll
  - ':' opens the command prompt, ~/.config/casts/rc runs at start-up`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyColorMode()
	},
	RunE: runBrowser,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupLibrary, Title: "Library Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "library database file (overrides config)")

	rootCmd.AddCommand(versionCmd)
}
