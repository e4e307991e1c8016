package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/runger/casts/internal/config"
	"github.com/runger/casts/internal/library"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show casts status",
	GroupID: groupSetup,
	Long: `Show the current status of casts, including:
- Configuration and rc file locations
- Library database location, size and contents
- Log file location

Examples:
  casts status`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("%sWarning:%s %v (using defaults)\n", colorYellow, colorReset, err)
		cfg = config.DefaultConfig()
	}
	if dbPathFlag != "" {
		cfg.Library.DatabasePath = dbPathFlag
	}

	fmt.Printf("%scasts Status%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))

	// Configuration
	fmt.Printf("\n%sConfiguration:%s\n", colorBold, colorReset)
	printPathStatus("File", paths.ConfigFile(), "not found, using defaults")
	printPathStatus("RC", paths.RCFile(), "not found")
	fmt.Printf("  Page size: %d\n", cfg.List.PageSize)

	// Library
	fmt.Printf("\n%sLibrary:%s\n", colorBold, colorReset)
	dbFile := cfg.DatabaseFile(paths)
	info, err := os.Stat(dbFile)
	if err != nil {
		fmt.Printf("  Database: %s (not created)\n", dbFile)
	} else {
		fmt.Printf("  Database: %s (%s)\n", dbFile, humanize.Bytes(uint64(info.Size())))
		printLibraryStatus(dbFile)
	}

	// Logs
	fmt.Printf("\n%sLogs:%s\n", colorBold, colorReset)
	printPathStatus("File", cfg.LogFile(paths), "not created")
	fmt.Printf("  Level:    %s\n", cfg.Logging.Level)

	return nil
}

func printPathStatus(label, path, missing string) {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("  %-9s %s\n", label+":", path)
	} else {
		fmt.Printf("  %-9s %s (%s)\n", label+":", path, missing)
	}
}

func printLibraryStatus(dbFile string) {
	store, err := library.Open(dbFile, nil)
	if err != nil {
		fmt.Printf("  Status:   %s%v%s\n", colorRed, err, colorReset)
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	version, err := store.SchemaVersionOf(ctx)
	if err == nil {
		fmt.Printf("  Schema:   %d\n", version)
	}
	feeds, err := store.ListFeeds(ctx)
	if err != nil {
		fmt.Printf("  Status:   %s%v%s\n", colorRed, err, colorReset)
		return
	}
	episodes, err := store.CountEpisodes(ctx, library.EpisodesQuery{})
	if err != nil {
		fmt.Printf("  Status:   %s%v%s\n", colorRed, err, colorReset)
		return
	}
	unplayed, err := store.CountEpisodes(ctx, library.EpisodesQuery{Status: library.EpisodeNew})
	if err != nil {
		fmt.Printf("  Status:   %s%v%s\n", colorRed, err, colorReset)
		return
	}

	fmt.Printf("  Feeds:    %s\n", humanize.Comma(int64(len(feeds))))
	fmt.Printf("  Episodes: %s (%s new)\n", humanize.Comma(int64(episodes)), humanize.Comma(int64(unplayed)))
}
