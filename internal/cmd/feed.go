package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/runger/casts/internal/library"
)

// commandTimeout bounds every library call made by a subcommand.
const commandTimeout = 5 * time.Second

var feedTitle string

var feedCmd = &cobra.Command{
	Use:     "feed",
	Short:   "Manage feeds in the library",
	GroupID: groupLibrary,
}

var feedAddCmd = &cobra.Command{
	Use:   "add <source>",
	Short: "Add a feed",
	Long: `Add a feed to the library. The source is the feed URL and must be
unique. The title defaults to the source.

Examples:
  casts feed add https://example.com/feed.xml --title "Example Show"`,
	Args: cobra.ExactArgs(1),
	RunE: runFeedAdd,
}

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feeds with episode counts",
	Args:  cobra.NoArgs,
	RunE:  runFeedList,
}

var feedRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a feed and all of its episodes",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeedRemove,
}

var feedRenameCmd = &cobra.Command{
	Use:   "rename <id> <title...>",
	Short: "Change the title of a feed",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runFeedRename,
}

var feedStatusCmd = &cobra.Command{
	Use:   "status <id> <pending|ok|error> [error-code]",
	Short: "Set the update status of a feed",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runFeedStatus,
}

func init() {
	feedAddCmd.Flags().StringVar(&feedTitle, "title", "", "feed title (defaults to the source)")

	feedCmd.AddCommand(feedAddCmd, feedListCmd, feedRemoveCmd, feedRenameCmd, feedStatusCmd)
	rootCmd.AddCommand(feedCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func runFeedAdd(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	feed := &library.Feed{Title: feedTitle, Source: args[0]}
	if err := env.store.AddFeed(ctx, feed); err != nil {
		return fmt.Errorf("failed to add feed: %w", err)
	}

	fmt.Printf("%sAdded%s feed %d: %s\n", colorGreen, colorReset, feed.ID, feed.Title)
	return nil
}

func runFeedList(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	feeds, err := env.store.ListFeeds(ctx)
	if err != nil {
		return fmt.Errorf("failed to list feeds: %w", err)
	}

	if len(feeds) == 0 {
		fmt.Println("No feeds in the library.")
		fmt.Println("Tip: Use 'casts feed add <source>' or 'casts demo' to get started.")
		return nil
	}

	fmt.Printf("%s%6s  %9s  %7s  %-8s  %s%s\n", colorBold, "ID", "EPISODES", "NEW", "STATUS", "TITLE", colorReset)
	for _, f := range feeds {
		printFeed(f)
	}

	fmt.Println()
	fmt.Printf("%sShowing %d feed(s)%s\n", colorDim, len(feeds), colorReset)
	return nil
}

func printFeed(f library.FeedSummary) {
	status := string(f.Status)
	switch f.Status {
	case library.FeedOK:
		status = colorGreen + fmt.Sprintf("%-8s", status) + colorReset
	case library.FeedError:
		status = colorRed + fmt.Sprintf("%-8s", status) + colorReset
	default:
		status = colorDim + fmt.Sprintf("%-8s", status) + colorReset
	}

	fmt.Printf("%6d  %9s  %7s  %s  %s", f.FeedID,
		humanize.Comma(int64(f.EpisodeCount)),
		humanize.Comma(int64(f.NewCount)),
		status, f.Title)
	if f.ErrorCode != "" {
		fmt.Printf("  %s(%s)%s", colorDim, f.ErrorCode, colorReset)
	}
	fmt.Println()
}

func runFeedRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := env.store.RemoveFeed(ctx, id); err != nil {
		return fmt.Errorf("failed to remove feed: %w", err)
	}

	fmt.Printf("Removed feed %d\n", id)
	return nil
}

func runFeedRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	title := strings.Join(args[1:], " ")

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := env.store.RenameFeed(ctx, id, title); err != nil {
		return fmt.Errorf("failed to rename feed: %w", err)
	}

	fmt.Printf("Renamed feed %d to %s\n", id, title)
	return nil
}

func runFeedStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status := library.FeedStatus(args[1])
	if !status.Valid() {
		return fmt.Errorf("invalid feed status %q (want pending, ok or error)", args[1])
	}
	code := ""
	if len(args) == 3 {
		code = args[2]
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := env.store.SetFeedStatus(ctx, id, status, code); err != nil {
		return fmt.Errorf("failed to set feed status: %w", err)
	}

	fmt.Printf("Feed %d is now %s\n", id, status)
	return nil
}
