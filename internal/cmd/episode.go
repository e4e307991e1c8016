package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/runger/casts/internal/library"
	"github.com/runger/casts/internal/ui"
)

var (
	episodeGUID      string
	episodeURL       string
	episodeDuration  time.Duration
	episodePublished string

	episodeFeed   int64
	episodeStatus string
	episodeOffset int
	episodeLimit  int
)

var episodeCmd = &cobra.Command{
	Use:     "episode",
	Short:   "Manage episodes in the library",
	GroupID: groupLibrary,
}

var episodeAddCmd = &cobra.Command{
	Use:   "add <feed-id> <title...>",
	Short: "Add an episode to a feed",
	Long: `Add an episode to a feed. A GUID is generated when --guid is not given.

Examples:
  casts episode add 1 "Pilot" --duration 42m --published 2024-05-01`,
	Args: cobra.MinimumNArgs(2),
	RunE: runEpisodeAdd,
}

var episodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List episodes, newest first",
	Long: `List episodes, newest first, one page at a time.

Examples:
  casts episode list                       # First 20 episodes of all feeds
  casts episode list --feed 3 --offset 20  # Second page of feed 3
  casts episode list --status new          # Unplayed episodes`,
	Args: cobra.NoArgs,
	RunE: runEpisodeList,
}

var episodeMarkCmd = &cobra.Command{
	Use:   "mark <id> <new|started|played>",
	Short: "Set the listening status of an episode",
	Args:  cobra.ExactArgs(2),
	RunE:  runEpisodeMark,
}

func init() {
	episodeAddCmd.Flags().StringVar(&episodeGUID, "guid", "", "unique id within the feed (generated when empty)")
	episodeAddCmd.Flags().StringVar(&episodeURL, "url", "", "media URL")
	episodeAddCmd.Flags().DurationVar(&episodeDuration, "duration", 0, "episode length, e.g. 42m")
	episodeAddCmd.Flags().StringVar(&episodePublished, "published", "", "publication date (RFC 3339 or YYYY-MM-DD, default now)")

	episodeListCmd.Flags().Int64Var(&episodeFeed, "feed", 0, "only episodes of this feed")
	episodeListCmd.Flags().StringVar(&episodeStatus, "status", "", "only episodes with this status")
	episodeListCmd.Flags().IntVar(&episodeOffset, "offset", 0, "number of episodes to skip")
	episodeListCmd.Flags().IntVarP(&episodeLimit, "limit", "n", 20, "maximum number of episodes to show")

	episodeCmd.AddCommand(episodeAddCmd, episodeListCmd, episodeMarkCmd)
	rootCmd.AddCommand(episodeCmd)
}

// parsePublished accepts RFC 3339 timestamps and plain dates.
func parsePublished(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --published %q (want RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

func runEpisodeAdd(cmd *cobra.Command, args []string) error {
	feedID, err := parseID(args[0])
	if err != nil {
		return err
	}
	published, err := parsePublished(episodePublished)
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

	e := &library.Episode{
		FeedID:          feedID,
		GUID:            episodeGUID,
		Title:           strings.Join(args[1:], " "),
		MediaURL:        episodeURL,
		DurationMs:      episodeDuration.Milliseconds(),
		PublishedUnixMs: published.UnixMilli(),
	}
	if err := env.store.AddEpisode(ctx, e); err != nil {
		return fmt.Errorf("failed to add episode: %w", err)
	}

	fmt.Printf("%sAdded%s episode %d: %s\n", colorGreen, colorReset, e.ID, e.Title)
	return nil
}

func runEpisodeList(cmd *cobra.Command, args []string) error {
	if episodeOffset < 0 {
		return fmt.Errorf("--offset must not be negative")
	}
	if episodeLimit <= 0 || episodeLimit > library.MaxQueryCount {
		return fmt.Errorf("--limit must be between 1 and %d", library.MaxQueryCount)
	}

	query := library.EpisodesQuery{}
	if episodeFeed != 0 {
		query = library.ForFeed(episodeFeed)
	}
	if episodeStatus != "" {
		status, err := library.ParseEpisodeStatus(episodeStatus)
		if err != nil {
			return err
		}
		query.Status = status
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	total, err := env.store.CountEpisodes(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to count episodes: %w", err)
	}
	episodes, err := env.store.QueryEpisodes(ctx, query, episodeOffset, episodeLimit)
	if err != nil {
		return fmt.Errorf("failed to query episodes: %w", err)
	}

	if len(episodes) == 0 {
		if total == 0 {
			fmt.Println("No episodes found.")
		} else {
			fmt.Printf("No episodes past offset %d (%s in total).\n", episodeOffset, humanize.Comma(int64(total)))
		}
		return nil
	}

	width := terminalWidth()
	for _, e := range episodes {
		printEpisode(e, width)
	}

	fmt.Println()
	fmt.Printf("%sShowing %d-%d of %s episode(s)%s\n", colorDim,
		episodeOffset+1, episodeOffset+len(episodes), humanize.Comma(int64(total)), colorReset)
	return nil
}

func printEpisode(e library.EpisodeSummary, width int) {
	published := "-"
	if !e.Published().IsZero() {
		published = humanize.Time(e.Published())
	}

	status := string(e.Status)
	switch e.Status {
	case library.EpisodeNew:
		status = colorCyan + fmt.Sprintf("%-7s", status) + colorReset
	case library.EpisodeStarted:
		status = colorYellow + fmt.Sprintf("%-7s", status) + colorReset
	default:
		status = colorDim + fmt.Sprintf("%-7s", status) + colorReset
	}

	prefix := fmt.Sprintf("%6d  %s  %-14s  %8s  ", e.EpisodeID, status, published, formatDurationMs(e.DurationMs))
	title := ui.Clean(e.FeedTitle) + ": " + ui.Clean(e.Title)
	// Width of the prefix without color codes.
	room := max(width-43, 10)
	if runewidth.StringWidth(title) > room {
		title = ui.MiddleTruncate(title, room)
	}
	fmt.Println(prefix + title)
}

func formatDurationMs(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	if ms < 60000 {
		return fmt.Sprintf("%ds", ms/1000)
	}
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60000
	if hours > 0 {
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%dm%02ds", minutes, seconds)
}

func runEpisodeMark(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	status, err := library.ParseEpisodeStatus(args[1])
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

	if err := env.store.MarkEpisode(ctx, id, status); err != nil {
		return fmt.Errorf("failed to mark episode: %w", err)
	}

	fmt.Printf("Episode %d is now %s\n", id, status)
	return nil
}
