package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/runger/casts/internal/library"
)

var (
	demoFeeds    int
	demoEpisodes int
	demoSeed     uint64
)

var demoCmd = &cobra.Command{
	Use:     "demo",
	Short:   "Fill the library with generated feeds and episodes",
	GroupID: groupSetup,
	Long: `Fill the library with generated feeds and episodes, for trying out
scrolling through large feeds.

Examples:
  casts demo                              # 5 feeds, 500 episodes each
  casts demo --feeds 2 --episodes 20000   # Two very large feeds`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoFeeds, "feeds", 5, "number of feeds to create")
	demoCmd.Flags().IntVar(&demoEpisodes, "episodes", 500, "episodes per feed")
	demoCmd.Flags().Uint64Var(&demoSeed, "seed", 1, "random seed for durations and statuses")
	rootCmd.AddCommand(demoCmd)
}

var demoTopics = []string{
	"Systems", "Gardening", "History", "Chess", "Astronomy",
	"Cooking", "Jazz", "Databases", "Cycling", "Linguistics",
}

func runDemo(cmd *cobra.Command, args []string) error {
	if demoFeeds <= 0 || demoEpisodes < 0 {
		return fmt.Errorf("--feeds must be positive and --episodes must not be negative")
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	n, err := seedDemo(context.Background(), env.store, demoFeeds, demoEpisodes, demoSeed)
	if err != nil {
		return err
	}

	fmt.Printf("%sCreated%s %d feed(s) with %s episode(s)\n", colorGreen, colorReset, demoFeeds, humanize.Comma(int64(n)))
	return nil
}

// seedDemo adds feeds with generated episodes and returns the number of
// episodes created. Episodes are published an hour apart, newest now.
func seedDemo(ctx context.Context, store library.Store, feeds, episodes int, seed uint64) (int, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	now := time.Now()
	created := 0

	for i := range feeds {
		topic := demoTopics[i%len(demoTopics)]
		feed := &library.Feed{
			Title:  fmt.Sprintf("%s Weekly #%d", topic, i+1),
			Source: "https://demo.invalid/" + uuid.NewString() + ".xml",
		}
		if err := store.AddFeed(ctx, feed); err != nil {
			return created, fmt.Errorf("failed to add demo feed: %w", err)
		}

		for j := range episodes {
			e := &library.Episode{
				FeedID:          feed.ID,
				Title:           fmt.Sprintf("%s episode %d", topic, episodes-j),
				MediaURL:        fmt.Sprintf("https://demo.invalid/%d/%d.mp3", feed.ID, episodes-j),
				DurationMs:      int64(10+rng.IntN(80)) * 60_000,
				PublishedUnixMs: now.Add(-time.Duration(j) * time.Hour).UnixMilli(),
				Status:          demoStatus(rng, j),
			}
			if err := store.AddEpisode(ctx, e); err != nil {
				return created, fmt.Errorf("failed to add demo episode: %w", err)
			}
			created++
		}

		if err := store.SetFeedStatus(ctx, feed.ID, library.FeedOK, ""); err != nil {
			return created, fmt.Errorf("failed to set demo feed status: %w", err)
		}
	}
	return created, nil
}

// demoStatus leaves recent episodes new and marks most older ones played.
func demoStatus(rng *rand.Rand, age int) library.EpisodeStatus {
	switch {
	case age < 5:
		return library.EpisodeNew
	case rng.IntN(10) == 0:
		return library.EpisodeStarted
	case rng.IntN(4) == 0:
		return library.EpisodeNew
	default:
		return library.EpisodePlayed
	}
}
