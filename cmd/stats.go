package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"podkeep/db"
	"podkeep/models"
	"podkeep/stats"
)

var topEpisodesCmd = &cli.Command{
	Name:      "top-episodes",
	Usage:     "Rank a podcast's episodes by listens",
	ArgsUsage: "<podcast-id>",
	Description: `Prints the most listened-to episodes of a podcast, most popular
first. Ties go to the newest publish time. Drafts count too: popularity
is about listens, not visibility.`,
	Flags: storeFlags(
		jsonFlag(),
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "How many episodes to show",
			Value:   10,
		},
	),
	Action: func(ctx *cli.Context) error {
		podcastID, err := firstArg(ctx, "podcastId")
		if err != nil {
			return err
		}

		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		episodes, err := store.ListEpisodes(ctx.Context, podcastID)
		if err != nil {
			return err
		}

		top, err := stats.TopEpisodes(episodes, ctx.Int("limit"))
		if err != nil {
			return err
		}

		if ctx.Bool("json") {
			if top == nil {
				top = []models.Episode{}
			}
			return writeJSON(os.Stdout, top)
		}

		rows := lo.Map(top, func(e models.Episode, _ int) []string {
			return []string{
				e.ID,
				e.Title,
				publishedCell(e),
				strconv.FormatInt(e.ListenCount, 10),
				strconv.FormatInt(e.DownloadCount, 10),
			}
		})
		_, err = os.Stdout.WriteString(renderTable(
			[]string{"ID", "Title", "Published", "Listens", "Downloads"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
		) + "\n")
		return err
	},
}

var recordListenCmd = &cli.Command{
	Name:      "record-listen",
	Usage:     "Record listens for an episode",
	ArgsUsage: "<episode-id>",
	Description: `Adds to an episode's listen counter and prints the updated record
as JSON. Use --count to record several listens at once.`,
	Flags: storeFlags(countFlag()),
	Action: func(ctx *cli.Context) error {
		return recordCounter(ctx, stats.AddListens, (*db.Store).IncrementListen)
	},
}

var recordDownloadCmd = &cli.Command{
	Name:      "record-download",
	Usage:     "Record downloads for an episode",
	ArgsUsage: "<episode-id>",
	Description: `Adds to an episode's download counter and prints the updated record
as JSON. Use --count to record several downloads at once.`,
	Flags: storeFlags(countFlag()),
	Action: func(ctx *cli.Context) error {
		return recordCounter(ctx, stats.AddDownloads, (*db.Store).IncrementDownload)
	},
}

func countFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:  "count",
		Usage: "How many plays to record",
		Value: 1,
	}
}

// recordCounter persists the increment in one statement, then applies
// the same arithmetic to the already loaded record for the echo, so no
// second read races a concurrent writer.
func recordCounter(
	ctx *cli.Context,
	record func(models.Episode, int64) models.Episode,
	increment func(*db.Store, context.Context, string, int64) error,
) error {
	episodeID, err := firstArg(ctx, "episodeId")
	if err != nil {
		return err
	}
	count := ctx.Int64("count")
	if count < 1 {
		return &models.ValidationError{Field: "count", Reason: "must be at least 1"}
	}

	store, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	episode, err := store.GetEpisode(ctx.Context, episodeID)
	if err != nil {
		return err
	}

	if err := increment(store, ctx.Context, episodeID, count); err != nil {
		return err
	}

	return writeJSON(os.Stdout, record(episode, count))
}

var statsCmd = &cli.Command{
	Name:      "stats",
	Usage:     "Show a podcast's aggregate counters",
	ArgsUsage: "<podcast-id>",
	Flags:     storeFlags(jsonFlag()),
	Action: func(ctx *cli.Context) error {
		podcastID, err := firstArg(ctx, "podcastId")
		if err != nil {
			return err
		}

		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		podcastStats, err := store.PodcastStats(ctx.Context, podcastID)
		if err != nil {
			return err
		}

		if ctx.Bool("json") {
			return writeJSON(os.Stdout, podcastStats)
		}

		rows := [][]string{{
			podcastStats.PodcastID,
			strconv.FormatInt(podcastStats.EpisodeCount, 10),
			strconv.FormatInt(podcastStats.TotalListens, 10),
			strconv.FormatInt(podcastStats.TotalDownloads, 10),
		}}
		_, err = os.Stdout.WriteString(renderTable(
			[]string{"Podcast", "Episodes", "Listens", "Downloads"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
		) + "\n")
		return err
	},
}
