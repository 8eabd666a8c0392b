package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"podkeep/models"
)

var addEpisodeCmd = &cli.Command{
	Name:      "add-episode",
	Usage:     "Add an episode to a podcast",
	ArgsUsage: "<podcast-id>",
	Description: `Adds an episode and prints the stored record as JSON. An episode
without --published-at is a draft: it is listed, but never rendered into
the feed until a publish time is set.`,
	Flags: storeFlags(
		&cli.StringFlag{
			Name:     "title",
			Usage:    "Episode title",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Episode show notes",
		},
		&cli.StringFlag{
			Name:     "audio-url",
			Usage:    "URL of the MP3 enclosure",
			Required: true,
		},
		&cli.Int64Flag{
			Name:  "audio-size",
			Usage: "Enclosure size in bytes (0 when unknown)",
		},
		&cli.Int64Flag{
			Name:  "duration",
			Usage: "Episode length in seconds",
		},
		&cli.IntFlag{
			Name:  "season",
			Usage: "Season number",
		},
		&cli.IntFlag{
			Name:  "episode",
			Usage: "Episode number within the season",
		},
		&cli.BoolFlag{
			Name:  "explicit",
			Usage: "Mark the episode as explicit",
		},
		&cli.StringFlag{
			Name:  "published-at",
			Usage: "Publish time, RFC 3339 (omit to keep the episode a draft)",
		},
	),
	Action: func(ctx *cli.Context) error {
		podcastID, err := firstArg(ctx, "podcastId")
		if err != nil {
			return err
		}

		var publishedAt *time.Time
		if raw := ctx.String("published-at"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return &models.ValidationError{
					Field:  "publishedAt",
					Reason: "must be RFC 3339, e.g. 2026-01-02T15:04:05Z",
				}
			}
			utc := t.UTC()
			publishedAt = &utc
		}

		episode := models.Episode{
			ID:           uuid.NewString(),
			PodcastID:    podcastID,
			Title:        ctx.String("title"),
			Description:  ctx.String("description"),
			AudioURL:     ctx.String("audio-url"),
			AudioSize:    ctx.Int64("audio-size"),
			DurationSecs: ctx.Int64("duration"),
			Explicit:     ctx.Bool("explicit"),
			PublishedAt:  publishedAt,
			CreatedAt:    time.Now().UTC(),
		}
		if ctx.IsSet("season") {
			season := ctx.Int("season")
			episode.Season = &season
		}
		if ctx.IsSet("episode") {
			number := ctx.Int("episode")
			episode.EpisodeNum = &number
		}

		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.CreateEpisode(ctx.Context, episode); err != nil {
			return err
		}

		return writeJSON(os.Stdout, episode)
	},
}

var listEpisodesCmd = &cli.Command{
	Name:      "list-episodes",
	Usage:     "List a podcast's episodes, drafts included",
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

		episodes, err := store.ListEpisodes(ctx.Context, podcastID)
		if err != nil {
			return err
		}

		if ctx.Bool("json") {
			if episodes == nil {
				episodes = []models.Episode{}
			}
			return writeJSON(os.Stdout, episodes)
		}

		rows := lo.Map(episodes, func(e models.Episode, _ int) []string {
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

func publishedCell(e models.Episode) string {
	if e.PublishedAt == nil {
		return "draft"
	}
	return e.PublishedAt.UTC().Format(time.RFC3339)
}
