package cmd

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"podkeep/models"
)

var createPodcastCmd = &cli.Command{
	Name:  "create-podcast",
	Usage: "Create a podcast",
	Description: `Creates a podcast and prints the stored record as JSON. Title and
feed URL are required; category and language fall back to the configured
defaults when omitted.`,
	Flags: storeFlags(
		&cli.StringFlag{
			Name:     "title",
			Usage:    "Podcast title",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "author",
			Usage: "Podcast author",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Podcast description",
		},
		&cli.StringFlag{
			Name:     "feed-url",
			Usage:    "Public URL the feed will be served from",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "image-url",
			Usage: "Cover art URL",
		},
		&cli.StringFlag{
			Name:  "category",
			Usage: "iTunes category (defaults to the configured category)",
		},
		&cli.StringFlag{
			Name:  "language",
			Usage: "ISO 639 language code (defaults to the configured language)",
		},
		&cli.BoolFlag{
			Name:  "explicit",
			Usage: "Mark the show as explicit",
		},
	),
	Action: func(ctx *cli.Context) error {
		store, cfg, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		podcast := models.Podcast{
			ID:          uuid.NewString(),
			Title:       ctx.String("title"),
			Author:      ctx.String("author"),
			Description: ctx.String("description"),
			FeedURL:     ctx.String("feed-url"),
			ImageURL:    ctx.String("image-url"),
			Category:    ctx.String("category"),
			Explicit:    ctx.Bool("explicit"),
			Language:    ctx.String("language"),
			CreatedAt:   time.Now().UTC(),
		}
		if podcast.Category == "" {
			podcast.Category = cfg.DefaultCategory
		}
		if podcast.Language == "" {
			podcast.Language = cfg.DefaultLanguage
		}

		if err := store.CreatePodcast(ctx.Context, podcast); err != nil {
			return err
		}

		return writeJSON(os.Stdout, podcast)
	},
}

var listPodcastsCmd = &cli.Command{
	Name:  "list-podcasts",
	Usage: "List every podcast in the catalog",
	Flags: storeFlags(jsonFlag()),
	Action: func(ctx *cli.Context) error {
		store, _, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		podcasts, err := store.ListPodcasts(ctx.Context)
		if err != nil {
			return err
		}

		if ctx.Bool("json") {
			if podcasts == nil {
				podcasts = []models.Podcast{}
			}
			return writeJSON(os.Stdout, podcasts)
		}

		rows := lo.Map(podcasts, func(p models.Podcast, _ int) []string {
			return []string{p.ID, p.Title, p.Author, p.Category, p.FeedURL}
		})
		_, err = os.Stdout.WriteString(renderTable(
			[]string{"ID", "Title", "Author", "Category", "Feed URL"},
			rows,
			nil,
		) + "\n")
		return err
	},
}
