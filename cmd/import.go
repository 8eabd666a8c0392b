package cmd

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"podkeep/importer"
	"podkeep/models"
)

var importCmd = &cli.Command{
	Name:      "import",
	Usage:     "Import a podcast from an existing RSS feed",
	ArgsUsage: "<feed-url>",
	Description: `Fetches a public RSS feed and creates a podcast plus one episode per
item with a usable enclosure. Counters start at zero; the created
podcast record is printed as JSON.`,
	Flags: storeFlags(),
	Action: func(ctx *cli.Context) error {
		feedURL, err := firstArg(ctx, "feedUrl")
		if err != nil {
			return err
		}

		store, cfg, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		feed, err := importer.Fetch(ctx.Context, feedURL, importer.Options{
			Timeout:    cfg.ImportTimeout(),
			UserAgent:  cfg.Import.UserAgent,
			MaxRetries: uint64(cfg.Import.MaxRetries),
		})
		if err != nil {
			return err
		}

		podcast, episodes := importer.Map(feed, feedURL, time.Now().UTC())
		if podcast.Category == "" {
			podcast.Category = cfg.DefaultCategory
		}

		if err := store.CreatePodcast(ctx.Context, podcast); err != nil {
			return err
		}

		imported := 0
		for _, episode := range episodes {
			if err := store.CreateEpisode(ctx.Context, episode); err != nil {
				if models.IsValidation(err) {
					log.WithFields(log.Fields{
						"episode": episode.Title,
					}).WithError(err).Warn("Skipping episode")
					continue
				}
				return err
			}
			imported++
		}

		log.WithFields(log.Fields{
			"podcast":  podcast.ID,
			"title":    podcast.Title,
			"episodes": imported,
		}).Info("Imported feed")

		return writeJSON(os.Stdout, podcast)
	},
}
