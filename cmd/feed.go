package cmd

import (
	"github.com/urfave/cli/v2"

	"podkeep/feeds"
)

var rssCmd = &cli.Command{
	Name:      "rss",
	Usage:     "Render a podcast's RSS 2.0 feed",
	ArgsUsage: "<podcast-id>",
	Description: `Renders the Apple Podcasts-compatible RSS 2.0 document for one
podcast, newest episode first. Drafts are left out. The document goes to
stdout unless --output names a file.`,
	Flags: storeFlags(outputFlag()),
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

		podcast, err := store.GetPodcast(ctx.Context, podcastID)
		if err != nil {
			return err
		}
		episodes, err := store.PublishedEpisodes(ctx.Context, podcastID)
		if err != nil {
			return err
		}

		document, err := feeds.Render(podcast, episodes)
		if err != nil {
			return err
		}

		return writeDocument(ctx, document)
	},
}

var opmlCmd = &cli.Command{
	Name:  "opml",
	Usage: "Export the whole catalog as an OPML subscription list",
	Description: `Exports every podcast as an OPML 2.0 outline, ordered by title. The
list title comes from the configuration; an empty catalog still yields a
valid document.`,
	Flags: storeFlags(outputFlag()),
	Action: func(ctx *cli.Context) error {
		store, cfg, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		podcasts, err := store.ListPodcasts(ctx.Context)
		if err != nil {
			return err
		}

		document, err := feeds.ExportOPML(cfg.OPMLTitle, podcasts)
		if err != nil {
			return err
		}

		return writeDocument(ctx, document)
	},
}
