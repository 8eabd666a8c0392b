// Package cmd wires up the podkeep command line interface.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// RootApp is the root command of podkeep.
func RootApp() *cli.App {
	app := &cli.App{
		Name:  "podkeep",
		Usage: "Manage a podcast catalog and its feed exports",
		Description: `podkeep keeps podcast and episode metadata in a local SQLite
database and renders it into the two documents podcast apps understand:
an Apple Podcasts-compatible RSS 2.0 feed per show and an OPML 2.0
subscription list for the whole catalog. It also tracks per-episode
listen and download counters for top-episode reports.

Documents and records go to stdout; logs go to stderr, so output can be
piped or redirected safely.

Most flags can also be set via environment variables, e.g.:

--database  => PODKEEP_DATABASE=podkeep.db
--config    => PODKEEP_CONFIG=config.toml
--log-level => PODKEEP_LOG_LEVEL=debug`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log verbosity: debug, info, warn or error",
				EnvVars: []string{"PODKEEP_LOG_LEVEL"},
				Value:   "info",
			},
		},
		Before: func(ctx *cli.Context) error {
			// Keep stdout clean for documents and JSON records.
			log.SetOutput(os.Stderr)
			level, err := log.ParseLevel(ctx.String("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
		Commands: []*cli.Command{
			createPodcastCmd,
			addEpisodeCmd,
			listPodcastsCmd,
			listEpisodesCmd,
			rssCmd,
			opmlCmd,
			topEpisodesCmd,
			recordListenCmd,
			recordDownloadCmd,
			statsCmd,
			importCmd,
			migrateCmd,
			rollbackCmd,
		},
	}

	return app
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
