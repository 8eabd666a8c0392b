package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"podkeep/config"
	"podkeep/db"
)

var migrateCmd = &cli.Command{
	Name:  "migrate",
	Usage: "Run database migrations",
	Description: `Runs database migrations on the configured database. Will create the
database file if it does not exist. Every other command migrates on
open, so this mainly serves provisioning scripts.`,
	Flags: storeFlags(),
	Action: func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String("config"))
		if err != nil {
			return err
		}
		database := databasePath(ctx, cfg)

		log.WithField("database", database).Info("Running migrations")
		return db.Migrate(database)
	},
}

var rollbackCmd = &cli.Command{
	Name:  "rollback",
	Usage: "Roll back the last database migration",
	Flags: storeFlags(),
	Action: func(ctx *cli.Context) error {
		cfg, err := config.Load(ctx.String("config"))
		if err != nil {
			return err
		}
		database := databasePath(ctx, cfg)

		log.WithField("database", database).Info("Rolling back last migration")
		return db.Rollback(database)
	},
}
