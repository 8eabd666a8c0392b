package cmd

import (
	"github.com/urfave/cli/v2"

	"podkeep/config"
	"podkeep/db"
	"podkeep/models"
)

// configFlag and databaseFlag return fresh flag instances; urfave/cli
// flags carry parse state, so commands must not share them.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the podkeep configuration file",
		EnvVars: []string{"PODKEEP_CONFIG"},
		Value:   config.DefaultPath(),
	}
}

func databaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Usage:   "SQLite database file (defaults to the configured path)",
		EnvVars: []string{"PODKEEP_DATABASE"},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Print machine-readable JSON instead of a table",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the document to this file instead of stdout",
	}
}

// storeFlags are the flags every command touching the database takes.
func storeFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{configFlag(), databaseFlag()}, extra...)
}

// openStore loads the configuration and opens the store the command
// will work against. The --database flag wins over the config file.
func openStore(ctx *cli.Context) (*db.Store, config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, config.Config{}, err
	}

	store, err := db.Open(databasePath(ctx, cfg))
	if err != nil {
		return nil, config.Config{}, err
	}

	return store, cfg, nil
}

func databasePath(ctx *cli.Context, cfg config.Config) string {
	if database := ctx.String("database"); database != "" {
		return database
	}
	return cfg.Database
}

// firstArg returns the required positional argument or a validation
// error naming the field, so usage mistakes read like data mistakes.
func firstArg(ctx *cli.Context, field string) (string, error) {
	arg := ctx.Args().First()
	if arg == "" {
		return "", &models.ValidationError{Field: field, Reason: "must be given as the first argument"}
	}
	return arg, nil
}
