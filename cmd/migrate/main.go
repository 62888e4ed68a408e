package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/Sanket93s/gst-billing-system/internal/infrastructure/migration"
	"github.com/Sanket93s/gst-billing-system/migrations"
	"github.com/Sanket93s/gst-billing-system/pkg/config"
	"github.com/Sanket93s/gst-billing-system/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the billing database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "postgres connection URL (defaults to the application config)",
				EnvVars: []string{"MIGRATE_DATABASE_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migration.Migrator) error { return m.Up() })
				},
			},
			{
				Name:  "down",
				Usage: "roll back every migration",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migration.Migrator) error { return m.Down() })
				},
			},
			{
				Name:      "steps",
				Usage:     "apply N migrations, or roll back when N is negative",
				ArgsUsage: "N",
				Action: func(c *cli.Context) error {
					n, err := strconv.Atoi(c.Args().First())
					if err != nil || n == 0 {
						return cli.Exit("steps needs a non-zero integer argument", 2)
					}
					return withMigrator(c, func(m *migration.Migrator) error { return m.Steps(n) })
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migration.Migrator) error {
						version, dirty, err := m.Version()
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "version=%d dirty=%t\n", version, dirty)
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func withMigrator(c *cli.Context, fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	url := c.String("database-url")
	if url == "" {
		url = cfg.DB.ConnectionString()
	}
	m, err := migration.New(migrations.FS, url, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("close migrator")
		}
	}()
	return fn(m)
}
