package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/yigit/studentrecords/internal/bootstrap"
	"github.com/yigit/studentrecords/internal/config"
	"github.com/yigit/studentrecords/internal/db"
	"github.com/yigit/studentrecords/internal/pkg/logger"
	"github.com/yigit/studentrecords/internal/seed"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("studentctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "studentctl",
		Usage: "administer the student records database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   bootstrap.DefaultConfigPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations",
				Action: migrateAction,
			},
			{
				Name:   "bootstrap-admin",
				Usage:  "create the admin account or reset its profile and password",
				Action: bootstrapAdminAction,
			},
			{
				Name:   "logins",
				Usage:  "print the login log",
				Action: loginsAction,
			},
			{
				Name:  "env",
				Usage: "list the environment variables that override the configuration file",
				Action: func(c *cli.Context) error {
					usage, err := config.Usage()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(c.App.Writer, usage)
					return err
				},
			},
		},
	}
}

// connect loads configuration and opens the pool without migrating
func connect(c *cli.Context) (*config.Config, *db.PostgresDB, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, nil, err
	}
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, nil, err
	}
	return cfg, database, nil
}

func migrateAction(c *cli.Context) error {
	cfg, database, err := connect(c)
	if err != nil {
		return err
	}
	defer database.Close()

	applied, err := bootstrap.RunMigrations(c.Context, database, cfg, logger.Get())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%d migration(s) applied\n", applied)
	return err
}

func bootstrapAdminAction(c *cli.Context) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return err
	}
	database, err := bootstrap.SetupDatabase(c.Context, cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	deps := bootstrap.BuildDependencies(cfg, database, lgr)
	return seed.EnsureAdmin(c.Context, deps.AuthService, lgr)
}

func loginsAction(c *cli.Context) error {
	cfg, database, err := connect(c)
	if err != nil {
		return err
	}
	defer database.Close()

	deps := bootstrap.BuildDependencies(cfg, database, logger.Get())

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()
	events, err := deps.AuthService.ListLogins(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tLOGIN TIME")
	for _, event := range events {
		fmt.Fprintf(w, "%d\t%s\t%s\n", event.ID, event.Username, event.LoginTime.Format(time.RFC3339))
	}
	return w.Flush()
}
