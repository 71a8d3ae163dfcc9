package main

import (
	"fmt"

	"donationhub/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply pending database migrations",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		version, err := db.Migrate(cfg)
		if err != nil {
			return err
		}

		logrus.WithField("version", version).Info("database migrated")
		return nil
	},
}
