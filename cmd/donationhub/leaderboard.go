package main

import (
	"context"
	"fmt"

	"donationhub/internal/db"
	"donationhub/internal/leaderboard"
	"donationhub/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var leaderboardCommand = &cli.Command{
	Name:  "leaderboard",
	Usage: "Recompute and print the top donors",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"l"},
			Usage:   "Number of donors to rank (defaults to LEADERBOARD_LIMIT)",
		},
		&cli.BoolFlag{
			Name:  "cached",
			Usage: "Print the stored snapshot without recomputing",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		pipeline := leaderboard.NewPipeline(
			store.NewDonationRepository(pool),
			store.NewTopDonorRepository(pool),
			nil,
		)

		if c.Bool("cached") {
			donors, err := pipeline.Snapshot(ctx)
			if err != nil {
				return err
			}
			pp.Println(donors)
			return nil
		}

		limit := c.Int("limit")
		if limit == 0 {
			limit = cfg.LeaderboardLimit
		}

		donors, err := pipeline.RecomputeAndFetch(ctx, limit)
		if err != nil {
			return err
		}

		pp.Println(donors)
		return nil
	},
}
