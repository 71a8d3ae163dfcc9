package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"donationhub/internal/auth"
	"donationhub/internal/db"
	"donationhub/internal/leaderboard"
	"donationhub/internal/seed"
	"donationhub/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with demo users and donations",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "donations",
			Usage: "Number of demo donations to create",
			Value: 40,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Remove previously seeded donations first",
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

		logrus.Info("Connected to database")

		credentials, err := auth.New(cfg.JWTSecret, cfg.TokenExpiry, cfg.BcryptCost)
		if err != nil {
			return err
		}

		userRepo := store.NewUserRepository(pool)
		donationRepo := store.NewDonationRepository(pool)
		topDonorRepo := store.NewTopDonorRepository(pool)

		logrus.Info("Seeding users...")
		users, err := seed.SeedUsers(ctx, userRepo, credentials)
		if err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		logrus.Info("Seeding donations...")
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		if _, err := seed.SeedDonations(ctx, donationRepo, users, c.Int("donations"), c.Bool("reset"), rng); err != nil {
			return fmt.Errorf("failed to seed donations: %w", err)
		}

		donors, err := leaderboard.NewPipeline(donationRepo, topDonorRepo, nil).RecomputeAndFetch(ctx, cfg.LeaderboardLimit)
		if err != nil {
			return err
		}

		logrus.WithField("entries", len(donors)).Info("Leaderboard recomputed")
		return nil
	},
}
