package main

import (
	"context"
	"fmt"
	"time"

	"donationhub/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/kelseyhightower/envconfig"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the environment. Variables carrying the --env-prefix win
// over their unprefixed names.
func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.JWTSecret == "" {
		return nil, fmt.Errorf("set JWT_SECRET")
	}

	applyDefaults(c)

	return c, nil
}

// applyDefaults replaces zero values that would leave the server unusable,
// such as a store timeout that expires immediately.
func applyDefaults(c *types.Config) {
	if c.ServerPort == 0 {
		c.ServerPort = 5000
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.StoreTimeoutSec == 0 {
		c.StoreTimeoutSec = 5
	}

	if c.ShutdownTimeoutSec == 0 {
		c.ShutdownTimeoutSec = 10
	}

	if c.TokenExpiry <= 0 {
		c.TokenExpiry = 24 * time.Hour
	}

	if c.LeaderboardLimit <= 0 {
		c.LeaderboardLimit = 10
	}
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}
