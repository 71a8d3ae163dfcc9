package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donationhub/internal/auth"
	"donationhub/internal/db"
	"donationhub/internal/leaderboard"
	"donationhub/internal/metrics"
	"donationhub/internal/server"
	"donationhub/internal/storage"
	"donationhub/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	if config.Environment == "development" {
		logger.SetLevel(logrus.DebugLevel)
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	credentials, err := auth.New(config.JWTSecret, config.TokenExpiry, config.BcryptCost)
	if err != nil {
		return err
	}

	appMetrics := metrics.New()

	userRepo := store.NewUserRepository(pool)
	donationRepo := store.NewDonationRepository(pool)
	topDonorRepo := store.NewTopDonorRepository(pool)
	commentRepo := store.NewCommentRepository(pool)
	volunteerRepo := store.NewVolunteerRepository(pool)

	pipeline := leaderboard.NewPipeline(donationRepo, topDonorRepo, appMetrics)

	// A typed nil would register the image route with no store behind it
	var images server.ImageStore
	if config.S3Bucket != "" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		images = storage.NewImageStore(s3.NewFromConfig(awsConfig), config.S3Bucket, config.S3PublicBaseURL)
		logger.WithField("bucket", config.S3Bucket).Info("donation image uploads enabled")
	}

	srv, err := server.New(
		config,
		logger,
		credentials,
		appMetrics,
		userRepo,
		donationRepo,
		topDonorRepo,
		commentRepo,
		volunteerRepo,
		pipeline,
		images,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(config.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
