package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"stayscout/config"
	"stayscout/internal/backfill"
	"stayscout/internal/database"
	"stayscout/internal/geocoding"
)

// One-shot batch job that repairs listings stored without coordinates.
// Exits 0 on completion even when individual listings were skipped;
// non-zero on connection or unrecoverable failure.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	geocoder := geocoding.NewGeocoder(logger,
		geocoding.WithBaseURL(cfg.Geocoder.BaseURL),
		geocoding.WithUserAgent(cfg.Geocoder.UserAgent),
		geocoding.WithTimeout(time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second),
	)

	job := backfill.NewJob(db, geocoder, logger, time.Duration(cfg.Backfill.DelayMillis)*time.Millisecond)

	result, err := job.Run(context.Background())
	if err != nil {
		logger.WithError(err).Fatal("Geocoding backfill failed")
	}

	logger.WithFields(logrus.Fields{
		"scanned": result.Scanned,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("Backfill finished")
}
