package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"stayscout/config"
	"stayscout/internal/api"
	"stayscout/internal/auth"
	"stayscout/internal/database"
	"stayscout/internal/geocoding"
	"stayscout/internal/service"
	"stayscout/internal/uploads"
)

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

	logger.Infof("Using database at: %s", cfg.DatabasePath)

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	uploadStore, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize upload store")
	}

	geocoder := geocoding.NewGeocoder(logger,
		geocoding.WithBaseURL(cfg.Geocoder.BaseURL),
		geocoding.WithUserAgent(cfg.Geocoder.UserAgent),
		geocoding.WithTimeout(time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second),
	)

	manager := auth.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour)
	authService := auth.NewService(db, manager, logger)
	listingService := service.NewListingService(db, geocoder, logger)
	reviewService := service.NewReviewService(db, logger)

	handler := api.NewHandler(listingService, reviewService, authService, manager, uploadStore, logger)

	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
