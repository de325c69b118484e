package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"brixel/server/config"
	"brixel/server/internal/api"
	"brixel/server/internal/database"
	"brixel/server/internal/ingest"
	"brixel/server/internal/marketdata"
	"brixel/server/internal/valuation"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Database.Path)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Open the gorm handle used by the ingest write path
	gdb, err := gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open gorm connection")
	}

	if err := db.SeedDemoData(gdb); err != nil {
		logger.WithError(err).Error("Failed to seed demo data")
	}

	// Start the comparable-sales ingest pipeline
	queue := ingest.NewSaleQueue(cfg.ComparableIngest.QueueSize, logger)
	processor := ingest.NewBatchProcessor(gdb, queue, cfg, logger)
	processor.Start()
	queue.Start()
	defer func() {
		queue.Close()
		processor.Stop()
	}()

	// Wire the valuation engine with its data providers
	comparables := marketdata.NewComparableService(db, cfg, logger)
	trends := marketdata.NewTrendService(db, logger)
	engine := valuation.NewEngine(comparables, trends, cfg, logger)

	// Initialize router
	handler := api.NewHandler(db, engine, queue, logger)
	router := gin.Default()
	router.Use(cors.Default())
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
