package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"rentsurvey/config"
	"rentsurvey/internal/api"
	"rentsurvey/internal/database"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Storage.DBPath)

	db, err := database.NewDatabase(cfg.Storage.DBPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	router := gin.Default()
	api.SetupRoutes(router, db)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
