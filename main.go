package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mandamentos/internal/config"
	"mandamentos/internal/container"
	"mandamentos/internal/logging"
	"mandamentos/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	logger := logging.NewDefault()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "err", err)
	}
	logger = logging.New(appConfig.Log.Level, os.Stderr)
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		logger.Fatal("Failed to create application container", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm both sources in the background; requests load on demand anyway
	go func() {
		if err := appContainer.Preload(ctx); err != nil {
			logger.Warn("Preload incomplete", "err", err)
		}
	}()

	server, err := ui.NewServer(appContainer.Library, appContainer.Blog, logger)
	if err != nil {
		logger.Fatal("Failed to create server", "err", err)
	}

	logger.Info("Starting server", "port", appConfig.Server.Port, "profile", appContainer.Profile.Name)
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server stopped", "err", err)
	}
}
