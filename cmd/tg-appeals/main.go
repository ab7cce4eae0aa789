package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tg-appeals/internal/bot"
	"tg-appeals/internal/config"
	"tg-appeals/internal/crash"
	"tg-appeals/internal/handler"
	"tg-appeals/internal/logger"
	"tg-appeals/internal/service"
	"tg-appeals/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	// Persistence is not optional: appeals must survive restarts.
	if err := storage.Initialize(cfg); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, server, err := bot.Initialize(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize bot: %v", err)
	}

	handler.Initialize(cfg)

	if err := service.InitRepositories(); err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	if server != nil {
		crash.SafeGoroutine("webhook-server", func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("HTTP server error: %v", err)
			}
		})

		// Give the server time to start before updates flow.
		time.Sleep(500 * time.Millisecond)
		logger.Infof("HTTP server is ready, starting bot handler...")
	}

	handler.SetupMessageHandlers(botService.Handler, botService.Bot)
	crash.SafeGoroutine("bot-handler", func() {
		botService.Start()
	})

	logger.Infof("Bot started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	botService.Stop()

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warningf("HTTP server shutdown error: %v", err)
		}
	}

	logger.Infof("Server gracefully stopped")
}
