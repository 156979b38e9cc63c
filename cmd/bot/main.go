package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dadjoke-bot/internal/bot"
	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/content"
	"dadjoke-bot/internal/metrics"
	"dadjoke-bot/internal/queue"
	"dadjoke-bot/internal/reply"
	"dadjoke-bot/internal/server"
	"dadjoke-bot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrEmptyBotToken) {
			fmt.Fprintln(os.Stderr, "Error: TELEGRAM_BOT_TOKEN environment variable is required")
		} else {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		}
		os.Exit(1)
	}

	logger.Init(cfg.App.LogLevel, nil)
	logger.Info("Starting dadjoke-bot",
		logger.String("app", cfg.App.Name),
		logger.String("environment", cfg.App.Environment),
		logger.Bool("webhook", cfg.Bot.UseWebhook()),
	)

	var pub bot.Publisher
	if cfg.NATS.Enabled {
		q, err := queue.New(cfg.NATS)
		if err != nil {
			logger.Error("Failed to connect to NATS", logger.Err(err))
			os.Exit(1)
		}
		defer q.Close()
		logger.Info("Connected to NATS", logger.String("url", cfg.NATS.URL))
		pub = q
	}

	fetcher := content.New(cfg.Sources)
	assembler := reply.New(fetcher)

	telegramBot, err := bot.New(cfg.Bot, assembler, pub)
	if err != nil {
		logger.Error("Failed to create bot", logger.Err(err))
		os.Exit(1)
	}

	reg := metrics.NewRegistry()
	httpServer := server.New(cfg.Server, telegramBot.WebhookHandler(), metrics.Handler(reg))
	if err := httpServer.Start(); err != nil {
		logger.Error("Failed to start HTTP server", logger.Err(err))
		os.Exit(1)
	}

	if err := telegramBot.Start(); err != nil {
		logger.Error("Failed to start bot", logger.Err(err))
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	telegramBot.Stop()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", logger.Err(err))
	}

	logger.Info("Bot stopped gracefully")
}
