package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/queue"
	"dadjoke-bot/pkg/logger"

	"github.com/ilyakaznacheev/cleanenv"
)

func main() {
	var cfg struct {
		App  config.AppConfig
		NATS config.NATSConfig
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.LogLevel, nil)

	q, err := queue.New(cfg.NATS)
	if err != nil {
		logger.Error("Failed to connect to NATS", logger.Err(err))
		os.Exit(1)
	}
	defer q.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Tailing served content",
		logger.String("url", cfg.NATS.URL),
		logger.String("stream", cfg.NATS.StreamName),
	)

	err = q.ConsumeServed(ctx, func(msg *queue.ServedMessage) error {
		logger.Info("Content served",
			logger.String("source", string(msg.Source)),
			logger.String("content_id", msg.ContentID),
			logger.String("path", string(msg.Path)),
			logger.Int64("user_id", msg.UserID),
			logger.Any("served_at", msg.ServedAt),
		)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Served consumer error", logger.Err(err))
		os.Exit(1)
	}
}
