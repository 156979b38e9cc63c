package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/internal/models"
	"dadjoke-bot/pkg/logger"

	"github.com/nats-io/nats.go"
)

const (
	ServedSubject = "content.served"
	ConsumerGroup = "dadjoke-bot"
)

type NATS struct {
	conn      *nats.Conn
	jetstream nats.JetStreamContext
	cfg       config.NATSConfig
}

func New(cfg config.NATSConfig) (*NATS, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name(ConsumerGroup))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to get JetStream: %w", err)
	}

	n := &NATS{
		conn:      conn,
		jetstream: js,
		cfg:       cfg,
	}

	if err := n.ensureStream(); err != nil {
		conn.Close()
		return nil, err
	}

	return n, nil
}

func (n *NATS) ensureStream() error {
	_, err := n.jetstream.StreamInfo(n.cfg.StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", n.cfg.StreamName, err)
	}

	_, err = n.jetstream.AddStream(&nats.StreamConfig{
		Name:     n.cfg.StreamName,
		Subjects: []string{ServedSubject},
		MaxAge:   7 * 24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", n.cfg.StreamName, err)
	}
	return nil
}

func (n *NATS) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

// ServedMessage records one piece of content reaching a user.
type ServedMessage struct {
	Source    models.ContentSource `json:"source"`
	ContentID string               `json:"content_id"`
	Path      models.ServedPath    `json:"path"`
	UserID    int64                `json:"user_id"`
	ServedAt  time.Time            `json:"served_at"`
}

func (n *NATS) PublishServed(ctx context.Context, msg *ServedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal served message: %w", err)
	}

	_, err = n.jetstream.Publish(ServedSubject, data, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to publish served message: %w", err)
	}

	logger.Debug("Served message published to queue",
		logger.String("source", string(msg.Source)),
		logger.String("content_id", msg.ContentID),
	)

	return nil
}

func (n *NATS) ConsumeServed(ctx context.Context, handler func(*ServedMessage) error) error {
	sub, err := n.jetstream.PullSubscribe(
		ServedSubject,
		ConsumerGroup,
		nats.BindStream(n.cfg.StreamName),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to served messages: %w", err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msgs, err := sub.Fetch(10, nats.MaxWait(500*time.Millisecond))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				return fmt.Errorf("failed to fetch messages: %w", err)
			}

			for _, msg := range msgs {
				served, err := decodeServed(msg.Data)
				if err != nil {
					logger.Error("Failed to unmarshal served message", logger.Err(err))
					msg.Term()
					continue
				}

				if err := handler(served); err != nil {
					logger.Error("Failed to process served message", logger.Err(err))
					msg.Nak()
					continue
				}

				msg.Ack()
			}
		}
	}
}

func decodeServed(data []byte) (*ServedMessage, error) {
	var served ServedMessage
	if err := json.Unmarshal(data, &served); err != nil {
		return nil, err
	}
	if _, ok := models.ParseSource(string(served.Source)); !ok {
		return nil, fmt.Errorf("unknown source %q", served.Source)
	}
	return &served, nil
}
