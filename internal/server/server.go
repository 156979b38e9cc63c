package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"dadjoke-bot/internal/config"
	"dadjoke-bot/pkg/logger"
)

const healthMessage = "The bot is still running fine!"

type Server struct {
	srv *http.Server
	cfg config.ServerConfig
}

// New mounts the webhook (if any), health and metrics handlers.
func New(cfg config.ServerConfig, webhook http.Handler, metrics http.Handler) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           Routes(webhook, metrics),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func Routes(webhook http.Handler, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	if webhook != nil {
		mux.Handle("POST "+config.WebhookPath, webhook)
	}
	mux.HandleFunc("GET "+config.HealthPath, handleHealth)
	if metrics != nil {
		mux.Handle("GET "+config.MetricsPath, metrics)
	}

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(healthMessage))
}

// Start listens in the background; it returns once the port is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		logger.Info("HTTP server starting", logger.String("addr", ln.Addr().String()))
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", logger.Err(err))
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
