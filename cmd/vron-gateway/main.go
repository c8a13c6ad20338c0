package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vronhq/vron-gateway/internal/audit"
	"github.com/vronhq/vron-gateway/internal/config"
	"github.com/vronhq/vron-gateway/internal/gateway"
	"github.com/vronhq/vron-gateway/internal/ron"
	"github.com/vronhq/vron-gateway/internal/server"
	"github.com/vronhq/vron-gateway/internal/storage/mongodb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vron-gateway:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	store, err := mongodb.NewStore(connectCtx, &mongodb.Config{
		URI:      cfg.Storage.MongoDB.URI,
		Database: cfg.Storage.MongoDB.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Close(closeCtx)
	}()

	auditLogger := audit.NewLogger(store, &audit.Config{BufferSize: cfg.Audit.BufferSize}, logger)
	auditLogger.Start()
	defer auditLogger.Stop()

	gw := gateway.New(&gateway.Config{
		RON: ron.Config{
			URL:      cfg.RON.URL,
			Username: cfg.RON.Username,
			Password: cfg.RON.Password,
		},
		BaseKey: cfg.API.BaseKey,
		Keys:    store,
		Audit:   auditLogger,
		Logger:  logger,
	})

	srv := server.New(&server.Config{
		Port:     cfg.Server.Port,
		BasePath: cfg.Server.BasePath,
	}, gw, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
