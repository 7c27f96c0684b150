package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Brownie44l1/tajwid-api/internal/config"
	"github.com/Brownie44l1/tajwid-api/internal/feature"
	"github.com/Brownie44l1/tajwid-api/internal/handlers"
	"github.com/Brownie44l1/tajwid-api/internal/model"
	"github.com/Brownie44l1/tajwid-api/internal/telemetry"
	"github.com/Brownie44l1/tajwid-api/internal/upload"
)

var version = "0.1.0-dev"

func main() {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Telemetry.LogLevel)}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, metricsHandler, err := telemetry.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}

	store, err := upload.NewStore(cfg.Upload.Dir)
	if err != nil {
		return err
	}

	features := feature.DefaultConfig()
	features.SampleRate = cfg.Feature.SampleRate
	features.NumCoefficients = cfg.Feature.NumCoefficients
	features.MaxFrames = cfg.Feature.MaxFrames
	if err := features.Validate(); err != nil {
		return fmt.Errorf("invalid feature config: %w", err)
	}

	// A missing, broken or mismatched model does not stop the server; /predict reports it.
	var classifier model.Classifier
	metadata := model.DefaultMetadata()
	if modelServer, err := loadModel(cfg.Model, features, logger); err != nil {
		logger.Error("failed to load model", slog.String("path", cfg.Model.Path), slog.String("error", err.Error()))
	} else {
		defer modelServer.Close()
		classifier = modelServer
		metadata = modelServer.Metadata
	}

	handler, err := handlers.NewHandler(handlers.Config{
		Classifier:     classifier,
		Classes:        metadata.Classes,
		Store:          store,
		Features:       features,
		MaxUploadBytes: int64(cfg.HTTP.MaxUploadMB) << 20,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.NewMux(handler, metricsHandler, cfg.HTTP.CORS),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if err != nil {
			serveErr = fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(serveErr, srv.Shutdown(shutdownCtx), shutdownTelemetry(shutdownCtx))
}

func loadModel(cfg config.ModelConfig, features feature.Config, logger *slog.Logger) (*model.Server, error) {
	logger.Info("loading model", slog.String("path", cfg.Path))
	srv, err := model.NewServer(cfg)
	if err != nil {
		return nil, err
	}
	if err := srv.Metadata.CheckFeatures(features.NumCoefficients, features.MaxFrames); err != nil {
		srv.Close()
		return nil, fmt.Errorf("model does not match feature config: %w", err)
	}
	logger.Info("model loaded", slog.Any("classes", srv.Metadata.Classes), slog.Any("input_shape", srv.Metadata.InputShape))
	return srv, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
