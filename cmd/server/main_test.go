package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brownie44l1/tajwid-api/internal/config"
	"github.com/Brownie44l1/tajwid-api/internal/feature"
)

func TestLoadModelMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.ModelConfig{Path: filepath.Join(t.TempDir(), "missing.onnx")}

	srv, err := loadModel(cfg, feature.DefaultConfig(), logger)
	if srv != nil {
		t.Fatal("expected no model server")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadModelRejectsMismatchedMetadata(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.onnx")
	metaPath := filepath.Join(dir, "meta.json")
	if err := os.WriteFile(modelPath, []byte("onnx"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(metaPath, []byte(`{"input_shape":[1,3,48,48]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	srv, err := loadModel(config.ModelConfig{Path: modelPath, MetadataPath: metaPath}, feature.DefaultConfig(), logger)
	if srv != nil || err == nil {
		t.Fatalf("expected metadata error, got server=%v err=%v", srv, err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
