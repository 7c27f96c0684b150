package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:5000" {
		t.Fatalf("expected default addr, got %s", cfg.Addr())
	}
	if cfg.Upload.Dir != "audio" {
		t.Fatalf("expected default upload dir, got %q", cfg.Upload.Dir)
	}
	if cfg.Feature.NumCoefficients != 40 || cfg.Feature.MaxFrames != 100 || cfg.Feature.SampleRate != 22050 {
		t.Fatalf("unexpected feature defaults: %+v", cfg.Feature)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tajwid.yaml")
	data := []byte(`
http:
  port: 8080
  cors: false
model:
  path: /models/tajwid.onnx
  metadata_path: /models/tajwid.json
telemetry:
  log_level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 || cfg.HTTP.CORS {
		t.Fatalf("expected http overrides, got %+v", cfg.HTTP)
	}
	if cfg.HTTP.Bind != "0.0.0.0" {
		t.Fatalf("expected bind to keep its default, got %q", cfg.HTTP.Bind)
	}
	if cfg.Model.Path != "/models/tajwid.onnx" || cfg.Model.MetadataPath != "/models/tajwid.json" {
		t.Fatalf("expected model overrides, got %+v", cfg.Model)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Fatalf("expected log level debug, got %q", cfg.Telemetry.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TAJWID_HTTP_BIND", "127.0.0.1")
	t.Setenv("TAJWID_HTTP_PORT", "9000")
	t.Setenv("TAJWID_UPLOAD_DIR", "/tmp/uploads")
	t.Setenv("TAJWID_MODEL_PATH", "/srv/model.onnx")
	t.Setenv("TAJWID_MODEL_LIBRARY_PATH", "/usr/lib/libonnxruntime.so")
	t.Setenv("TAJWID_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("TAJWID_TELEMETRY_TRACE_EXPORTER", "stdout")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Fatalf("expected addr override, got %s", cfg.Addr())
	}
	if cfg.Upload.Dir != "/tmp/uploads" {
		t.Fatalf("expected upload dir override")
	}
	if cfg.Model.Path != "/srv/model.onnx" || cfg.Model.LibraryPath != "/usr/lib/libonnxruntime.so" {
		t.Fatalf("expected model overrides, got %+v", cfg.Model)
	}
	if cfg.Telemetry.MetricsEnabled {
		t.Fatal("expected metrics disabled")
	}
	if cfg.Telemetry.TraceExporter != "stdout" {
		t.Fatalf("expected stdout trace exporter")
	}
}

func TestPortEnvFallback(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("TAJWID_HTTP_PORT", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 7000 {
		t.Fatalf("expected PORT override, got %d", cfg.HTTP.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }},
		{"no upload dir", func(c *Config) { c.Upload.Dir = "" }},
		{"no model path", func(c *Config) { c.Model.Path = "" }},
		{"bad log level", func(c *Config) { c.Telemetry.LogLevel = "loud" }},
		{"otlp without endpoint", func(c *Config) { c.Telemetry.TraceExporter = "otlp" }},
		{"unknown exporter", func(c *Config) { c.Telemetry.TraceExporter = "zipkin" }},
		{"zero frames", func(c *Config) { c.Feature.MaxFrames = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := validate(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
