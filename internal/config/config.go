package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Bind        string `yaml:"bind"`
	Port        int    `yaml:"port"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
	CORS        bool   `yaml:"cors"`
}

type UploadConfig struct {
	Dir string `yaml:"dir"`
}

type ModelConfig struct {
	Path         string `yaml:"path"`
	MetadataPath string `yaml:"metadata_path"`
	LibraryPath  string `yaml:"library_path"` // onnxruntime shared library; empty uses the platform default
}

type FeatureConfig struct {
	SampleRate      int `yaml:"sample_rate"`
	NumCoefficients int `yaml:"num_coefficients"`
	MaxFrames       int `yaml:"max_frames"`
}

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	TraceExporter  string `yaml:"trace_exporter"` // none, stdout, otlp
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
}

type Config struct {
	ServiceName string          `yaml:"service_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Upload      UploadConfig    `yaml:"upload"`
	Model       ModelConfig     `yaml:"model"`
	Feature     FeatureConfig   `yaml:"feature"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
}

func Default() Config {
	return Config{
		ServiceName: "tajwid-api",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind:        "0.0.0.0",
			Port:        5000,
			MaxUploadMB: 32,
			CORS:        true,
		},
		Upload: UploadConfig{
			Dir: "audio",
		},
		Model: ModelConfig{
			Path: "model/model_tajwid_benar_salah.onnx",
		},
		Feature: FeatureConfig{
			SampleRate:      22050,
			NumCoefficients: 40,
			MaxFrames:       100,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			MetricsEnabled: true,
			TraceExporter:  "none",
			OTLPInsecure:   true,
		},
	}
}

// Load reads the YAML file at path (optional), applies TAJWID_* environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Bind, c.HTTP.Port)
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.ServiceName, "TAJWID_SERVICE_NAME")
	overrideString(&cfg.Environment, "TAJWID_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "TAJWID_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "PORT")
	overrideInt(&cfg.HTTP.Port, "TAJWID_HTTP_PORT")
	overrideInt(&cfg.HTTP.MaxUploadMB, "TAJWID_HTTP_MAX_UPLOAD_MB")
	overrideBool(&cfg.HTTP.CORS, "TAJWID_HTTP_CORS")
	overrideString(&cfg.Upload.Dir, "TAJWID_UPLOAD_DIR")
	overrideString(&cfg.Model.Path, "TAJWID_MODEL_PATH")
	overrideString(&cfg.Model.MetadataPath, "TAJWID_MODEL_METADATA_PATH")
	overrideString(&cfg.Model.LibraryPath, "TAJWID_MODEL_LIBRARY_PATH")
	overrideInt(&cfg.Feature.SampleRate, "TAJWID_FEATURE_SAMPLE_RATE")
	overrideInt(&cfg.Feature.NumCoefficients, "TAJWID_FEATURE_NUM_COEFFICIENTS")
	overrideInt(&cfg.Feature.MaxFrames, "TAJWID_FEATURE_MAX_FRAMES")
	overrideString(&cfg.Telemetry.LogLevel, "TAJWID_TELEMETRY_LOG_LEVEL")
	overrideBool(&cfg.Telemetry.MetricsEnabled, "TAJWID_TELEMETRY_METRICS_ENABLED")
	overrideString(&cfg.Telemetry.TraceExporter, "TAJWID_TELEMETRY_TRACE_EXPORTER")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "TAJWID_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "TAJWID_TELEMETRY_OTLP_INSECURE")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.ServiceName == "" {
		return errors.New("service_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.HTTP.MaxUploadMB <= 0 {
		return errors.New("http.max_upload_mb must be positive")
	}
	if cfg.Upload.Dir == "" {
		return errors.New("upload.dir must not be empty")
	}
	if cfg.Model.Path == "" {
		return errors.New("model.path must not be empty")
	}
	if cfg.Feature.SampleRate <= 0 {
		return errors.New("feature.sample_rate must be positive")
	}
	if cfg.Feature.NumCoefficients <= 0 {
		return errors.New("feature.num_coefficients must be positive")
	}
	if cfg.Feature.MaxFrames <= 0 {
		return errors.New("feature.max_frames must be positive")
	}
	switch strings.ToLower(cfg.Telemetry.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("telemetry.log_level must be one of debug|info|warn|error")
	}
	switch cfg.Telemetry.TraceExporter {
	case "none", "stdout":
	case "otlp":
		if cfg.Telemetry.OTLPEndpoint == "" {
			return errors.New("telemetry.otlp_endpoint must be set when trace_exporter=otlp")
		}
	default:
		return errors.New("telemetry.trace_exporter must be one of none|stdout|otlp")
	}
	return nil
}
