package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Brownie44l1/tajwid-api/internal/feature"
	"github.com/Brownie44l1/tajwid-api/internal/feedback"
	"github.com/Brownie44l1/tajwid-api/internal/model"
	"github.com/Brownie44l1/tajwid-api/internal/upload"
)

const (
	readyMessage    = "Tajwid API is ready!"
	multipartMemory = 8 << 20
)

// Config carries the collaborators of a Handler.
type Config struct {
	// Classifier is nil when the model failed to load at startup.
	Classifier     model.Classifier
	Classes        []string
	Store          *upload.Store
	Features       feature.Config
	MaxUploadBytes int64
	Logger         *slog.Logger
	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
}

type Handler struct {
	classifier     model.Classifier
	classes        []string
	store          *upload.Store
	features       feature.Config
	maxUploadBytes int64
	logger         *slog.Logger
	metrics        *metrics
	tracer         trace.Tracer
}

func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("upload store is required")
	}
	if len(cfg.Classes) != 2 {
		return nil, fmt.Errorf("expected 2 classes, got %d", len(cfg.Classes))
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	m, err := newMetrics(cfg.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	return &Handler{
		classifier:     cfg.Classifier,
		classes:        cfg.Classes,
		store:          cfg.Store,
		features:       cfg.Features,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         cfg.Logger,
		metrics:        m,
		tracer:         otel.Tracer(instrumentationName),
	}, nil
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(readyMessage))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", ModelLoaded: h.classifier != nil})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	start := time.Now()
	ctx, span := h.tracer.Start(r.Context(), "predict")
	defer span.End()

	resp, err := h.predict(ctx, w, r)
	elapsed := time.Since(start)
	h.metrics.recordRequest(ctx, outcome(err), elapsed)

	if err != nil {
		status := statusFor(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		level := slog.LevelError
		if status < http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		h.logger.Log(ctx, level, "prediction request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.Duration("duration", elapsed))
		writeError(w, status, err)
		return
	}

	span.SetAttributes(
		attribute.String("tajwid.label", resp.Label),
		attribute.String("tajwid.feedback_state", resp.FeedbackState),
	)
	h.metrics.recordPrediction(ctx, resp.Label, resp.FeedbackState)
	h.logger.Info("prediction served",
		slog.String("label", resp.Label),
		slog.Float64("confidence", resp.Confidence),
		slog.String("feedback_state", resp.FeedbackState),
		slog.Duration("duration", elapsed))

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) predict(ctx context.Context, w http.ResponseWriter, r *http.Request) (*PredictResponse, error) {
	if h.classifier == nil {
		return nil, model.ErrUnavailable
	}

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return nil, fmt.Errorf("upload exceeds %d bytes: %w", h.maxUploadBytes, err)
		case errors.Is(err, http.ErrNotMultipart):
			return nil, ErrMissingInput
		default:
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("audio")
	if err != nil {
		return nil, ErrMissingInput
	}
	defer file.Close()

	teks, ok := r.MultipartForm.Value["teks"]
	if !ok || len(teks) == 0 {
		return nil, ErrMissingInput
	}
	targetTeks := strings.TrimSpace(teks[0])

	saved, err := h.store.Save(file, header.Filename)
	if err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer func() {
		if err := saved.Remove(); err != nil {
			h.logger.Warn("failed to remove upload", slog.String("path", saved.Path), slog.String("error", err.Error()))
		}
	}()
	h.logger.Debug("audio received",
		slog.String("filename", header.Filename),
		slog.String("path", saved.Path),
		slog.Int64("size", saved.Size))

	_, extractSpan := h.tracer.Start(ctx, "extract_features")
	features, err := feature.ExtractFile(saved.Path, h.features)
	extractSpan.End()
	if err != nil {
		return nil, err
	}

	_, classifySpan := h.tracer.Start(ctx, "classify")
	pred, err := model.Predict(h.classifier, features, h.classes)
	classifySpan.End()
	if err != nil {
		return nil, err
	}

	return NewPredictResponse(pred, targetTeks), nil
}

// NewPredictResponse applies the feedback table to a prediction and echoes
// the target text unchanged.
func NewPredictResponse(pred *model.Prediction, targetTeks string) *PredictResponse {
	decision := feedback.Map(feedback.VerdictForIndex(pred.Index), pred.Confidence)
	return &PredictResponse{
		Label:         pred.Label,
		Confidence:    roundPercent(pred.Confidence),
		Feedback:      decision.Message,
		FeedbackState: decision.State,
		TargetTeks:    targetTeks,
	}
}

// roundPercent converts a [0,1] confidence to a percentage with two decimals.
func roundPercent(confidence float64) float64 {
	return math.Round(confidence*100*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}
