package handlers

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Brownie44l1/tajwid-api/internal/feature"
	"github.com/Brownie44l1/tajwid-api/internal/model"
)

const instrumentationName = "github.com/Brownie44l1/tajwid-api/handlers"

type metrics struct {
	requests    metric.Int64Counter
	predictions metric.Int64Counter
	duration    metric.Float64Histogram
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	meter := mp.Meter(instrumentationName)

	requests, err := meter.Int64Counter("tajwid.predict.requests",
		metric.WithDescription("Prediction requests by outcome"))
	if err != nil {
		return nil, err
	}
	predictions, err := meter.Int64Counter("tajwid.predict.results",
		metric.WithDescription("Successful predictions by label and feedback state"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("tajwid.predict.duration",
		metric.WithDescription("End-to-end prediction latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &metrics{requests: requests, predictions: predictions, duration: duration}, nil
}

func (m *metrics) recordRequest(ctx context.Context, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *metrics) recordPrediction(ctx context.Context, label, state string) {
	m.predictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("label", label),
		attribute.String("feedback_state", state),
	))
}

// outcome classifies a request result for metric attributes.
func outcome(err error) string {
	var extractErr *feature.ExtractionError
	var predErr *model.PredictionError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMissingInput), errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, model.ErrUnavailable):
		return "model_unavailable"
	case errors.As(err, &extractErr):
		return "extraction_error"
	case errors.As(err, &predErr):
		return "prediction_error"
	default:
		return "error"
	}
}
