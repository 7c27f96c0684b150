package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/Brownie44l1/tajwid-api/internal/feature"
)

// probabilityTolerance bounds how far the class scores may sum from 1.
const probabilityTolerance = 1e-3

// ErrUnavailable is returned when no model was loaded at startup.
var ErrUnavailable = errors.New("model is not loaded")

// PredictionError reports a failure while running or interpreting the model.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// Classifier returns class probabilities for a flattened input tensor.
type Classifier interface {
	Probabilities(input []float32) ([]float32, error)
}

// Predict runs c on the feature matrix and picks the most probable class.
// classes lists the labels in model output order.
func Predict(c Classifier, m *feature.Matrix, classes []string) (*Prediction, error) {
	if c == nil {
		return nil, ErrUnavailable
	}

	probs, err := c.Probabilities(m.Tensor())
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	if len(probs) != len(classes) {
		return nil, &PredictionError{Err: fmt.Errorf("model returned %d scores for %d classes", len(probs), len(classes))}
	}

	maxIdx := 0
	sum := 0.0
	predictions := make(map[string]float32, len(probs))
	for i, p := range probs {
		v := float64(p)
		if math.IsNaN(v) || v < 0 || v > 1+probabilityTolerance {
			return nil, &PredictionError{Err: fmt.Errorf("score %d is not a probability: %v", i, p)}
		}
		sum += v
		predictions[classes[i]] = p
		if p > probs[maxIdx] {
			maxIdx = i
		}
	}
	if math.Abs(sum-1) > probabilityTolerance {
		return nil, &PredictionError{Err: fmt.Errorf("scores sum to %f, not 1", sum)}
	}

	return &Prediction{
		Index:         maxIdx,
		Label:         classes[maxIdx],
		Confidence:    float64(probs[maxIdx]),
		Probabilities: predictions,
	}, nil
}
