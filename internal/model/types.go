package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Class labels in model output order.
const (
	LabelCorrect   = "Benar"
	LabelIncorrect = "Salah"
)

// Feature matrix dimensions the tajwid classifier was trained on.
const (
	FeatureCoefficients = 40
	FeatureFrames       = 100
)

// Metadata describes the tensors and classes of an exported model. It is
// read from an optional JSON sidecar next to the model file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Classes     []string `json:"classes"`
}

// DefaultMetadata matches the tajwid classifier: one 40x100 single-channel
// MFCC image in, two class probabilities out.
func DefaultMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, 40, 100, 1},
		OutputShape: []int64{1, 2},
		InputName:   "input",
		OutputName:  "output",
		Classes:     []string{LabelCorrect, LabelIncorrect},
	}
}

// LoadMetadata reads a metadata sidecar. An empty path yields the defaults;
// fields missing from the file keep their default values.
func LoadMetadata(path string) (Metadata, error) {
	metadata := DefaultMetadata()
	if path == "" {
		return metadata, nil
	}

	metaFile, err := os.ReadFile(path)
	if err != nil {
		return metadata, fmt.Errorf("failed to read metadata: %w", err)
	}
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return metadata, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := metadata.Validate(); err != nil {
		return metadata, fmt.Errorf("invalid metadata: %w", err)
	}
	return metadata, nil
}

// Validate checks the invariants the rest of the service relies on.
func (m Metadata) Validate() error {
	if len(m.Classes) != 2 {
		return fmt.Errorf("expected 2 classes, got %d", len(m.Classes))
	}
	if m.InputName == "" || m.OutputName == "" {
		return errors.New("input and output names must be set")
	}
	if n := shapeSize(m.InputShape); n <= 0 {
		return fmt.Errorf("invalid input shape %v", m.InputShape)
	}
	if err := m.CheckFeatures(FeatureCoefficients, FeatureFrames); err != nil {
		return err
	}
	if n := shapeSize(m.OutputShape); n != int64(len(m.Classes)) {
		return fmt.Errorf("output shape %v does not hold %d class scores", m.OutputShape, len(m.Classes))
	}
	return nil
}

// CheckFeatures reports whether a coefficients x frames feature matrix fills
// the model input exactly.
func (m Metadata) CheckFeatures(coefficients, frames int) error {
	if n := m.InputSize(); coefficients*frames != n {
		return fmt.Errorf("input shape %v holds %d values, features are %dx%d", m.InputShape, n, coefficients, frames)
	}
	return nil
}

// InputSize is the number of float32 values the model consumes.
func (m Metadata) InputSize() int {
	return int(shapeSize(m.InputShape))
}

func shapeSize(shape []int64) int64 {
	if len(shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range shape {
		if d <= 0 {
			return 0
		}
		n *= d
	}
	return n
}

// Prediction is the classifier output for one recording.
type Prediction struct {
	Index         int
	Label         string
	Confidence    float64
	Probabilities map[string]float32
}
