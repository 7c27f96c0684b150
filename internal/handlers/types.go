package handlers

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingInput is returned when the audio file or target text is absent.
	ErrMissingInput = errors.New("audio file and target text are required")
	// ErrBadRequest is returned for request bodies that cannot be parsed.
	ErrBadRequest = errors.New("malformed request")
)

// PredictResponse is the body of a successful POST /predict.
type PredictResponse struct {
	Label         string  `json:"label"`
	Confidence    float64 `json:"confidence"`
	Feedback      string  `json:"feedback"`
	FeedbackState string  `json:"feedbackState"`
	TargetTeks    string  `json:"target_teks"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, ErrMissingInput), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
