package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverPanics turns a panic in a handler into a JSON 500 response.
func recoverPanics(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.Error("handler panic",
					slog.String("path", r.URL.Path),
					slog.Any("panic", v))
				writeError(w, http.StatusInternalServerError, fmt.Errorf("internal error: %v", v))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NewMux wires the handler's routes. metricsHandler may be nil.
func NewMux(h *Handler, metricsHandler http.Handler, cors bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", h.Index)
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/predict", h.Predict)
	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	var handler http.Handler = mux
	if cors {
		handler = enableCORS(handler)
	}
	return recoverPanics(h.logger, handler)
}
