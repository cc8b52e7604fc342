package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sozercan/question-decomposer/apimodels"
	"github.com/sozercan/question-decomposer/internal/decomposer"
	"github.com/sozercan/question-decomposer/internal/llm"
)

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req apimodels.DecompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}

	slog.Debug("Received decomposition request", "request", req)

	result, err := s.decomposer.Decompose(r.Context(), req)
	if err != nil {
		slog.Error("Decomposition request failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	slog.Debug("Decomposition request completed successfully", "subquestions", len(result.Subquestions))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("Health check request failed", "error", err)
	}
}

func statusFor(err error) int {
	var (
		transportErr *llm.TransportError
		schemaErr    *llm.SchemaValidationError
	)
	switch {
	case errors.Is(err, decomposer.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case errors.As(err, &schemaErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
