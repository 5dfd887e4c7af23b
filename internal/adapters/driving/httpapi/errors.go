package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Error kinds exposed on the wire.
const (
	kindConfig       = "config"
	kindProvider     = "provider"
	kindBudget       = "budget"
	kindInvalidInput = "invalid_input"
	kindNotFound     = "not_found"
	kindInternal     = "internal"
)

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps a pipeline error onto the wire taxonomy. Underlying
// provider and infrastructure details stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	kind, status, message := classify(err)

	logger.Warn("Request failed (%s): %v", kind, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Kind: kind, Message: message}})
}

func classify(err error) (kind string, status int, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return kindInvalidInput, http.StatusBadRequest, err.Error()

	case errors.Is(err, domain.ErrNotFound):
		return kindNotFound, http.StatusNotFound, "not found"

	case domain.IsBudgetError(err):
		var be *domain.BudgetError
		errors.As(err, &be)
		return kindBudget, http.StatusInternalServerError, be.Error()

	case domain.IsConfigError(err):
		return kindConfig, http.StatusInternalServerError, "service misconfigured"

	case domain.IsProviderError(err):
		var pe *domain.ProviderError
		errors.As(err, &pe)
		return kindProvider, http.StatusBadGateway, "upstream provider " + pe.Provider + " failed"

	default:
		return kindInternal, http.StatusInternalServerError, "internal error"
	}
}
