package tui

import (
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// answerReceived carries a completed query back to the model.
type answerReceived struct {
	query  string
	answer *domain.Answer
	err    error
}
