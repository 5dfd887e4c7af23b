// Package tui provides the interactive chat terminal interface.
// It follows the Elm architecture via Bubbletea: a single chat view with
// a query input, a scrolling transcript, and source attribution.
package tui

import (
	"errors"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("tui: chat service is required")

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Chat answers queries against the indexed corpus.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
