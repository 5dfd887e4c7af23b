// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// RAG pipeline. It enables AI assistants to ingest documents and ask questions
// against the indexed corpus.
package mcp

import "errors"

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("mcp: ingest service is required")

// ErrMissingChatService is returned when the chat service is not provided.
var ErrMissingChatService = errors.New("mcp: chat service is required")
