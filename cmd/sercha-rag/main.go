// Command sercha-rag runs the retrieval-augmented question answering
// service: document ingestion, hybrid retrieval, and chat.
package main

import (
	"os"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
