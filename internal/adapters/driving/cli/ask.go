package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var (
	askTopK         int
	askSparseWeight float64
	askDenseWeight  float64
	askJSON         bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the indexed corpus",
	Long: `Runs the full query pipeline: hybrid keyword and semantic retrieval,
context assembly, and answer generation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "n", 0, "candidates per ranker (0 = config default)")
	askCmd.Flags().Float64Var(&askSparseWeight, "sparse-weight", 0, "keyword ranker weight (0 = config default)")
	askCmd.Flags().Float64Var(&askDenseWeight, "dense-weight", 0, "semantic ranker weight (0 = config default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	opts := domain.AskOptions{
		TopK: askTopK,
		Weights: domain.FusionWeights{
			Sparse: askSparseWeight,
			Dense:  askDenseWeight,
		},
	}

	answer, err := a.Chat.Ask(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, id := range answer.Sources {
			cmd.Printf("  [%d] %s\n", i+1, id)
		}
	}
	return nil
}
