package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askMaxChunks int
	askMaxChars  int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Print the knowledge block for a question",
	Long: `Runs retrieval for a question and prints the delimited excerpt block
exactly as it would be injected into a language-model prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askMaxChunks, "max-chunks", 0, "maximum excerpts to include (0 = config default)")
	askCmd.Flags().IntVar(&askMaxChars, "max-chars", 0, "character budget for the block (0 = config default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if retriever == nil {
		return errors.New("knowledge retriever not configured")
	}

	maxChunks := askMaxChunks
	if maxChunks <= 0 {
		maxChunks = cfg.Retriever.MaxChunks
	}
	maxChars := askMaxChars
	if maxChars <= 0 {
		maxChars = cfg.Retriever.MaxChars
	}

	block, err := retriever.RelevantKnowledge(context.Background(), args[0], maxChunks, maxChars)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	cmd.Println(block)
	return nil
}
