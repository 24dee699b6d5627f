package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var reprocessAll bool

var reprocessCmd = &cobra.Command{
	Use:   "reprocess [doc-id]",
	Short: "Re-extract, re-split and re-embed documents",
	Long: `Re-runs the processing pipeline from the stored file copy. Useful after
changing the chunking threshold or when embeddings previously failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReprocess,
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild-index",
	Short: "Reconstruct the document index from chunk files",
	Long: `Recovery command for a corrupted or missing index: synthesises a minimal
index entry for every document that still has a chunk file and a stored
copy. Titles become placeholders.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	reprocessCmd.Flags().BoolVar(&reprocessAll, "all", false, "reprocess every indexed document")
	rootCmd.AddCommand(reprocessCmd)
	rootCmd.AddCommand(rebuildCmd)
}

func runReprocess(cmd *cobra.Command, args []string) error {
	if processor == nil {
		return errors.New("document processor not configured")
	}

	ctx := context.Background()

	if reprocessAll {
		msg, err := processor.ReprocessAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to reprocess documents: %w", err)
		}
		cmd.Println(msg)
		return nil
	}

	if len(args) == 0 {
		return errors.New("provide a document id or --all")
	}

	msg, err := processor.Reprocess(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to reprocess document: %w", err)
	}
	cmd.Println(msg)
	return nil
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if processor == nil {
		return errors.New("document processor not configured")
	}

	if err := processor.RebuildIndex(context.Background()); err != nil {
		return fmt.Errorf("failed to rebuild index: %w", err)
	}
	cmd.Println("Index rebuilt from chunk files.")
	return nil
}
