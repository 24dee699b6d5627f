package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, inspect or remove documents in the knowledge base.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if processor == nil {
		return errors.New("document processor not configured")
	}

	docs, err := processor.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents in the knowledge base.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		if docs[i].Description != "" {
			cmd.Printf("    Description: %s\n", docs[i].Description)
		}
		cmd.Printf("    File: %s (%s)\n", docs[i].OriginalFilename, docs[i].FileType)
		cmd.Printf("    Added: %s\n", docs[i].AddedDate.Format("2006-01-02 15:04"))
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if processor == nil {
		return errors.New("document processor not configured")
	}

	chunks, err := processor.Chunks(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("Document has no chunks.")
		return nil
	}

	for i := range chunks {
		embedded := "no"
		if chunks[i].HasEmbedding() {
			embedded = "yes"
		}
		cmd.Printf("--- Chunk %d (%d chars, embedded: %s) ---\n", chunks[i].Index, chunks[i].Length, embedded)
		cmd.Println(chunks[i].Text)
		cmd.Println()
	}
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if processor == nil {
		return errors.New("document processor not configured")
	}

	if err := processor.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Removed document %s\n", args[0])
	return nil
}
