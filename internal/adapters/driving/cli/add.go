package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addTitle       string
	addDescription string
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Ingest a document into the knowledge base",
	Long: `Copies the file into the knowledge base, extracts its text, splits it
into chunks and embeds each chunk. The document becomes searchable
immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "document title (defaults to the filename)")
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "document description")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if processor == nil {
		return errors.New("document processor not configured")
	}

	id, err := processor.Add(context.Background(), args[0], addTitle, addDescription)
	if err != nil {
		if registry != nil {
			return fmt.Errorf("failed to add document (supported formats: %s): %w",
				strings.Join(registry.SupportedExtensions(), ", "), err)
		}
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added document %s\n", id)
	return nil
}
