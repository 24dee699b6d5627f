// Package cli implements the command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/saori-labs/saori-kb/internal/config"
	"github.com/saori-labs/saori-kb/internal/core/ports/driven"
	"github.com/saori-labs/saori-kb/internal/core/ports/driving"
	"github.com/saori-labs/saori-kb/internal/logger"
)

// Services injected by main before Execute runs.
var (
	processor driving.DocumentProcessor
	retriever driving.KnowledgeRetriever
	registry  driven.ExtractorRegistry
	cfg       config.Config
)

var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "saori-kb",
	Short: "Document knowledge base for retrieval-augmented chat",
	Long: `saori-kb ingests documents (PDF, DOCX, TXT, MD), splits them into
paragraph-aligned chunks, embeds the chunks, and serves relevance-ranked
excerpts for use as language-model context.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Configure injects the services the commands depend on.
func Configure(
	c config.Config,
	p driving.DocumentProcessor,
	r driving.KnowledgeRetriever,
	reg driven.ExtractorRegistry,
) {
	cfg = c
	processor = p
	retriever = r
	registry = reg
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}
