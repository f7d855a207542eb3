package main

import (
	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Convert a single document to Markdown",
	Long: `Convert a single PDF or image file to Markdown.

The output file is written to the output directory as <basename>.md.

Examples:
  docparse file scan.pdf
  docparse file invoice.png --provider openai
  docparse file book.pdf -o converted -t 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args)
	},
}

func init() {
	addProviderFlags(fileCmd)
}
