package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var batchFiles []string

var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Convert multiple documents in one run",
	Long: `Convert a set of PDF and image files to Markdown in a single run.

Files can be given as positional arguments, repeated --file flags, or both.
Documents are processed concurrently and each produces its own Markdown
file. A failing document does not stop the rest of the batch.

Examples:
  docparse batch a.pdf b.pdf c.png
  docparse batch --file a.pdf --file b.png
  docparse batch *.pdf --provider siliconflow -o converted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := append([]string{}, args...)
		paths = append(paths, batchFiles...)
		if len(paths) == 0 {
			return errors.New("no input files given (use positional arguments or --file)")
		}
		return runPipeline(cmd, paths)
	},
}

func init() {
	addProviderFlags(batchCmd)
	batchCmd.Flags().StringArrayVar(&batchFiles, "file", nil, "input file (repeatable)")
}
