package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docparse/docparse/internal/batch"
)

var dirPattern string

var dirCmd = &cobra.Command{
	Use:   "dir <directory>",
	Short: "Convert every supported document in a directory",
	Long: `Scan a directory for supported documents and convert them all.

Only files with supported extensions are picked up (PDF, PNG, JPEG, BMP,
TIFF). Subdirectories are not descended into. The optional --pattern flag
narrows the selection with a glob matched against the file name.

Examples:
  docparse dir ./scans
  docparse dir ./scans --pattern "invoice-*.pdf"
  docparse dir ./scans --provider openai -o converted`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := batch.ScanDir(args[0], dirPattern)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no supported documents found")
			return nil
		}
		return runPipeline(cmd, paths)
	},
}

func init() {
	addProviderFlags(dirCmd)
	dirCmd.Flags().StringVar(&dirPattern, "pattern", "", "glob pattern to filter file names")
}
