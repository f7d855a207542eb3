package main

import (
	"github.com/spf13/cobra"

	"github.com/docparse/docparse/version"
)

var (
	cfgFile string
	verbose bool

	// Provider overrides shared by the conversion commands.
	providerID  string
	apiKey      string
	model       string
	baseURL     string
	timeoutSecs int
	outputDir   string
	prompt      string
)

var rootCmd = &cobra.Command{
	Use:   "docparse",
	Short: "Convert documents to Markdown with cloud OCR providers",
	Long: `Docparse converts PDFs and scanned images into Markdown using
vision-capable OCR providers.

PDFs are split into per-page images, each page is recognized concurrently
against the configured provider, and the results are reassembled into a
single ordered Markdown file per document.

Provider credentials are read from the config file, a project .env file,
or the environment (SILICONFLOW_API_KEY, OPENAI_API_KEY).`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// addProviderFlags registers the provider override flags shared by the
// conversion commands.
func addProviderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&providerID, "provider", "", "OCR provider to use (default from config)")
	cmd.Flags().StringVarP(&apiKey, "api-key", "k", "", "API key override for the provider")
	cmd.Flags().StringVar(&model, "model", "", "model override for the provider")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL override")
	cmd.Flags().IntVarP(&timeoutSecs, "timeout", "t", 0, "per-request timeout in seconds (0 = no limit)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for Markdown files")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "custom OCR prompt")
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docparse/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(dirCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
