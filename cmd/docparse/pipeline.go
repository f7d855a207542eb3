package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docparse/docparse/internal/batch"
	"github.com/docparse/docparse/internal/config"
	"github.com/docparse/docparse/internal/processor"
	"github.com/docparse/docparse/internal/providers"
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildOrchestrator wires config, provider and page processor into a batch
// orchestrator, applying CLI overrides on top of the loaded config.
func buildOrchestrator(logger *slog.Logger) (*batch.Orchestrator, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()

	id := cfg.Defaults.Provider
	if providerID != "" {
		id = providerID
	}

	registry := providers.NewRegistry(cfg.ToProviderConfigs())
	pcfg, err := registry.Resolve(id, providers.Overrides{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: baseURL,
		Timeout: time.Duration(timeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	prov, err := providers.New(pcfg)
	if err != nil {
		return nil, err
	}

	ocrPrompt := cfg.Defaults.Prompt
	if prompt != "" {
		ocrPrompt = prompt
	}

	outDir := cfg.Defaults.OutputDir
	if outputDir != "" {
		outDir = outputDir
	}

	proc := processor.New(prov, pcfg, ocrPrompt, logger)
	return batch.New(proc, batch.Options{
		OutputDir:  outDir,
		MaxWorkers: cfg.Defaults.MaxWorkers,
		Logger:     logger,
	}), nil
}

// runPipeline converts the given documents and prints the run summary.
// The returned error is non-nil when any document failed outright, which
// drives a non-zero process exit.
func runPipeline(cmd *cobra.Command, paths []string) error {
	logger := newLogger()

	orch, err := buildOrchestrator(logger)
	if err != nil {
		return err
	}

	report, err := orch.Run(cmd.Context(), paths)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary())

	if report.Failed() {
		return fmt.Errorf("%d of %d documents failed", report.FailedCount, report.TotalFiles)
	}
	return nil
}
