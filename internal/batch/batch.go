// Package batch orchestrates OCR runs across a set of input documents.
//
// Work fans out over a bounded pool of (document, page) tasks and gathers
// into pre-sized per-document result slots, so page order is restored from
// the page index no matter what order requests complete in.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/docparse/docparse/internal/assemble"
	"github.com/docparse/docparse/internal/document"
	"github.com/docparse/docparse/internal/processor"
	"github.com/docparse/docparse/internal/splitter"
)

// DefaultMaxWorkers bounds concurrent OCR requests when no limit is configured.
const DefaultMaxWorkers = 10

// Status summarizes one document's outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// DocumentResult is the ordered outcome of one document's run.
type DocumentResult struct {
	Path       string
	Status     Status
	Pages      []processor.PageResult
	OutputPath string
	Err        error // set for documents that never produced pages
	Elapsed    time.Duration

	doc *document.Document
}

// PageSplitter converts one document into its ordered page units.
// *splitter.Splitter is the production implementation.
type PageSplitter interface {
	Split(ctx context.Context, doc *document.Document) ([]document.PageUnit, error)
}

// Orchestrator runs batches of documents through the OCR pipeline.
type Orchestrator struct {
	split      PageSplitter
	proc       *processor.PageProcessor
	outputDir  string
	maxWorkers int
	logger     *slog.Logger
}

// Options configures an Orchestrator.
type Options struct {
	OutputDir  string
	MaxWorkers int
	Logger     *slog.Logger
	Splitter   PageSplitter // defaults to splitter.New
}

// New creates an Orchestrator around a page processor.
func New(proc *processor.PageProcessor, opts Options) *Orchestrator {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = DefaultMaxWorkers
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Splitter == nil {
		opts.Splitter = splitter.New(opts.Logger)
	}
	return &Orchestrator{
		split:      opts.Splitter,
		proc:       proc,
		outputDir:  opts.OutputDir,
		maxWorkers: opts.MaxWorkers,
		logger:     opts.Logger,
	}
}

// pageTask is one unit of OCR work tagged with its result slot.
type pageTask struct {
	unit  document.PageUnit
	slot  *processor.PageResult
	state *docState
}

// docState tracks a document's outstanding pages so its artifact is written
// the moment the last one completes, independent of the rest of the batch.
type docState struct {
	res       *DocumentResult
	started   time.Time
	remaining atomic.Int32
}

// Run processes every path in the batch and writes one artifact per document
// that produced pages. Artifacts are persisted as each document finishes, so
// cancelling a run mid-batch keeps the output of every document completed so
// far. Document-level failures (missing, unsupported, corrupt) are isolated
// to their document; the batch always runs to completion. The returned error
// covers only catastrophic conditions such as context cancellation.
func (o *Orchestrator) Run(ctx context.Context, paths []string) (*Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := o.logger.With("run_id", runID)

	logger.Info("starting batch", "files", len(paths), "max_workers", o.maxWorkers)

	results := make([]DocumentResult, len(paths))
	var tasks []pageTask

	// Split phase: enumerate page units up front so the work pool sees every
	// (document, page) pair in the batch at once.
	for i, path := range paths {
		docStart := time.Now()
		results[i].Path = path

		doc, err := document.New(path)
		if err != nil {
			logger.Warn("skipping document", "path", path, "error", err)
			results[i].Status = StatusFailed
			results[i].Err = err
			results[i].Elapsed = time.Since(docStart)
			continue
		}

		units, err := o.split.Split(ctx, doc)
		if err != nil {
			logger.Warn("failed to split document", "path", path, "error", err)
			results[i].Status = StatusFailed
			results[i].Err = err
			results[i].Elapsed = time.Since(docStart)
			continue
		}

		logger.Debug("split document", "path", path, "pages", len(units))

		results[i].doc = doc
		results[i].Pages = make([]processor.PageResult, len(units))
		state := &docState{res: &results[i], started: docStart}
		state.remaining.Store(int32(len(units)))
		if len(units) == 0 {
			o.finishDocument(state, logger)
			continue
		}
		for j, unit := range units {
			tasks = append(tasks, pageTask{unit: unit, slot: &results[i].Pages[j], state: state})
		}
	}

	// OCR phase: bounded fan-out over all pages of all documents. The
	// processor converts every provider failure into a failed PageResult, so
	// workers only ever stop early on context cancellation. Whichever worker
	// completes a document's final page writes its artifact right away, so an
	// interrupted run keeps every document finished before the cancellation.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxWorkers)
	for _, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			*task.slot = o.proc.Process(gctx, task.unit)
			if task.state.remaining.Add(-1) == 0 {
				o.finishDocument(task.state, logger)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	report := newReport(runID, results, time.Since(start))
	logger.Info("batch complete",
		"total", report.TotalFiles,
		"succeeded", report.SuccessCount,
		"partial", report.PartialCount,
		"failed", report.FailedCount,
		"elapsed", report.Elapsed)

	return report, nil
}

// finishDocument assembles and persists one document's artifact. It runs
// exactly once per document, from the goroutine that completed its final
// page; the atomic countdown in Run orders all page slot writes before it.
func (o *Orchestrator) finishDocument(state *docState, logger *slog.Logger) {
	res := state.res

	artifact := assemble.Assemble(res.Pages)
	outPath, err := assemble.Write(o.outputDir, res.doc.BaseName(), artifact)
	res.Elapsed = time.Since(state.started)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return
	}
	res.OutputPath = outPath
	res.Status = pageStatus(res.Pages)

	logger.Info("document complete",
		"path", res.Path,
		"status", res.Status,
		"pages", len(res.Pages),
		"output", outPath)
}

// pageStatus derives a document's status from its page outcomes.
// Every page failing marks the document failed even though its artifact of
// placeholders is still written.
func pageStatus(pages []processor.PageResult) Status {
	failed := 0
	for _, p := range pages {
		if p.Failed() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return StatusSuccess
	case failed == len(pages):
		return StatusFailed
	default:
		return StatusPartial
	}
}
